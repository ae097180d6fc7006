package service

import (
	"context"
	"fmt"

	"crewassist/pkg/config"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type OpenAISynthesizer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAISynthesizer(cfg *config.OpenAIConfig, logger *zap.Logger) *OpenAISynthesizer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAISynthesizer{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		logger: logger,
	}
}

func (s *OpenAISynthesizer) Summarize(ctx context.Context, systemInstruction, userContent string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: userContent},
		},
	}

	var resp openai.ChatCompletionResponse
	err := withRetry(ctx, func() error {
		var callErr error
		resp, callErr = s.client.CreateChatCompletion(ctx, req)
		if callErr != nil {
			s.logger.Warn("Chat completion request failed", zap.Error(callErr))
		}
		return callErr
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (s *OpenAISynthesizer) Close() error {
	return nil
}
