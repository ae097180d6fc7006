package service

import (
	"context"
	"fmt"

	"crewassist/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

type GigaChatSynthesizer struct {
	client    *gigago.Client
	modelName string
	logger    *zap.Logger
}

func NewGigaChatSynthesizer(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*GigaChatSynthesizer, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	return &GigaChatSynthesizer{
		client:    client,
		modelName: "GigaChat",
		logger:    logger,
	}, nil
}

func (s *GigaChatSynthesizer) Summarize(ctx context.Context, systemInstruction, userContent string) (string, error) {
	// A model is configured per call: the system instruction differs between
	// the official and fallback paths, and a shared model would race under
	// concurrent requests.
	model := s.client.GenerativeModel(s.modelName)
	model.SystemInstruction = systemInstruction
	model.Temperature = 0.3

	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: userContent},
	}

	var content string
	err := withRetry(ctx, func() error {
		resp, callErr := model.Generate(ctx, messages)
		if callErr != nil {
			s.logger.Warn("GigaChat request failed", zap.Error(callErr))
			return callErr
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no response from LLM")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	return content, nil
}

func (s *GigaChatSynthesizer) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
