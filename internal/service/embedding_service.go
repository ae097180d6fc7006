package service

import (
	"context"
	"fmt"

	"crewassist/pkg/config"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// EmbeddingService converts question text into a fixed-dimension vector via
// the OpenAI embeddings API.
type EmbeddingService struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewEmbeddingService(cfg *config.OpenAIConfig, logger *zap.Logger) *EmbeddingService {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &EmbeddingService{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.EmbeddingModel,
		logger: logger,
	}
}

func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(s.model),
	}

	var resp openai.EmbeddingResponse
	err := withRetry(ctx, func() error {
		var callErr error
		resp, callErr = s.client.CreateEmbeddings(ctx, req)
		if callErr != nil {
			s.logger.Warn("Embedding request failed", zap.Error(callErr))
		}
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding data in response")
	}

	return resp.Data[0].Embedding, nil
}
