package service

import (
	"context"
	"fmt"

	"crewassist/pkg/config"

	"go.uber.org/zap"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// WebResult is one hit from the external web search, in the shape handed to
// the synthesizer for summarization.
type WebResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// SearchService queries Google Programmable Search as the fallback knowledge
// source when no manual excerpt clears the similarity threshold.
type SearchService struct {
	svc        *customsearch.Service
	engineID   string
	maxResults int64
	logger     *zap.Logger
}

func NewSearchService(ctx context.Context, cfg *config.SearchConfig, logger *zap.Logger, opts ...option.ClientOption) (*SearchService, error) {
	clientOpts := append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	svc, err := customsearch.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	maxResults := int64(cfg.MaxResults)
	if maxResults <= 0 {
		maxResults = 5
	}

	return &SearchService{
		svc:        svc,
		engineID:   cfg.EngineID,
		maxResults: maxResults,
		logger:     logger,
	}, nil
}

func (s *SearchService) Search(ctx context.Context, query string) ([]WebResult, error) {
	resp, err := s.svc.Cse.List().
		Q(query).
		Cx(s.engineID).
		Num(s.maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}

	results := make([]WebResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, WebResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			URL:     item.Link,
		})
	}

	s.logger.Info("Web search completed",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)

	return results, nil
}
