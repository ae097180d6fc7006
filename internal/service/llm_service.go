package service

import (
	"context"
	"fmt"
	"strings"

	"crewassist/pkg/config"

	"go.uber.org/zap"
)

// Synthesizer produces a concise answer from a system instruction and user
// content. Both the official-manual path and the web-search fallback go
// through the same capability.
type Synthesizer interface {
	Summarize(ctx context.Context, systemInstruction, userContent string) (string, error)
	Close() error
}

// NewSynthesizer selects the synthesis backend by configured provider name.
func NewSynthesizer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Synthesizer, error) {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		return NewOpenAISynthesizer(&cfg.OpenAI, logger), nil
	case "gigachat":
		return NewGigaChatSynthesizer(ctx, &cfg.GigaChat, logger)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLM.Provider)
	}
}
