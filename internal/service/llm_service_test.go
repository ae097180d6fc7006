package service

import (
	"context"
	"testing"

	"crewassist/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewSynthesizerOpenAI(t *testing.T) {
	cfg := &config.Config{
		LLM:    config.LLMConfig{Provider: "OpenAI"},
		OpenAI: config.OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini"},
	}

	synth, err := NewSynthesizer(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &OpenAISynthesizer{}, synth)
}

func TestNewSynthesizerUnsupportedProvider(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{Provider: "llama"}}

	_, err := NewSynthesizer(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported llm provider")
}
