package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"crewassist/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func embeddingJSON(vec []float32) []byte {
	resp := map[string]any{
		"object": "list",
		"data": []map[string]any{
			{"object": "embedding", "index": 0, "embedding": vec},
		},
		"model": "text-embedding-3-small",
	}
	b, _ := json.Marshal(resp)
	return b
}

func newEmbeddingService(t *testing.T, baseURL string) *EmbeddingService {
	t.Helper()
	cfg := &config.OpenAIConfig{
		APIKey:         "test-key",
		EmbeddingModel: "text-embedding-3-small",
		BaseURL:        baseURL,
	}
	return NewEmbeddingService(cfg, zap.NewNop())
}

func TestEmbed(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write(embeddingJSON([]float32{0.1, 0.2, 0.3}))
	}))
	defer srv.Close()

	svc := newEmbeddingService(t, srv.URL)
	vec, err := svc.Embed(context.Background(), "how do I wash my hands")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "/embeddings", gotPath)
}

func TestEmbedRetriesOnce(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(embeddingJSON([]float32{1}))
	}))
	defer srv.Close()

	svc := newEmbeddingService(t, srv.URL)
	vec, err := svc.Embed(context.Background(), "q")
	require.NoError(t, err)

	assert.Equal(t, 2, requests)
	assert.Equal(t, []float32{1}, vec)
}

func TestEmbedFailsAfterRetries(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newEmbeddingService(t, srv.URL)
	_, err := svc.Embed(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, 2, requests)
}

func TestEmbedEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[],"model":"text-embedding-3-small"}`))
	}))
	defer srv.Close()

	svc := newEmbeddingService(t, srv.URL)
	_, err := svc.Embed(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no embedding data")
}
