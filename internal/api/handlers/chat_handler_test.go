package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crewassist/internal/api"
	"crewassist/internal/api/handlers"
	"crewassist/internal/dto"
	"crewassist/internal/models"
	"crewassist/internal/service"
	"crewassist/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.5, 0.5}, nil
}

type fakeManuals struct {
	chunks []*models.ManualChunk
	calls  int
}

func (f *fakeManuals) SearchSimilar(ctx context.Context, embedding []float32, topK int, minSimilarity float64) ([]*models.ManualChunk, error) {
	f.calls++
	return f.chunks, nil
}

type fakeSynthesizer struct {
	reply string
	calls int
}

func (f *fakeSynthesizer) Summarize(ctx context.Context, systemInstruction, userContent string) (string, error) {
	f.calls++
	return f.reply, nil
}

func (f *fakeSynthesizer) Close() error { return nil }

type fakeSearcher struct {
	results []service.WebResult
	calls   int
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]service.WebResult, error) {
	f.calls++
	return f.results, nil
}

type fakeMedia struct{}

func (f *fakeMedia) ResolveMedia(ctx context.Context, fileName, requesterID string) (string, error) {
	return "", nil
}

type testEnv struct {
	app      *fiber.App
	embedder *fakeEmbedder
	manuals  *fakeManuals
	llm      *fakeSynthesizer
	search   *fakeSearcher
}

func newTestApp(chunks []*models.ManualChunk) *testEnv {
	env := &testEnv{
		embedder: &fakeEmbedder{},
		manuals:  &fakeManuals{chunks: chunks},
		llm:      &fakeSynthesizer{reply: "synthesized answer"},
		search:   &fakeSearcher{results: []service.WebResult{{Title: "t", Snippet: "s", URL: "u"}}},
	}
	cfg := &config.RAGConfig{TopK: 3, MinSimilarity: 0.8}
	chatService := service.NewChatService(env.embedder, env.manuals, env.llm, env.search, &fakeMedia{}, cfg, zap.NewNop())
	env.app = api.SetupRouter(handlers.NewChatHandler(chatService, zap.NewNop()), zap.NewNop())
	return env
}

func postChat(t *testing.T, app *fiber.App, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestChatEmptyQuery(t *testing.T) {
	env := newTestApp(nil)

	for _, body := range []string{`{}`, `{"query":""}`, `{"query":"   "}`} {
		resp, raw := postChat(t, env.app, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", body)
		assert.JSONEq(t, `{"message":"Query is required."}`, string(raw))
	}

	// Validation rejects before any provider is touched.
	assert.Zero(t, env.embedder.calls)
	assert.Zero(t, env.manuals.calls)
	assert.Zero(t, env.llm.calls)
	assert.Zero(t, env.search.calls)
}

func TestChatInvalidJSON(t *testing.T) {
	env := newTestApp(nil)

	resp, raw := postChat(t, env.app, `{"query": "unterminated`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Invalid JSON body"}`, string(raw))
	assert.Zero(t, env.embedder.calls)
}

func TestChatOfficialAnswer(t *testing.T) {
	chunk := &models.ManualChunk{Content: "Chicken: 165°F internal.", Similarity: 0.91}
	env := newTestApp([]*models.ManualChunk{chunk})
	env.llm.reply = "Chicken must reach 165°F internal."

	resp, raw := postChat(t, env.app, `{"query":"What temperature should chicken be cooked to?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.ChatResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Official Restaurant Manuals", body.Source)
	assert.Equal(t, "Chicken must reach 165°F internal.", body.Message)
	assert.Empty(t, body.Attachments)
	assert.Contains(t, string(raw), `"attachments":[]`)
	assert.Zero(t, env.search.calls)
}

func TestChatFallbackAnswer(t *testing.T) {
	env := newTestApp(nil)
	env.llm.reply = "summary of web results"

	resp, raw := postChat(t, env.app, `{"query":"What temperature should chicken be cooked to?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.ChatResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "External Web Search", body.Source)
	assert.Contains(t, body.Message, "couldn't find an official answer")
	assert.Contains(t, body.Message, "summary of web results")
	assert.Empty(t, body.Attachments)
	assert.Contains(t, string(raw), `"attachments":[]`)
	assert.Equal(t, 1, env.search.calls)
}

func TestChatPipelineFailure(t *testing.T) {
	env := newTestApp(nil)
	env.embedder.err = errors.New("provider down")

	resp, raw := postChat(t, env.app, `{"query":"anything"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(raw), "An unexpected server error occurred:")
}

func TestChatIdempotentSourceSelection(t *testing.T) {
	chunk := &models.ManualChunk{Content: "content", Similarity: 0.9}
	env := newTestApp([]*models.ManualChunk{chunk})

	_, first := postChat(t, env.app, `{"query":"same question"}`)
	_, second := postChat(t, env.app, `{"query":"same question"}`)
	assert.JSONEq(t, string(first), string(second))
}
