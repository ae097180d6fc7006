package service

import (
	"context"
	"encoding/json"
	"sync"

	"crewassist/internal/dto"
	"crewassist/internal/models"
	"crewassist/pkg/config"

	"go.uber.org/zap"
)

// Provenance labels returned to the caller.
const (
	SourceOfficialManuals = "Official Restaurant Manuals"
	SourceWebSearch       = "External Web Search"
)

// fallbackDisclaimer prefixes every answer produced from web results instead
// of the official manuals.
const fallbackDisclaimer = "I couldn't find an official answer in our restaurant manuals. Here is what I found from a web search:\n\n"

const officialSystemInstruction = `You are a support assistant for restaurant staff. Answer the question using ONLY the manual excerpt provided in the message. Be concise and practical. If the excerpt does not contain the answer, say so plainly instead of guessing.`

const fallbackSystemInstruction = `You are a support assistant for restaurant staff. The message contains a JSON array of web search results (title, snippet, url). Summarize ONLY the information in those results into a concise answer to the staff member's question. Do not introduce outside knowledge.`

// Embedder turns question text into a query vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ManualSearcher finds pre-embedded manual excerpts near a query vector.
type ManualSearcher interface {
	SearchSimilar(ctx context.Context, embedding []float32, topK int, minSimilarity float64) ([]*models.ManualChunk, error)
}

// WebSearcher is the external search capability used on the fallback path.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]WebResult, error)
}

// MediaResolver signs download URLs for manual media. An empty URL with a nil
// error means "unavailable, omit the attachment".
type MediaResolver interface {
	ResolveMedia(ctx context.Context, fileName, requesterID string) (string, error)
}

// ChatService runs the query-answering pipeline: embed the question, search
// the manuals, then either summarize the best excerpt or fall back to a live
// web search. No state is kept between requests.
type ChatService struct {
	embedder Embedder
	manuals  ManualSearcher
	llm      Synthesizer
	search   WebSearcher
	media    MediaResolver
	cfg      *config.RAGConfig
	logger   *zap.Logger
}

func NewChatService(
	embedder Embedder,
	manuals ManualSearcher,
	llm Synthesizer,
	search WebSearcher,
	media MediaResolver,
	cfg *config.RAGConfig,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		embedder: embedder,
		manuals:  manuals,
		llm:      llm,
		search:   search,
		media:    media,
		cfg:      cfg,
		logger:   logger,
	}
}

// Answer resolves one staff question. The caller must pass a non-empty query.
func (s *ChatService) Answer(ctx context.Context, query, userID string) (*dto.ChatResponse, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &ProviderError{Stage: "embedding", Err: err}
	}

	chunks, err := s.manuals.SearchSimilar(ctx, vector, s.cfg.TopK, s.cfg.MinSimilarity)
	if err != nil {
		// Retrieval is advisory: degrade to the web fallback instead of
		// failing the whole request.
		s.logger.Warn("Manual search failed, falling back to web search", zap.Error(err))
		chunks = nil
	}

	if len(chunks) == 0 {
		return s.answerFromWeb(ctx, query)
	}
	return s.answerFromManual(ctx, query, chunks[0], userID)
}

// answerFromManual summarizes the single best-matching excerpt. Lower-ranked
// candidates are retrieved but intentionally unused.
func (s *ChatService) answerFromManual(ctx context.Context, query string, chunk *models.ManualChunk, userID string) (*dto.ChatResponse, error) {
	userContent := "Manual excerpt:\n" + chunk.Content + "\n\nQuestion: " + query

	message, err := s.llm.Summarize(ctx, officialSystemInstruction, userContent)
	if err != nil {
		return nil, &ProviderError{Stage: "synthesis", Err: err}
	}

	s.logger.Info("Answered from official manuals",
		zap.String("chunk_id", chunk.ID.String()),
		zap.Float64("similarity", chunk.Similarity),
	)

	return &dto.ChatResponse{
		Message:     message,
		Attachments: s.resolveAttachments(ctx, chunk, userID),
		Source:      SourceOfficialManuals,
	}, nil
}

func (s *ChatService) answerFromWeb(ctx context.Context, query string) (*dto.ChatResponse, error) {
	results, err := s.search.Search(ctx, query)
	if err != nil {
		return nil, &ProviderError{Stage: "search", Err: err}
	}

	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return nil, &ProviderError{Stage: "search", Err: err}
	}

	userContent := "Search results:\n" + string(resultsJSON) + "\n\nQuestion: " + query

	summary, err := s.llm.Summarize(ctx, fallbackSystemInstruction, userContent)
	if err != nil {
		return nil, &ProviderError{Stage: "synthesis", Err: err}
	}

	s.logger.Info("Answered from web search", zap.Int("results", len(results)))

	return &dto.ChatResponse{
		Message:     fallbackDisclaimer + summary,
		Attachments: []dto.Attachment{},
		Source:      SourceWebSearch,
	}, nil
}

// resolveAttachments signs URLs for the excerpt's media. Image and video are
// independent, so they are resolved concurrently; any failure omits that
// attachment only.
func (s *ChatService) resolveAttachments(ctx context.Context, chunk *models.ManualChunk, userID string) []dto.Attachment {
	type mediaSlot struct {
		kind     string
		fileName string
	}

	var slots []mediaSlot
	if chunk.Metadata.Media.Image != "" {
		slots = append(slots, mediaSlot{kind: "image", fileName: chunk.Metadata.Media.Image})
	}
	if chunk.Metadata.Media.Video != "" {
		slots = append(slots, mediaSlot{kind: "video", fileName: chunk.Metadata.Media.Video})
	}

	urls := make([]string, len(slots))
	var wg sync.WaitGroup
	for i, slot := range slots {
		wg.Add(1)
		go func(i int, slot mediaSlot) {
			defer wg.Done()
			signed, err := s.media.ResolveMedia(ctx, slot.fileName, userID)
			if err != nil {
				s.logger.Warn("Media resolution failed, omitting attachment",
					zap.String("file", slot.fileName),
					zap.Error(err),
				)
				return
			}
			urls[i] = signed
		}(i, slot)
	}
	wg.Wait()

	attachments := make([]dto.Attachment, 0, len(slots))
	for i, slot := range slots {
		if urls[i] == "" {
			continue
		}
		attachments = append(attachments, dto.Attachment{
			Type:     slot.kind,
			URL:      urls[i],
			FileName: slot.fileName,
		})
	}
	return attachments
}
