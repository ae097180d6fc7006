package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"crewassist/internal/models"
	"crewassist/internal/repository"
	"crewassist/internal/service"
	"crewassist/pkg/config"
	"crewassist/pkg/logger"
	"crewassist/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// manualEntry is one excerpt in the seed file.
type manualEntry struct {
	Title   string             `json:"title"`
	Content string             `json:"content"`
	Media   models.ManualMedia `json:"media"`
}

func main() {
	seedFile := flag.String("file", "cmd/seed/manuals.json", "path to the manual excerpts JSON file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	manualRepo := repository.NewManualRepository(db, appLogger)
	embeddingService := service.NewEmbeddingService(&cfg.OpenAI, appLogger)

	appLogger.Info("Starting manual seeding", zap.String("file", *seedFile))

	entries, err := loadEntries(*seedFile)
	if err != nil {
		appLogger.Fatal("Failed to load seed file", zap.Error(err))
	}

	seeded := 0
	for _, entry := range entries {
		if err := seedEntry(ctx, manualRepo, embeddingService, entry); err != nil {
			appLogger.Error("Failed to seed excerpt",
				zap.String("title", entry.Title),
				zap.Error(err),
			)
			continue
		}
		seeded++
	}

	appLogger.Info("Manual seeding completed",
		zap.Int("seeded", seeded),
		zap.Int("total", len(entries)),
	)
}

func loadEntries(path string) ([]manualEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var entries []manualEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return entries, nil
}

func seedEntry(ctx context.Context, repo *repository.ManualRepository, embedder *service.EmbeddingService, entry manualEntry) error {
	embedding, err := embedder.Embed(ctx, entry.Title+"\n"+entry.Content)
	if err != nil {
		return fmt.Errorf("failed to embed excerpt: %w", err)
	}

	now := time.Now().UTC()
	chunk := &models.ManualChunk{
		ID:        uuid.New(),
		Title:     entry.Title,
		Content:   entry.Content,
		Embedding: embedding,
		Metadata:  models.ManualMetadata{Media: entry.Media},
		CreatedAt: now,
		UpdatedAt: now,
	}

	return repo.Create(ctx, chunk)
}
