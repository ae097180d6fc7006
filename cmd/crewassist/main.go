package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"crewassist/internal/api"
	"crewassist/internal/api/handlers"
	"crewassist/internal/repository"
	"crewassist/internal/service"
	"crewassist/pkg/config"
	"crewassist/pkg/logger"
	"crewassist/pkg/postgres"

	"go.uber.org/zap"
)

// @title Crewassist API
// @version 1.0
// @description AI query-answering backend for the restaurant staff portal

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting crewassist service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repository and provider clients (one per process, shared
	// across requests)
	manualRepo := repository.NewManualRepository(db, appLogger)
	embeddingService := service.NewEmbeddingService(&cfg.OpenAI, appLogger)

	synthesizer, err := service.NewSynthesizer(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer synthesizer.Close()

	searchService, err := service.NewSearchService(ctx, &cfg.Search, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize search service", zap.Error(err))
	}

	// A failed media init disables attachments but never the service.
	mediaService := service.NewMediaService(&cfg.Storage, appLogger)

	chatService := service.NewChatService(
		embeddingService, manualRepo, synthesizer, searchService, mediaService,
		&cfg.RAG, appLogger,
	)

	// Initialize handlers and router
	chatHandler := handlers.NewChatHandler(chatService, appLogger)
	app := api.SetupRouter(chatHandler, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
