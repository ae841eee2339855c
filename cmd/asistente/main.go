package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/EglimarRamirez/Implementacion-rag/internal/api"
	"github.com/EglimarRamirez/Implementacion-rag/internal/api/handlers"
	"github.com/EglimarRamirez/Implementacion-rag/internal/repository"
	"github.com/EglimarRamirez/Implementacion-rag/internal/service"
	"github.com/EglimarRamirez/Implementacion-rag/pkg/config"
	"github.com/EglimarRamirez/Implementacion-rag/pkg/logger"
	"github.com/EglimarRamirez/Implementacion-rag/pkg/postgres"

	"go.uber.org/zap"
)

// @title Asistente Tributario Municipal API
// @version 1.0
// @description Servicio RAG de orientación tributaria municipal

// @host localhost:8000
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
	appLogger.Info("Starting asistente tributario service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	docRepo := repository.NewDocumentRepository(db, appLogger)
	chunkRepo := repository.NewChunkRepository(db, appLogger)

	// Initialize services
	llmService := service.NewLLMService(&cfg.Cohere, appLogger)
	classifier := service.NewClassifier(cfg.RAG.Keywords)

	docService := service.NewDocumentService(docRepo, chunkRepo, llmService, classifier, &cfg.RAG, appLogger)
	ragService := service.NewRAGService(chunkRepo, llmService, llmService, &cfg.RAG, appLogger)

	// Initialize handlers
	docHandler := handlers.NewDocumentHandler(docService, appLogger)
	queryHandler := handlers.NewQueryHandler(ragService, &cfg.RAG, appLogger)

	// Setup router
	app := api.SetupRouter(docHandler, queryHandler)

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
