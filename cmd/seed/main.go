package main

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/EglimarRamirez/Implementacion-rag/internal/repository"
	"github.com/EglimarRamirez/Implementacion-rag/internal/service"
	"github.com/EglimarRamirez/Implementacion-rag/pkg/config"
	"github.com/EglimarRamirez/Implementacion-rag/pkg/logger"
	"github.com/EglimarRamirez/Implementacion-rag/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	dir := flag.String("dir", filepath.Join("cmd", "seed", "corpus"), "directory with PDF documents to ingest")
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

	docRepo := repository.NewDocumentRepository(db, appLogger)
	chunkRepo := repository.NewChunkRepository(db, appLogger)

	llmService := service.NewLLMService(&cfg.Cohere, appLogger)
	classifier := service.NewClassifier(cfg.RAG.Keywords)
	docService := service.NewDocumentService(docRepo, chunkRepo, llmService, classifier, &cfg.RAG, appLogger)

	appLogger.Info("Starting corpus seeding", zap.String("dir", *dir))

	cacheFile := filepath.Join(*dir, ".seed_cache.json")
	if err := seedCorpus(ctx, *dir, cacheFile, docService, appLogger); err != nil {
		appLogger.Fatal("Failed to seed corpus", zap.Error(err))
	}

	appLogger.Info("Corpus seeding completed")
}

// ProcessedFile represents a processed PDF file in cache
type ProcessedFile struct {
	FilePath    string    `json:"file_path"`
	FileHash    string    `json:"file_hash"`
	ProcessedAt time.Time `json:"processed_at"`
}

// CacheData stores information about processed files
type CacheData struct {
	ProcessedFiles map[string]ProcessedFile `json:"processed_files"` // key: file path
}

func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{
		ProcessedFiles: make(map[string]ProcessedFile),
	}

	if _, err := os.Stat(cacheFile); os.IsNotExist(err) {
		return cache, nil
	}

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}

	return cache, nil
}

func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// seedCorpus walks the corpus directory and runs the full ingestion pipeline
// for every PDF that is new or changed since the last run.
func seedCorpus(
	ctx context.Context,
	dir string,
	cacheFile string,
	docService *service.DocumentService,
	logger *zap.Logger,
) error {
	cache, err := loadCache(cacheFile)
	if err != nil {
		logger.Warn("Failed to load cache, will process all files", zap.Error(err))
		cache = &CacheData{ProcessedFiles: make(map[string]ProcessedFile)}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read corpus directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			continue
		}
		pdfPath := filepath.Join(dir, entry.Name())

		fileHash, err := calculateFileHash(pdfPath)
		if err != nil {
			logger.Warn("Failed to calculate file hash, will process anyway",
				zap.String("path", pdfPath), zap.Error(err))
		}

		if cached, exists := cache.ProcessedFiles[pdfPath]; exists && cached.FileHash == fileHash {
			logger.Info("PDF already processed, skipping",
				zap.String("path", pdfPath),
				zap.Time("processed_at", cached.ProcessedAt),
			)
			continue
		}

		logger.Info("Processing PDF file", zap.String("path", pdfPath))

		file, err := os.Open(pdfPath)
		if err != nil {
			logger.Error("Failed to open PDF", zap.String("path", pdfPath), zap.Error(err))
			continue
		}

		title := generateTitleFromFilename(entry.Name())
		doc, err := docService.UploadDocument(ctx, title, file)
		file.Close()
		if err != nil {
			logger.Error("Failed to register PDF", zap.String("path", pdfPath), zap.Error(err))
			continue
		}

		if _, err := docService.ProcessDocument(ctx, doc.ID); err != nil {
			logger.Error("Failed to generate embeddings",
				zap.String("path", pdfPath),
				zap.String("document_id", doc.ID.String()),
				zap.Error(err),
			)
			continue
		}

		logger.Info("Document ingested",
			zap.String("title", title),
			zap.String("document_id", doc.ID.String()),
			zap.String("document_type", string(doc.DocumentType)),
			zap.Int("chunks", doc.ChunkCount),
		)

		cache.ProcessedFiles[pdfPath] = ProcessedFile{
			FilePath:    pdfPath,
			FileHash:    fileHash,
			ProcessedAt: time.Now(),
		}
	}

	if err := saveCache(cacheFile, cache); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	} else {
		logger.Info("Cache saved", zap.Int("processed_files", len(cache.ProcessedFiles)))
	}

	return nil
}

// generateTitleFromFilename turns "ordenanza_tributaria_2024.pdf" into
// "Ordenanza Tributaria 2024". Titles drive classification, so corpus files
// should be named after their content.
func generateTitleFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")

	words := strings.Fields(name)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(string(word[0])) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
