package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/EglimarRamirez/Implementacion-rag/internal/models"
	"github.com/EglimarRamirez/Implementacion-rag/internal/repository"
	"github.com/EglimarRamirez/Implementacion-rag/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoText is returned when a PDF yields no extractable text.
var ErrNoText = errors.New("no extractable text in document")

// DocumentService orchestrates ingestion: extract, normalize, classify,
// register, chunk and index documents.
type DocumentService struct {
	docRepo    *repository.DocumentRepository
	index      ChunkIndex
	embedder   Embedder
	classifier *Classifier
	config     *config.RAGConfig
	logger     *zap.Logger
}

func NewDocumentService(
	docRepo *repository.DocumentRepository,
	index ChunkIndex,
	embedder Embedder,
	classifier *Classifier,
	cfg *config.RAGConfig,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		docRepo:    docRepo,
		index:      index,
		embedder:   embedder,
		classifier: classifier,
		config:     cfg,
		logger:     logger,
	}
}

// UploadDocument extracts the text of an uploaded PDF and registers the
// document. Embedding generation is a separate step.
func (s *DocumentService) UploadDocument(ctx context.Context, title string, file io.Reader) (*models.Document, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	text, err := ExtractPDFText(content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract PDF text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	normalized := NormalizeText(sanitizeUTF8(text))
	classification := s.classifier.Classify(title)

	now := time.Now()
	doc := &models.Document{
		ID:            uuid.New(),
		Title:         title,
		RawText:       normalized,
		DocumentType:  classification.DocumentType,
		ProcedureType: classification.ProcedureType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to register document: %w", err)
	}

	s.logger.Info("Document registered",
		zap.String("document_id", doc.ID.String()),
		zap.String("title", title),
		zap.String("document_type", string(doc.DocumentType)),
		zap.Int("text_length", len(normalized)),
	)

	return doc, nil
}

// ChunkDocument splits normalized text into passages using the
// category-dependent profile: long documents (normativa) get large chunks,
// everything else the short profile.
func (s *DocumentService) ChunkDocument(text, title string) []string {
	classification := s.classifier.Classify(title)

	profile := s.config.ShortProfile
	if classification.DocumentType == models.DocumentTypeNormativa {
		profile = s.config.LongProfile
	}

	chunks := NewChunker(profile.Size, profile.Overlap).Split(NormalizeText(text))

	s.logger.Info("Document chunked",
		zap.String("title", title),
		zap.String("document_type", string(classification.DocumentType)),
		zap.Int("chunk_size", profile.Size),
		zap.Int("chunks", len(chunks)),
	)

	return chunks
}

// ProcessDocument runs chunking and embedding generation for one document and
// finalizes its chunk ids. Re-processing overwrites existing chunks by id.
func (s *DocumentService) ProcessDocument(ctx context.Context, documentID uuid.UUID) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("document not found: %w", err)
	}

	chunks := s.ChunkDocument(doc.RawText, doc.Title)
	chunkIDs, err := s.EmbedAndIndex(ctx, doc, chunks)
	if err != nil {
		return nil, err
	}

	if err := s.docRepo.FinalizeProcessing(ctx, doc.ID, len(chunks), chunkIDs); err != nil {
		return nil, fmt.Errorf("failed to finalize document: %w", err)
	}

	doc.ChunkCount = len(chunks)
	doc.ChunkIDs = chunkIDs
	return doc, nil
}

// ProcessPending runs embedding generation for every document that has none
// yet. Returns the number of documents processed.
func (s *DocumentService) ProcessPending(ctx context.Context) (int, error) {
	pending, err := s.docRepo.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending documents: %w", err)
	}

	for i, doc := range pending {
		if _, err := s.ProcessDocument(ctx, doc.ID); err != nil {
			return i, fmt.Errorf("failed to process document %s: %w", doc.ID, err)
		}
	}

	return len(pending), nil
}

// EmbedAndIndex generates embeddings for the chunk sequence in batches and
// persists each batch into the vector index. Batches are capped below the
// embedding provider's request limit and commit independently: a failure
// aborts the call but earlier batches stay committed, so callers must treat
// a failed call as "document may be partially indexed". Chunk ids are
// "{document_id}_chunk_{index}" with the index global to the document, not
// batch-local.
func (s *DocumentService) EmbedAndIndex(ctx context.Context, doc *models.Document, chunks []string) ([]string, error) {
	batchSize := s.config.MaxBatchSize
	if batchSize <= 0 {
		batchSize = 90
	}

	docID := doc.ID.String()
	chunkIDs := make([]string, 0, len(chunks))

	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		embeddings, err := s.embedder.EmbedDocuments(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to embed batch starting at chunk %d: %w", start, err)
		}

		rows := make([]models.Chunk, len(batch))
		for i := range batch {
			index := start + i
			rows[i] = models.Chunk{
				ID:            fmt.Sprintf("%s_chunk_%d", docID, index),
				DocumentID:    docID,
				Title:         doc.Title,
				Text:          batch[i],
				Index:         index,
				DocumentType:  doc.DocumentType,
				ProcedureType: doc.ProcedureType,
			}
			chunkIDs = append(chunkIDs, rows[i].ID)
		}

		if err := s.index.Upsert(ctx, rows, embeddings); err != nil {
			return nil, fmt.Errorf("failed to index batch starting at chunk %d: %w", start, err)
		}

		s.logger.Info("Chunk batch indexed",
			zap.String("document_id", docID),
			zap.Int("from", start),
			zap.Int("to", end),
		)
	}

	s.logger.Info("Embeddings stored",
		zap.String("document_id", docID),
		zap.Int("chunks", len(chunks)),
	)

	return chunkIDs, nil
}

// ListDocuments returns registered documents, newest first.
func (s *DocumentService) ListDocuments(ctx context.Context, limit, offset int) ([]*models.Document, error) {
	return s.docRepo.List(ctx, limit, offset)
}

// CountDocuments returns the number of registered documents.
func (s *DocumentService) CountDocuments(ctx context.Context) (int, error) {
	return s.docRepo.Count(ctx)
}
