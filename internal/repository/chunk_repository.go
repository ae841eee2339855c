package repository

import (
	"context"
	"errors"

	"github.com/EglimarRamirez/Implementacion-rag/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

// ChunkRepository is the vector index: chunk text, metadata and embedding per
// row, queried by cosine distance.
type ChunkRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewChunkRepository(db *pgxpool.Pool, logger *zap.Logger) *ChunkRepository {
	return &ChunkRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts one batch of chunks with their embeddings. Re-inserting an
// existing chunk id overwrites the stored row, which makes re-running
// ingestion for a document safe.
func (r *ChunkRepository) Upsert(ctx context.Context, chunks []models.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return errors.New("chunks and embeddings length mismatch")
	}
	if len(chunks) == 0 {
		return nil
	}

	query := squirrel.Insert("chunks").
		Columns("id", "document_id", "title", "text", "chunk_index", "document_type", "procedure_type", "embedding").
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			document_id = EXCLUDED.document_id,
			title = EXCLUDED.title,
			text = EXCLUDED.text,
			chunk_index = EXCLUDED.chunk_index,
			document_type = EXCLUDED.document_type,
			procedure_type = EXCLUDED.procedure_type,
			embedding = EXCLUDED.embedding`).
		PlaceholderFormat(squirrel.Dollar)

	for i, chunk := range chunks {
		query = query.Values(
			chunk.ID, chunk.DocumentID, chunk.Title, chunk.Text, chunk.Index,
			chunk.DocumentType, chunk.ProcedureType, pgvector.NewVector(embeddings[i]),
		)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return err
	}

	r.logger.Debug("Chunk batch stored", zap.Int("chunks", len(chunks)))
	return nil
}

// Search returns up to topK chunks nearest to the embedding under cosine
// distance, closest first. A nil filter searches the whole index; an empty
// index yields an empty slice, not an error.
func (r *ChunkRepository) Search(ctx context.Context, embedding []float32, topK int, filter *models.ChunkFilter) ([]models.ChunkMatch, error) {
	if topK <= 0 {
		topK = 5
	}

	query := squirrel.Select("id", "document_id", "title", "text", "chunk_index", "document_type", "procedure_type").
		Column(squirrel.Alias(squirrel.Expr("embedding <=> ?", pgvector.NewVector(embedding)), "distance")).
		From("chunks").
		OrderBy("distance ASC").
		Limit(uint64(topK)).
		PlaceholderFormat(squirrel.Dollar)

	if filter != nil && filter.DocumentType != nil {
		query = query.Where(squirrel.Eq{"document_type": *filter.DocumentType})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []models.ChunkMatch
	for rows.Next() {
		var m models.ChunkMatch
		if err := rows.Scan(
			&m.ID, &m.DocumentID, &m.Title, &m.Text, &m.Index,
			&m.DocumentType, &m.ProcedureType, &m.Distance,
		); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}
