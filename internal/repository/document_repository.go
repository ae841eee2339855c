package repository

import (
	"context"

	"github.com/EglimarRamirez/Implementacion-rag/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DocumentRepository is the document registry: raw text and processing state
// looked up and updated by id, with read-your-writes consistency through the
// database.
type DocumentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDocumentRepository(db *pgxpool.Pool, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

const documentColumns = "id, title, raw_text, document_type, procedure_type, chunk_count, chunk_ids, created_at, updated_at"

func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := squirrel.Insert("documents").
		Columns("id", "title", "raw_text", "document_type", "procedure_type", "chunk_count", "chunk_ids", "created_at", "updated_at").
		Values(doc.ID, doc.Title, doc.RawText, doc.DocumentType, doc.ProcedureType, doc.ChunkCount, doc.ChunkIDs, doc.CreatedAt, doc.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := squirrel.Select(documentColumns).
		From("documents").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var doc models.Document
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&doc.ID, &doc.Title, &doc.RawText, &doc.DocumentType, &doc.ProcedureType,
		&doc.ChunkCount, &doc.ChunkIDs, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// FinalizeProcessing records the chunk count and chunk ids produced by
// embedding generation. Both fields are written together so a document is
// never half-finalized.
func (r *DocumentRepository) FinalizeProcessing(ctx context.Context, id uuid.UUID, chunkCount int, chunkIDs []string) error {
	query := squirrel.Update("documents").
		Set("chunk_count", chunkCount).
		Set("chunk_ids", chunkIDs).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *DocumentRepository) List(ctx context.Context, limit, offset int) ([]*models.Document, error) {
	query := squirrel.Select(documentColumns).
		From("documents").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	return r.queryDocuments(ctx, query)
}

// ListPending returns documents that have not been through embedding
// generation yet.
func (r *DocumentRepository) ListPending(ctx context.Context) ([]*models.Document, error) {
	query := squirrel.Select(documentColumns).
		From("documents").
		Where("chunk_ids IS NULL").
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	return r.queryDocuments(ctx, query)
}

func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	sql, args, err := squirrel.Select("COUNT(*)").From("documents").ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *DocumentRepository) queryDocuments(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Document, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(
			&doc.ID, &doc.Title, &doc.RawText, &doc.DocumentType, &doc.ProcedureType,
			&doc.ChunkCount, &doc.ChunkIDs, &doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		documents = append(documents, &doc)
	}

	return documents, rows.Err()
}
