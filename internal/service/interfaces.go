package service

import (
	"context"

	"github.com/EglimarRamirez/Implementacion-rag/internal/models"
)

// Embedder converts text into vector representations. Document ingestion and
// query embedding use distinct modes: the provider may return different
// vectors for the same text depending on the side of the comparison, so the
// two must never be unified.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ChatModel generates an answer from a system instruction and a user message.
type ChatModel interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

// ChunkIndex persists chunk embeddings and supports cosine nearest-neighbor
// search with an optional metadata filter.
type ChunkIndex interface {
	Upsert(ctx context.Context, chunks []models.Chunk, embeddings [][]float32) error
	Search(ctx context.Context, embedding []float32, topK int, filter *models.ChunkFilter) ([]models.ChunkMatch, error)
}
