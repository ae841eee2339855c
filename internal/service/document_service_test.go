package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/EglimarRamirez/Implementacion-rag/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDocumentService(index ChunkIndex, embedder Embedder) *DocumentService {
	return NewDocumentService(nil, index, embedder, NewClassifier(testKeywords()), testRAGConfig(), zap.NewNop())
}

func testDocument(title string, docType models.DocumentType) *models.Document {
	return &models.Document{
		ID:           uuid.New(),
		Title:        title,
		DocumentType: docType,
	}
}

func makeChunks(n int) []string {
	chunks := make([]string, n)
	for i := range chunks {
		chunks[i] = fmt.Sprintf("pasaje numero %d", i)
	}
	return chunks
}

func TestEmbedAndIndexBatching(t *testing.T) {
	index := &fakeIndex{}
	embedder := &fakeEmbedder{}
	svc := newTestDocumentService(index, embedder)

	doc := testDocument("Guia de pagos", models.DocumentTypeProcedimiento)
	chunks := makeChunks(200)

	chunkIDs, err := svc.EmbedAndIndex(context.Background(), doc, chunks)
	require.NoError(t, err)

	// 200 chunks split into batches of at most 90
	require.Len(t, embedder.batches, 3)
	assert.Len(t, embedder.batches[0], 90)
	assert.Len(t, embedder.batches[1], 90)
	assert.Len(t, embedder.batches[2], 20)

	require.Len(t, index.upserts, 3)

	// Ids are gapless, unique and numbered over the whole document
	require.Len(t, chunkIDs, 200)
	seen := make(map[string]bool, len(chunkIDs))
	for i, id := range chunkIDs {
		assert.Equal(t, fmt.Sprintf("%s_chunk_%d", doc.ID, i), id)
		assert.False(t, seen[id])
		seen[id] = true
	}

	// Stored rows carry the global index and document metadata
	last := index.upserts[2].chunks
	assert.Equal(t, 180, last[0].Index)
	assert.Equal(t, doc.ID.String(), last[0].DocumentID)
	assert.Equal(t, models.DocumentTypeProcedimiento, last[0].DocumentType)
}

func TestEmbedAndIndexSingleBatch(t *testing.T) {
	index := &fakeIndex{}
	embedder := &fakeEmbedder{}
	svc := newTestDocumentService(index, embedder)

	doc := testDocument("Guia de pagos", models.DocumentTypeProcedimiento)
	chunkIDs, err := svc.EmbedAndIndex(context.Background(), doc, makeChunks(90))
	require.NoError(t, err)

	assert.Len(t, embedder.batches, 1)
	assert.Len(t, chunkIDs, 90)
}

func TestEmbedAndIndexFailureKeepsEarlierBatches(t *testing.T) {
	index := &fakeIndex{}
	embedder := &fakeEmbedder{failAtBatch: 2}
	svc := newTestDocumentService(index, embedder)

	doc := testDocument("Guia de pagos", models.DocumentTypeProcedimiento)
	_, err := svc.EmbedAndIndex(context.Background(), doc, makeChunks(200))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk 90")
	// The first batch was already committed before the failure
	require.Len(t, index.upserts, 1)
	assert.Len(t, index.upserts[0].chunks, 90)
}

func TestChunkDocumentProfileByCategory(t *testing.T) {
	svc := newTestDocumentService(&fakeIndex{}, &fakeEmbedder{})

	words := make([]string, 250)
	for i := range words {
		words[i] = fmt.Sprintf("termino%03d", i)
	}
	text := strings.Join(words, " ") // ~2750 chars

	// Under the long profile the text fits one chunk; the short profile has
	// to split it.
	normativa := svc.ChunkDocument(text, "Codigo Tributario Municipal")
	assert.Len(t, normativa, 1)

	other := svc.ChunkDocument(text, "Guia de pagos")
	assert.Greater(t, len(other), 1)
	for _, chunk := range other {
		assert.LessOrEqual(t, len(chunk), 500)
	}
}
