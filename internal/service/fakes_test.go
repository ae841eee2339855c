package service

import (
	"context"
	"errors"

	"github.com/EglimarRamirez/Implementacion-rag/internal/models"
	"github.com/EglimarRamirez/Implementacion-rag/pkg/config"
)

func testKeywords() config.KeywordSets {
	return config.KeywordSets{
		NoteIntent:       []string{"nota", "carta"},
		Normativa:        []string{"codigo", "tributario"},
		Procedimiento:    []string{"guia"},
		ProtocoloReclamo: []string{"art", "25"},
		Autoridad:        []string{"autoridad"},
		Regularizacion:   []string{"plan"},
		ForbiddenTerms:   []string{"artículo", "ordenanza", "ley"},
	}
}

func testRAGConfig() *config.RAGConfig {
	return &config.RAGConfig{
		TopK:           5,
		SearchTopK:     3,
		MaxBatchSize:   90,
		MinBestScore:   0.45,
		MinAvgScore:    0.35,
		SnippetLength:  200,
		ContextPreview: 400,
		LongProfile:    config.ChunkProfile{Size: 3000, Overlap: 350},
		ShortProfile:   config.ChunkProfile{Size: 500, Overlap: 80},
		Keywords:       testKeywords(),
	}
}

type fakeEmbedder struct {
	batches     [][]string
	queries     []string
	failAtBatch int // 1-based, 0 disables
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	f.batches = append(f.batches, texts)
	if f.failAtBatch > 0 && len(f.batches) == f.failAtBatch {
		return nil, errors.New("embedding provider unavailable")
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i])), 1}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.queries = append(f.queries, text)
	return []float32{1, 0}, nil
}

type upsertCall struct {
	chunks     []models.Chunk
	embeddings [][]float32
}

type fakeIndex struct {
	upserts   []upsertCall
	matches   []models.ChunkMatch
	filters   []*models.ChunkFilter
	upsertErr error
}

func (f *fakeIndex) Upsert(_ context.Context, chunks []models.Chunk, embeddings [][]float32) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, upsertCall{chunks: chunks, embeddings: embeddings})
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ []float32, topK int, filter *models.ChunkFilter) ([]models.ChunkMatch, error) {
	f.filters = append(f.filters, filter)

	matches := f.matches
	if filter != nil && filter.DocumentType != nil {
		var filtered []models.ChunkMatch
		for _, m := range matches {
			if m.DocumentType == *filter.DocumentType {
				filtered = append(filtered, m)
			}
		}
		matches = filtered
	}
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

type fakeChat struct {
	reply   string
	systems []string
	users   []string
	err     error
}

func (f *fakeChat) Chat(_ context.Context, system, user string) (string, error) {
	f.systems = append(f.systems, system)
	f.users = append(f.users, user)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
