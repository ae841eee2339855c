package service

import (
	"context"
	"strings"
	"testing"

	"github.com/EglimarRamirez/Implementacion-rag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRAGService(index ChunkIndex, embedder Embedder, chat ChatModel) *RAGService {
	return NewRAGService(index, embedder, chat, testRAGConfig(), zap.NewNop())
}

func match(id string, docType models.DocumentType, procType models.ProcedureType, distance float64) models.ChunkMatch {
	return models.ChunkMatch{
		Chunk: models.Chunk{
			ID:            id,
			DocumentID:    "doc-1",
			Title:         "Documento " + id,
			Text:          "Contenido del pasaje " + id + " sobre tasas municipales.",
			DocumentType:  docType,
			ProcedureType: procType,
		},
		Distance: distance,
	}
}

func TestSearchSimilarChunks(t *testing.T) {
	index := &fakeIndex{matches: []models.ChunkMatch{
		match("a", models.DocumentTypeNormativa, models.ProcedureTypeGeneral, 0.25),
		match("b", models.DocumentTypeNormativa, models.ProcedureTypeGeneral, 0.60),
	}}
	embedder := &fakeEmbedder{}
	svc := newTestRAGService(index, embedder, &fakeChat{})

	items, err := svc.SearchSimilarChunks(context.Background(), "cuando vence la tasa", 3, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Cosine distance converts to similarity as 1-d
	assert.InDelta(t, 0.75, items[0].SimilarityScore, 1e-9)
	assert.InDelta(t, 0.40, items[1].SimilarityScore, 1e-9)
	assert.Equal(t, "a", items[0].ChunkID)
	assert.Equal(t, []string{"cuando vence la tasa"}, embedder.queries)
}

func TestSearchSimilarChunksSnippetTruncated(t *testing.T) {
	long := strings.Repeat("texto largo ", 50)
	m := match("a", models.DocumentTypeNormativa, models.ProcedureTypeGeneral, 0.1)
	m.Text = long
	index := &fakeIndex{matches: []models.ChunkMatch{m}}
	svc := newTestRAGService(index, &fakeEmbedder{}, &fakeChat{})

	items, err := svc.SearchSimilarChunks(context.Background(), "consulta", 1, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Len(t, []rune(items[0].Snippet), 200)
	assert.Equal(t, long, items[0].FullText)
}

func TestSearchSimilarChunksEmptyIndex(t *testing.T) {
	svc := newTestRAGService(&fakeIndex{}, &fakeEmbedder{}, &fakeChat{})

	items, err := svc.SearchSimilarChunks(context.Background(), "consulta", 3, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestEvaluateGrounding(t *testing.T) {
	svc := newTestRAGService(&fakeIndex{}, &fakeEmbedder{}, &fakeChat{})

	item := func(score float64, docType models.DocumentType, procType models.ProcedureType) models.RetrievedItem {
		return models.RetrievedItem{
			SimilarityScore: score,
			DocumentType:    docType,
			ProcedureType:   procType,
		}
	}

	tests := []struct {
		name     string
		items    []models.RetrievedItem
		grounded bool
	}{
		{
			name: "strong consistent set is grounded",
			items: []models.RetrievedItem{
				item(0.9, models.DocumentTypeNormativa, models.ProcedureTypeGeneral),
				item(0.8, models.DocumentTypeNormativa, models.ProcedureTypeGeneral),
			},
			grounded: true,
		},
		{
			name: "best below threshold",
			items: []models.RetrievedItem{
				item(0.44, models.DocumentTypeNormativa, models.ProcedureTypeGeneral),
				item(0.40, models.DocumentTypeNormativa, models.ProcedureTypeGeneral),
			},
			grounded: false,
		},
		{
			name: "average below threshold despite strong best",
			items: []models.RetrievedItem{
				item(0.9, models.DocumentTypeNormativa, models.ProcedureTypeGeneral),
				item(-0.3, models.DocumentTypeNormativa, models.ProcedureTypeGeneral),
			},
			grounded: false,
		},
		{
			name: "incoherent set fails even with high scores",
			items: []models.RetrievedItem{
				item(0.9, models.DocumentTypeNormativa, models.ProcedureTypeGeneral),
				item(0.8, models.DocumentTypeProtocoloReclamo, models.ProcedureTypeReclamo),
			},
			grounded: false,
		},
		{
			name: "procedure consistency alone suffices",
			items: []models.RetrievedItem{
				item(0.9, models.DocumentTypeNormativa, models.ProcedureTypeGeneral),
				item(0.8, models.DocumentTypeProcedimiento, models.ProcedureTypeGeneral),
			},
			grounded: true,
		},
		{
			name: "single strong item is grounded",
			items: []models.RetrievedItem{
				item(0.9, models.DocumentTypeNormativa, models.ProcedureTypeGeneral),
			},
			grounded: true,
		},
		{
			name:     "empty set is never grounded",
			items:    nil,
			grounded: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := svc.EvaluateGrounding(tt.items)
			assert.Equal(t, tt.grounded, decision.Grounded)
		})
	}
}

func TestEvaluateGroundingScores(t *testing.T) {
	svc := newTestRAGService(&fakeIndex{}, &fakeEmbedder{}, &fakeChat{})

	decision := svc.EvaluateGrounding([]models.RetrievedItem{
		{SimilarityScore: 0.8, DocumentType: models.DocumentTypeNormativa},
		{SimilarityScore: 0.4, DocumentType: models.DocumentTypeNormativa},
	})

	assert.InDelta(t, 0.8, decision.BestScore, 1e-9)
	assert.InDelta(t, 0.6, decision.AverageScore, 1e-9)
	assert.True(t, decision.CategoryConsistent)
}

func TestAnswerEmptyIndexRefuses(t *testing.T) {
	chat := &fakeChat{reply: "no deberia llamarse"}
	svc := newTestRAGService(&fakeIndex{}, &fakeEmbedder{}, chat)

	answer, err := svc.Answer(context.Background(), "cuando vence la tasa")
	require.NoError(t, err)

	assert.Equal(t, RefusalAnswer, answer.Answer)
	assert.Zero(t, answer.SimilarityScore)
	assert.False(t, answer.Grounded)
	assert.Empty(t, chat.users, "generation must not run without evidence")
}

func TestAnswerWeakEvidenceRefuses(t *testing.T) {
	index := &fakeIndex{matches: []models.ChunkMatch{
		match("a", models.DocumentTypeNormativa, models.ProcedureTypeGeneral, 0.8),
		match("b", models.DocumentTypeNormativa, models.ProcedureTypeGeneral, 0.9),
	}}
	chat := &fakeChat{reply: "no deberia llamarse"}
	svc := newTestRAGService(index, &fakeEmbedder{}, chat)

	answer, err := svc.Answer(context.Background(), "cuando vence la tasa")
	require.NoError(t, err)

	assert.Equal(t, RefusalAnswer, answer.Answer)
	assert.False(t, answer.Grounded)
	assert.InDelta(t, 0.2, answer.SimilarityScore, 1e-9)
	assert.NotEmpty(t, answer.ContextUsed)
	assert.Empty(t, chat.users)
}

func TestAnswerGroundedGenerates(t *testing.T) {
	index := &fakeIndex{matches: []models.ChunkMatch{
		match("a", models.DocumentTypeNormativa, models.ProcedureTypeGeneral, 0.5),
		match("b", models.DocumentTypeNormativa, models.ProcedureTypeGeneral, 0.3),
	}}
	chat := &fakeChat{reply: "  La tasa vence el dia 10 de cada mes.  "}
	svc := newTestRAGService(index, &fakeEmbedder{}, chat)

	answer, err := svc.Answer(context.Background(), "cuando vence la tasa")
	require.NoError(t, err)

	assert.Equal(t, "La tasa vence el dia 10 de cada mes.", answer.Answer)
	assert.True(t, answer.Grounded)
	assert.InDelta(t, 0.7, answer.SimilarityScore, 1e-9)

	// Provenance comes from the best-scoring chunk
	assert.Equal(t, "b", answer.ChunkID)
	assert.Equal(t, "Documento b", answer.SourceDocument)

	// The prompt carries both retrieved passages and the question
	require.Len(t, chat.users, 1)
	assert.Contains(t, chat.users[0], "cuando vence la tasa")
	assert.Contains(t, chat.users[0], "Contenido del pasaje a")
	assert.Contains(t, chat.users[0], "Contenido del pasaje b")
	require.Len(t, chat.systems, 1)
	assert.Contains(t, chat.systems[0], RefusalAnswer)
}

func TestAnswerNoteIntentRestrictsRetrieval(t *testing.T) {
	index := &fakeIndex{matches: []models.ChunkMatch{
		match("norma", models.DocumentTypeNormativa, models.ProcedureTypeGeneral, 0.2),
		match("protocolo", models.DocumentTypeProtocoloReclamo, models.ProcedureTypeReclamo, 0.3),
	}}
	chat := &fakeChat{reply: "Debe presentar la nota en mesa de entradas."}
	svc := newTestRAGService(index, &fakeEmbedder{}, chat)

	answer, err := svc.Answer(context.Background(), "como hago la nota de reclamo")
	require.NoError(t, err)

	require.Len(t, index.filters, 1)
	require.NotNil(t, index.filters[0])
	require.NotNil(t, index.filters[0].DocumentType)
	assert.Equal(t, models.DocumentTypeProtocoloReclamo, *index.filters[0].DocumentType)

	// Only protocolo chunks reach the answer
	assert.True(t, answer.Grounded)
	assert.Equal(t, "protocolo", answer.ChunkID)
	assert.NotContains(t, chat.users[0], "Contenido del pasaje norma")
}

func TestAnswerPlainQuestionSearchesUnfiltered(t *testing.T) {
	index := &fakeIndex{matches: []models.ChunkMatch{
		match("a", models.DocumentTypeNormativa, models.ProcedureTypeGeneral, 0.3),
	}}
	svc := newTestRAGService(index, &fakeEmbedder{}, &fakeChat{reply: "Respuesta."})

	_, err := svc.Answer(context.Background(), "cuando vence la tasa")
	require.NoError(t, err)

	require.Len(t, index.filters, 1)
	assert.Nil(t, index.filters[0])
}
