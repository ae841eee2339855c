package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/EglimarRamirez/Implementacion-rag/internal/models"
	"github.com/EglimarRamirez/Implementacion-rag/pkg/config"

	"go.uber.org/zap"
)

// RefusalAnswer is the fixed response when retrieved evidence is too weak to
// generate from. Insufficient evidence is a first-class outcome, not an error.
const RefusalAnswer = "No cuento con información suficiente para responder a esta consulta."

// RAGService answers citizen questions: intent-aware retrieval, grounding
// evaluation and constrained generation with provenance.
type RAGService struct {
	index    ChunkIndex
	embedder Embedder
	chat     ChatModel
	config   *config.RAGConfig
	logger   *zap.Logger
}

func NewRAGService(index ChunkIndex, embedder Embedder, chat ChatModel, cfg *config.RAGConfig, logger *zap.Logger) *RAGService {
	return &RAGService{
		index:    index,
		embedder: embedder,
		chat:     chat,
		config:   cfg,
		logger:   logger,
	}
}

// SearchSimilarChunks retrieves the topK passages nearest to the query, most
// similar first. The query is embedded in search-query mode; the index's
// cosine distance d in [0,2] becomes a similarity score 1-d in [-1,1]. An
// empty index or no matching chunks yields an empty slice.
func (s *RAGService) SearchSimilarChunks(ctx context.Context, query string, topK int, filter *models.ChunkFilter) ([]models.RetrievedItem, error) {
	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := s.index.Search(ctx, embedding, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	items := make([]models.RetrievedItem, 0, len(matches))
	for _, m := range matches {
		items = append(items, models.RetrievedItem{
			ChunkID:         m.ID,
			DocumentID:      m.DocumentID,
			Title:           m.Title,
			DocumentType:    m.DocumentType,
			ProcedureType:   m.ProcedureType,
			ChunkIndex:      m.Index,
			Snippet:         truncateRunes(m.Text, s.config.SnippetLength),
			SimilarityScore: 1 - m.Distance,
			FullText:        m.Text,
		})
	}

	s.logger.Info("Context retrieved",
		zap.String("query", query),
		zap.Int("results", len(items)),
	)

	return items, nil
}

// EvaluateGrounding decides whether a retrieved result set is strong enough
// evidence to answer from. A single strong hit is not sufficient if the set
// is topically incoherent: category or procedure consistency across the
// results is required alongside the score thresholds. An empty set is never
// grounded.
func (s *RAGService) EvaluateGrounding(items []models.RetrievedItem) models.GroundingDecision {
	if len(items) == 0 {
		return models.GroundingDecision{}
	}

	var best, sum float64
	for i, item := range items {
		if i == 0 || item.SimilarityScore > best {
			best = item.SimilarityScore
		}
		sum += item.SimilarityScore
	}
	avg := sum / float64(len(items))

	var categories, procedures []string
	for _, item := range items {
		if item.DocumentType != "" {
			categories = append(categories, string(item.DocumentType))
		}
		if item.ProcedureType != "" {
			procedures = append(procedures, string(item.ProcedureType))
		}
	}

	categoryConsistent := allEqual(categories)
	procedureConsistent := allEqual(procedures)

	decision := models.GroundingDecision{
		BestScore:           best,
		AverageScore:        avg,
		CategoryConsistent:  categoryConsistent,
		ProcedureConsistent: procedureConsistent,
		Grounded: best >= s.config.MinBestScore &&
			avg >= s.config.MinAvgScore &&
			(categoryConsistent || procedureConsistent),
	}

	s.logger.Info("Grounding evaluated",
		zap.Float64("best", decision.BestScore),
		zap.Float64("avg", decision.AverageScore),
		zap.Bool("category_consistent", decision.CategoryConsistent),
		zap.Bool("procedure_consistent", decision.ProcedureConsistent),
		zap.Bool("grounded", decision.Grounded),
	)

	return decision
}

// Answer runs the full question pipeline: note-intent detection, restricted
// or normal retrieval, grounding evaluation and either the fixed refusal or
// constrained generation with provenance from the best-scoring chunk.
func (s *RAGService) Answer(ctx context.Context, question string) (*models.Answer, error) {
	var filter *models.ChunkFilter
	if s.requiresNote(question) {
		docType := models.DocumentTypeProtocoloReclamo
		filter = &models.ChunkFilter{DocumentType: &docType}
		s.logger.Info("Note intent detected, restricting retrieval",
			zap.String("document_type", string(docType)),
		)
	}

	items, err := s.SearchSimilarChunks(ctx, question, s.config.TopK, filter)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		s.logger.Warn("No results retrieved, refusing to answer")
		return &models.Answer{
			Answer:          RefusalAnswer,
			SimilarityScore: 0,
			Grounded:        false,
		}, nil
	}

	fullTexts := make([]string, len(items))
	for i, item := range items {
		fullTexts[i] = item.FullText
	}
	contextText := strings.Join(fullTexts, "\n\n")

	decision := s.EvaluateGrounding(items)
	if !decision.Grounded {
		s.logger.Warn("Insufficient grounding, refusing to answer",
			zap.Float64("best", decision.BestScore),
		)
		return &models.Answer{
			Answer:          RefusalAnswer,
			ContextUsed:     truncateRunes(contextText, s.config.ContextPreview),
			SimilarityScore: decision.BestScore,
			Grounded:        false,
		}, nil
	}

	system := buildSystemInstruction(s.config.Keywords.ForbiddenTerms)
	user := fmt.Sprintf("Contexto de los documentos:\n\"\"\"%s\"\"\"\n\nPregunta:\n%s", contextText, question)

	answerText, err := s.chat.Chat(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	best := items[0]
	for _, item := range items[1:] {
		if item.SimilarityScore > best.SimilarityScore {
			best = item
		}
	}

	s.logger.Info("Answer generated",
		zap.Float64("similarity", decision.BestScore),
		zap.String("source_chunk", best.ChunkID),
	)

	return &models.Answer{
		Answer:          strings.TrimSpace(answerText),
		ContextUsed:     truncateRunes(contextText, s.config.ContextPreview),
		SimilarityScore: decision.BestScore,
		Grounded:        true,
		SourceDocument:  best.Title,
		ChunkID:         best.ChunkID,
	}, nil
}

// requiresNote reports whether the question asks about writing or presenting
// a note or letter. Those questions are hard-routed to the complaint-protocol
// document category regardless of general semantic similarity.
func (s *RAGService) requiresNote(question string) bool {
	q := strings.ToLower(question)
	for _, kw := range s.config.Keywords.NoteIntent {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func allEqual(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
