package handlers

import (
	"strings"

	"github.com/EglimarRamirez/Implementacion-rag/internal/dto"
	"github.com/EglimarRamirez/Implementacion-rag/internal/service"
	"github.com/EglimarRamirez/Implementacion-rag/pkg/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type QueryHandler struct {
	ragService *service.RAGService
	config     *config.RAGConfig
	logger     *zap.Logger
}

func NewQueryHandler(ragService *service.RAGService, cfg *config.RAGConfig, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		ragService: ragService,
		config:     cfg,
		logger:     logger,
	}
}

// Search godoc
// @Summary Search similar passages
// @Description Retrieve the most similar chunks for a free-text query
// @Tags query
// @Accept json
// @Produce json
// @Param request body dto.SearchRequest true "Search query"
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} map[string]string
// @Router /search [post]
func (h *QueryHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if strings.TrimSpace(req.Query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query is required",
		})
	}

	items, err := h.ragService.SearchSimilarChunks(c.Context(), req.Query, h.config.SearchTopK, nil)
	if err != nil {
		h.logger.Error("Search failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "El servicio externo no pudo procesar la solicitud en este momento.",
		})
	}

	results := make([]dto.SearchResultItem, len(items))
	for i, item := range items {
		results[i] = dto.SearchResultItem{
			DocumentID:      item.DocumentID,
			Title:           item.Title,
			ContentSnippet:  item.Snippet,
			SimilarityScore: item.SimilarityScore,
		}
	}

	h.logger.Info("Search completed", zap.Int("results", len(results)))
	return c.JSON(dto.SearchResponse{Results: results})
}

// Ask godoc
// @Summary Answer a citizen question
// @Description Full pipeline: retrieval, grounding evaluation and generation or refusal
// @Tags query
// @Accept json
// @Produce json
// @Param request body dto.AskRequest true "Question"
// @Success 200 {object} dto.AskResponse
// @Failure 400 {object} map[string]string
// @Router /query [post]
func (h *QueryHandler) Ask(c *fiber.Ctx) error {
	var req dto.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if strings.TrimSpace(req.Question) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question is required",
		})
	}

	answer, err := h.ragService.Answer(c.Context(), req.Question)
	if err != nil {
		h.logger.Error("Failed to generate answer", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "El servicio externo no pudo procesar la solicitud en este momento.",
		})
	}

	h.logger.Info("Answer returned",
		zap.Bool("grounded", answer.Grounded),
		zap.Float64("similarity", answer.SimilarityScore),
	)

	return c.JSON(dto.AskResponse{
		Question:        req.Question,
		Answer:          answer.Answer,
		ContextUsed:     answer.ContextUsed,
		SimilarityScore: answer.SimilarityScore,
		Grounded:        answer.Grounded,
		SourceDocument:  answer.SourceDocument,
		ChunkID:         answer.ChunkID,
	})
}
