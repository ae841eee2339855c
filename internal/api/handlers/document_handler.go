package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/EglimarRamirez/Implementacion-rag/internal/dto"
	"github.com/EglimarRamirez/Implementacion-rag/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	docService *service.DocumentService
	logger     *zap.Logger
}

func NewDocumentHandler(docService *service.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// Status godoc
// @Summary Service health check
// @Tags status
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Router /status [get]
func (h *DocumentHandler) Status(c *fiber.Ctx) error {
	count, err := h.docService.CountDocuments(c.Context())
	if err != nil {
		h.logger.Error("Failed to count documents", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "El servicio no pudo consultar el estado en este momento.",
		})
	}

	return c.JSON(dto.StatusResponse{
		Service:         "asistente_tributario_rag",
		Status:          "ok",
		DocumentsLoaded: count,
	})
}

// UploadFile godoc
// @Summary Upload a procedure document
// @Description Upload a PDF and register its extracted text for later embedding generation
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Document title"
// @Param file formData file true "PDF file"
// @Success 201 {object} dto.UploadFileResponse
// @Failure 400 {object} map[string]string
// @Router /upload-file [post]
func (h *DocumentHandler) UploadFile(c *fiber.Ctx) error {
	title := c.FormValue("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Solo se permiten archivos PDF",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	doc, err := h.docService.UploadDocument(c.Context(), title, src)
	if err != nil {
		if errors.Is(err, service.ErrNoText) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No se pudo extraer texto del PDF",
			})
		}
		h.logger.Error("Failed to upload document", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error procesando el PDF",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UploadFileResponse{
		Message:    "PDF cargado correctamente. Listo para generar embeddings.",
		DocumentID: doc.ID.String(),
		Title:      doc.Title,
		TextLength: len(doc.RawText),
	})
}

// GenerateEmbeddings godoc
// @Summary Generate embeddings
// @Description Chunk and index one document, or every pending document when no id is given
// @Tags documents
// @Accept json
// @Produce json
// @Param request body dto.GenerateEmbeddingsRequest true "Document selector"
// @Success 200 {object} dto.GenerateEmbeddingsResponse
// @Failure 404 {object} map[string]string
// @Router /generate-embeddings [post]
func (h *DocumentHandler) GenerateEmbeddings(c *fiber.Ctx) error {
	var req dto.GenerateEmbeddingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.DocumentID != "" {
		documentID, err := uuid.Parse(req.DocumentID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid document ID",
			})
		}

		doc, err := h.docService.ProcessDocument(c.Context(), documentID)
		if err != nil {
			h.logger.Error("Failed to generate embeddings",
				zap.String("document_id", req.DocumentID),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "El servicio externo no pudo procesar la solicitud en este momento.",
			})
		}

		return c.JSON(dto.GenerateEmbeddingsResponse{
			Message:    "Embeddings generated successfully for document " + doc.ID.String(),
			DocumentID: doc.ID.String(),
			ChunkCount: doc.ChunkCount,
		})
	}

	processed, err := h.docService.ProcessPending(c.Context())
	if err != nil {
		h.logger.Error("Failed to generate embeddings for pending documents", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "El servicio externo no pudo procesar la solicitud en este momento.",
		})
	}

	h.logger.Info("Pending documents processed", zap.Int("count", processed))
	return c.JSON(dto.GenerateEmbeddingsResponse{
		Message: "Embeddings generated successfully for all pending documents",
	})
}

// ListDocuments godoc
// @Summary List registered documents
// @Tags documents
// @Produce json
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.DocumentResponse
// @Router /documents [get]
func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	docs, err := h.docService.ListDocuments(c.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list documents", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list documents",
		})
	}

	responses := make([]dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		responses[i] = dto.DocumentResponse{
			ID:            doc.ID.String(),
			Title:         doc.Title,
			DocumentType:  string(doc.DocumentType),
			ProcedureType: string(doc.ProcedureType),
			TextLength:    len(doc.RawText),
			ChunkCount:    doc.ChunkCount,
			Processed:     doc.Processed(),
			CreatedAt:     doc.CreatedAt.Format(time.RFC3339),
		}
	}

	return c.JSON(responses)
}
