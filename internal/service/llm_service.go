package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/EglimarRamirez/Implementacion-rag/pkg/config"

	"go.uber.org/zap"
)

// maxTextsPerEmbed is the provider's hard limit on texts per embed request.
// The ingestion batcher stays below it; this guard catches misuse.
const maxTextsPerEmbed = 96

// LLMService is a client for the Cohere v2 REST API. It covers the two calls
// the pipeline needs: batch embedding with an explicit input type and
// deterministic chat generation.
type LLMService struct {
	config     *config.CohereConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewLLMService(cfg *config.CohereConfig, logger *zap.Logger) *LLMService {
	return &LLMService{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// EmbedDocuments embeds chunk texts for indexing ("search_document" mode).
func (s *LLMService) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return s.embed(ctx, texts, "search_document")
}

// EmbedQuery embeds a user question for retrieval ("search_query" mode).
// The mode matters: document and query vectors are comparable under cosine
// distance but are not interchangeable.
func (s *LLMService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.embed(ctx, []string{text}, "search_query")
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(vectors))
	}
	return vectors[0], nil
}

func (s *LLMService) embed(ctx context.Context, texts []string, inputType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if len(texts) > maxTextsPerEmbed {
		return nil, fmt.Errorf("embed request of %d texts exceeds the provider limit of %d", len(texts), maxTextsPerEmbed)
	}

	reqBody := struct {
		Model          string   `json:"model"`
		Texts          []string `json:"texts"`
		InputType      string   `json:"input_type"`
		EmbeddingTypes []string `json:"embedding_types"`
	}{
		Model:          s.config.EmbedModel,
		Texts:          texts,
		InputType:      inputType,
		EmbeddingTypes: []string{"float"},
	}

	var embedResp struct {
		Embeddings struct {
			Float [][]float32 `json:"float"`
		} `json:"embeddings"`
	}

	if err := s.postJSON(ctx, "/v2/embed", reqBody, &embedResp); err != nil {
		return nil, fmt.Errorf("embed request failed: %w", err)
	}

	if len(embedResp.Embeddings.Float) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(embedResp.Embeddings.Float))
	}

	s.logger.Debug("Embeddings generated",
		zap.Int("texts", len(texts)),
		zap.String("input_type", inputType),
	)

	return embedResp.Embeddings.Float, nil
}

// Chat sends a system instruction plus a user message and returns the first
// text segment of the response. Temperature 0 for deterministic decoding and
// a bounded output budget.
func (s *LLMService) Chat(ctx context.Context, system, user string) (string, error) {
	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	reqBody := struct {
		Model       string    `json:"model"`
		Messages    []message `json:"messages"`
		Temperature float64   `json:"temperature"`
		MaxTokens   int       `json:"max_tokens"`
	}{
		Model: s.config.ChatModel,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0,
		MaxTokens:   s.config.MaxTokens,
	}

	var chatResp struct {
		Message struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"message"`
	}

	if err := s.postJSON(ctx, "/v2/chat", reqBody, &chatResp); err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}

	if len(chatResp.Message.Content) == 0 {
		return "", fmt.Errorf("no content in chat response")
	}

	return strings.TrimSpace(chatResp.Message.Content[0].Text), nil
}

func (s *LLMService) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		s.logger.Error("Cohere API error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(bodyBytes)),
		)
		return fmt.Errorf("cohere %s returned status %d: %s", path, resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
