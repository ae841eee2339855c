package dto

type SearchRequest struct {
	Query string `json:"query" validate:"required,min=1"`
}

type SearchResultItem struct {
	DocumentID      string  `json:"document_id"`
	Title           string  `json:"title"`
	ContentSnippet  string  `json:"content_snippet"`
	SimilarityScore float64 `json:"similarity_score"`
}

type SearchResponse struct {
	Results []SearchResultItem `json:"results"`
}

type AskRequest struct {
	Question string `json:"question" validate:"required,min=1"`
}

type AskResponse struct {
	Question        string  `json:"question"`
	Answer          string  `json:"answer"`
	ContextUsed     string  `json:"context_used"`
	SimilarityScore float64 `json:"similarity_score"`
	Grounded        bool    `json:"grounded"`
	SourceDocument  string  `json:"source_document,omitempty"`
	ChunkID         string  `json:"chunk_id,omitempty"`
}
