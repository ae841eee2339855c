package dto

type StatusResponse struct {
	Service         string `json:"service"`
	Status          string `json:"status"`
	DocumentsLoaded int    `json:"documents_loaded"`
}

type UploadFileResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	TextLength int    `json:"text_length"`
}

type GenerateEmbeddingsRequest struct {
	// DocumentID selects one document; empty processes every pending document.
	DocumentID string `json:"document_id,omitempty"`
}

type GenerateEmbeddingsResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id,omitempty"`
	ChunkCount int    `json:"chunk_count,omitempty"`
}

type DocumentResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	DocumentType  string `json:"document_type"`
	ProcedureType string `json:"procedure_type"`
	TextLength    int    `json:"text_length"`
	ChunkCount    int    `json:"chunk_count"`
	Processed     bool   `json:"processed"`
	CreatedAt     string `json:"created_at"`
}
