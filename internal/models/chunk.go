package models

// Chunk is a contiguous passage of a source document, the atomic unit of
// retrieval. Immutable once created; the vector index owns it after insertion.
type Chunk struct {
	ID            string        `db:"id"`
	DocumentID    string        `db:"document_id"`
	Title         string        `db:"title"`
	Text          string        `db:"text"`
	Index         int           `db:"chunk_index"`
	DocumentType  DocumentType  `db:"document_type"`
	ProcedureType ProcedureType `db:"procedure_type"`
}

// ChunkFilter is an equality predicate over chunk metadata applied during
// vector search.
type ChunkFilter struct {
	DocumentType *DocumentType
}

// ChunkMatch is a nearest-neighbor hit as returned by the index, with the raw
// cosine distance in [0,2].
type ChunkMatch struct {
	Chunk
	Distance float64
}

// RetrievedItem is a per-query search result with the distance converted to a
// cosine similarity score in [-1,1].
type RetrievedItem struct {
	ChunkID         string        `json:"chunk_id"`
	DocumentID      string        `json:"document_id"`
	Title           string        `json:"title"`
	DocumentType    DocumentType  `json:"document_type"`
	ProcedureType   ProcedureType `json:"procedure_type"`
	ChunkIndex      int           `json:"chunk_index"`
	Snippet         string        `json:"content_snippet"`
	SimilarityScore float64       `json:"similarity_score"`
	FullText        string        `json:"-"`
}

// GroundingDecision summarizes whether a retrieved result set is strong
// enough evidence to generate an answer from.
type GroundingDecision struct {
	BestScore           float64
	AverageScore        float64
	CategoryConsistent  bool
	ProcedureConsistent bool
	Grounded            bool
}

// Answer is the outcome of the full question pipeline. Grounded=false carries
// the fixed refusal text and no source attribution.
type Answer struct {
	Answer          string
	ContextUsed     string
	SimilarityScore float64
	Grounded        bool
	SourceDocument  string
	ChunkID         string
}
