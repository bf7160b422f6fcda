package domain

import "time"

// Document represents one ingested document. It is created at ingestion
// time and owned by the document index until Forget removes it.
type Document struct {
	// ID is the unique identifier generated at ingestion.
	ID string

	// Filename is the original name of the uploaded file.
	Filename string

	// ChunkCount is the number of chunks the document was split into.
	ChunkCount int

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk is the atomic unit of retrieval: a bounded, overlap-padded
// segment of a document's text.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Content is the chunk text. Never empty after trimming.
	Content string

	// Position is the 0-based ordinal within the document. Positions are
	// contiguous and strictly increasing.
	Position int

	// Embedding is the vector representation used for similarity search.
	// All embeddings stored for one document come from the same provider
	// and share one dimensionality.
	Embedding []float32
}

// IndexSummary describes the outcome of a successful ingestion.
type IndexSummary struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
}

// RetrievedChunk is one ranked retrieval candidate.
type RetrievedChunk struct {
	// Content is the chunk text.
	Content string `json:"chunk_text"`

	// Similarity is the normalized relevance score, higher is more
	// relevant. Computed as 1 - distance against the query vector.
	Similarity float64 `json:"similarity"`

	// Position is the chunk's original index within the document.
	Position int `json:"chunk_index"`
}

// Answer is the result of asking a question about a document.
type Answer struct {
	// Text is the generated answer. Empty when no generator ran.
	Text string `json:"answer,omitempty"`

	// Context is the filtered, highest-similarity-first excerpt set the
	// answer is grounded in. Empty when nothing cleared the relevance
	// floor.
	Context []RetrievedChunk `json:"context"`

	// Confidence estimates how well the context grounds the answer.
	Confidence Confidence `json:"confidence"`
}
