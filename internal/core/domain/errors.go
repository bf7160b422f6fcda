package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrEmptyDocument indicates the document yielded no extractable text.
	// Surfaced to the ingestion caller; nothing is indexed.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrUnknownDocument indicates a query against a document ID that has
	// no index entry. Recoverable: the caller should prompt a re-upload.
	ErrUnknownDocument = errors.New("unknown document")

	// ErrIndexCreation indicates ingestion could not build the index entry,
	// either a chunk ID collision or a storage write failure. Fatal to the
	// specific ingest call only.
	ErrIndexCreation = errors.New("index creation failed")

	// ErrEmbeddingExhausted indicates every provider in the chain failed,
	// including the deterministic fallback. This is a configuration fault
	// and is not retried automatically.
	ErrEmbeddingExhausted = errors.New("all embedding providers failed")

	// ErrQueryEmbedding indicates embedding the query text failed on every
	// provider. Should not occur given the deterministic fallback, but it
	// must be representable.
	ErrQueryEmbedding = errors.New("query embedding failed")

	// ErrExtraction indicates the raw-text extractor produced no text from
	// the source.
	ErrExtraction = errors.New("text extraction failed")

	// ErrGenerationUnavailable indicates the answer generator cannot serve
	// the request (not configured, or the capability is unsupported).
	ErrGenerationUnavailable = errors.New("answer generation unavailable")
)
