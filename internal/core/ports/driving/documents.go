// Package driving provides interfaces for application entry points
// (primary/inbound ports).
package driving

import (
	"context"

	"github.com/docwizard/docwizard/internal/core/domain"
)

// DocumentService is the retrieval-and-confidence pipeline exposed to
// transports (CLI, HTTP). Transports own upload handling and routing;
// the service owns chunking, embedding, indexing and retrieval.
type DocumentService interface {
	// Ingest splits the text into chunks, embeds them and stores a new
	// index entry. Fails with domain.ErrEmptyDocument when the text is
	// blank, domain.ErrEmbeddingExhausted when no provider could embed,
	// and domain.ErrIndexCreation when the index write fails.
	Ingest(ctx context.Context, filename, text string) (*domain.IndexSummary, error)

	// Ask retrieves the most relevant chunks for the question, computes a
	// confidence label and, when a generator is configured, produces a
	// grounded answer. k <= 0 selects the default candidate count.
	Ask(ctx context.Context, documentID, question string, k int) (*domain.Answer, error)

	// Forget removes the document from the index. Idempotent; reports
	// whether anything was removed.
	Forget(ctx context.Context, documentID string) (bool, error)

	// Stats returns metadata for an ingested document.
	Stats(ctx context.Context, documentID string) (*domain.Document, error)

	// SuggestQuestions proposes questions about the document, falling
	// back to a generic list when generation is unavailable.
	SuggestQuestions(ctx context.Context, documentID string) ([]string, error)
}
