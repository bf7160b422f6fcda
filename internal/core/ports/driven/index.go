package driven

import (
	"context"

	"github.com/docwizard/docwizard/internal/core/domain"
)

// DocumentIndex stores chunk texts and their embedding vectors per
// document and answers similarity queries. Entries are never partially
// mutated: a document is either fully indexed or absent.
type DocumentIndex interface {
	// Insert stores the document and its chunks (with embeddings) as one
	// atomic unit. It fails with domain.ErrIndexCreation if the document
	// or any chunk ID already exists, or if the write cannot complete;
	// no partial state survives a failed insert.
	Insert(ctx context.Context, doc domain.Document, chunks []domain.Chunk) error

	// Search returns at most k chunks of the given document ranked by
	// descending similarity to the query vector. Equal scores are ordered
	// by ascending chunk position. Chunks of other documents are never
	// returned. Fails with domain.ErrUnknownDocument if the document has
	// no index entry.
	Search(ctx context.Context, documentID string, query []float32, k int) ([]domain.RetrievedChunk, error)

	// Clear removes all stored chunks and vectors for the document and
	// reports whether a removal actually occurred. Clearing an absent
	// document is a no-op returning false, never an error.
	Clear(ctx context.Context, documentID string) (bool, error)

	// Stats returns the document's metadata.
	// Fails with domain.ErrUnknownDocument if the document is absent.
	Stats(ctx context.Context, documentID string) (*domain.Document, error)

	// Sample returns up to n chunk texts of the document in position
	// order, used for question suggestion.
	Sample(ctx context.Context, documentID string, n int) ([]string, error)

	// Close releases resources.
	Close() error
}
