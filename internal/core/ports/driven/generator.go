package driven

import (
	"context"

	"github.com/docwizard/docwizard/internal/core/domain"
)

// AnswerGenerator turns a question plus assembled context into free-form
// answer text. It is an external collaborator: a generation failure must
// never corrupt retrieval state.
type AnswerGenerator interface {
	// Answer produces an answer to the question grounded in the given
	// excerpts, ordered highest similarity first.
	Answer(ctx context.Context, question string, excerpts []domain.RetrievedChunk) (string, error)

	// SuggestQuestions proposes questions a reader might ask, given a
	// sample of the document text. Implementations without generative
	// capability return domain.ErrGenerationUnavailable.
	SuggestQuestions(ctx context.Context, sample string) ([]string, error)

	// Name identifies the generator for logging.
	Name() string

	// Close releases resources.
	Close() error
}
