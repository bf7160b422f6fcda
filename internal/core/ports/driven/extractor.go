package driven

import "context"

// TextExtractor turns an uploaded document's raw bytes into plain text.
// It fails with domain.ErrExtraction when the source yields no text.
type TextExtractor interface {
	// Extract returns the plain text content of the document.
	Extract(ctx context.Context, filename string, data []byte) (string, error)

	// Supports reports whether the extractor handles the given filename.
	Supports(filename string) bool
}
