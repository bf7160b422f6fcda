// Package plaintext extracts text from plain-text documents. It is the
// default TextExtractor; binary formats (PDF) are handled by external
// tooling before ingestion.
package plaintext

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/docwizard/docwizard/internal/core/domain"
	"github.com/docwizard/docwizard/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// supportedExtensions are the filename extensions treated as plain text.
var supportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".text":     true,
	"":          true,
}

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supports reports whether the filename looks like plain text.
func (e *Extractor) Supports(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Extract validates the bytes as UTF-8, normalises line endings and
// returns the text. Fails with domain.ErrExtraction when nothing
// readable remains.
func (e *Extractor) Extract(_ context.Context, filename string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8 text", domain.ErrExtraction, filename)
	}

	text := string(data)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s contains no text", domain.ErrExtraction, filename)
	}
	return text, nil
}
