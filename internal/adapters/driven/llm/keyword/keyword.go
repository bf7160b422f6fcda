// Package keyword provides a credential-free answer generator that
// quotes the excerpt with the best term overlap. It is a lower-quality
// stand-in used when no chat model is configured.
package keyword

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/docwizard/docwizard/internal/core/domain"
	"github.com/docwizard/docwizard/internal/core/ports/driven"
)

// Ensure AnswerGenerator implements the interface.
var _ driven.AnswerGenerator = (*AnswerGenerator)(nil)

var wordPattern = regexp.MustCompile(`\p{L}+`)

// AnswerGenerator answers by extracting the most relevant excerpt.
type AnswerGenerator struct{}

// NewAnswerGenerator creates the keyword-overlap answerer.
func NewAnswerGenerator() *AnswerGenerator {
	return &AnswerGenerator{}
}

// Answer returns the excerpt sharing the most terms with the question,
// framed so the caller knows it is a quotation, not a synthesis.
func (g *AnswerGenerator) Answer(_ context.Context, question string, excerpts []domain.RetrievedChunk) (string, error) {
	if len(excerpts) == 0 {
		return "", domain.ErrGenerationUnavailable
	}

	qTerms := termSet(question)
	best := 0
	bestScore := -1
	for i, ex := range excerpts {
		score := overlap(qTerms, ex.Content)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	excerpt := strings.TrimSpace(excerpts[best].Content)
	if len(excerpt) > 500 {
		excerpt = excerpt[:500] + "..."
	}
	return fmt.Sprintf(
		"The most relevant passage in the document says:\n\n%q\n\n(No language model is configured; this is a direct quotation, not a synthesized answer.)",
		excerpt,
	), nil
}

// SuggestQuestions is unsupported; the caller falls back to its generic
// question list.
func (g *AnswerGenerator) SuggestQuestions(_ context.Context, _ string) ([]string, error) {
	return nil, domain.ErrGenerationUnavailable
}

// Name identifies the generator.
func (g *AnswerGenerator) Name() string {
	return "keyword"
}

// Close releases resources.
func (g *AnswerGenerator) Close() error {
	return nil
}

func termSet(text string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len(w) > 2 {
			terms[w] = struct{}{}
		}
	}
	return terms
}

func overlap(qTerms map[string]struct{}, text string) int {
	count := 0
	seen := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := qTerms[w]; ok {
			count++
		}
	}
	return count
}
