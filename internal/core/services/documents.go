package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docwizard/docwizard/internal/chunker"
	"github.com/docwizard/docwizard/internal/core/domain"
	"github.com/docwizard/docwizard/internal/core/ports/driven"
	"github.com/docwizard/docwizard/internal/core/ports/driving"
	"github.com/docwizard/docwizard/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// defaultTopK is the retrieval candidate count when the caller passes k <= 0.
const defaultTopK = 5

// suggestionSampleChunks is how many leading chunks feed question suggestion.
const suggestionSampleChunks = 3

// genericQuestions is the fallback suggestion list used when no generator
// is available or generation fails.
var genericQuestions = []string{
	"What is this document about?",
	"What are the key terms or definitions?",
	"What obligations does this document impose?",
	"Are there any important dates or deadlines?",
	"What happens if the agreement is terminated?",
}

// DocumentService implements the retrieval-and-confidence pipeline:
// chunk, embed, index on ingestion; embed, search, filter, label on ask.
type DocumentService struct {
	splitter  *chunker.Splitter
	embedder  driven.EmbeddingService
	index     driven.DocumentIndex
	generator driven.AnswerGenerator
}

// NewDocumentService creates a new document service.
// The generator parameter is optional (can be nil); without it Ask returns
// retrieval context and confidence with no answer text.
func NewDocumentService(
	splitter *chunker.Splitter,
	embedder driven.EmbeddingService,
	index driven.DocumentIndex,
	generator driven.AnswerGenerator,
) *DocumentService {
	return &DocumentService{
		splitter:  splitter,
		embedder:  embedder,
		index:     index,
		generator: generator,
	}
}

// Ingest splits, embeds and indexes the document text.
func (s *DocumentService) Ingest(ctx context.Context, filename, text string) (*domain.IndexSummary, error) {
	logger.Section("Document Ingestion")
	logger.Debug("Filename: %s, text: %d bytes", filename, len(text))

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, filename)
	}

	pieces := s.splitter.Split(text)
	if len(pieces) == 0 {
		return nil, fmt.Errorf("%w: %s produced no chunks", domain.ErrEmptyDocument, filename)
	}
	logger.Debug("Split into %d chunks", len(pieces))

	vectors, err := s.embedder.EmbedBatch(ctx, pieces)
	if err != nil {
		logger.Warn("Embedding failed: %v", err)
		if errors.Is(err, domain.ErrEmbeddingExhausted) {
			return nil, err
		}
		return nil, fmt.Errorf("embedding document: %w", err)
	}
	if len(vectors) != len(pieces) {
		return nil, fmt.Errorf("embedding document: got %d vectors for %d chunks", len(vectors), len(pieces))
	}

	doc := domain.Document{
		ID:         uuid.NewString(),
		Filename:   filename,
		ChunkCount: len(pieces),
		CreatedAt:  time.Now().UTC(),
	}

	chunks := make([]domain.Chunk, len(pieces))
	for i, content := range pieces {
		chunks[i] = domain.Chunk{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Content:    content,
			Position:   i,
			Embedding:  vectors[i],
		}
	}

	if err := s.index.Insert(ctx, doc, chunks); err != nil {
		logger.Warn("Index insert failed: %v", err)
		return nil, err
	}

	logger.Info("Ingested %s as %s (%d chunks, %s embeddings)",
		filename, doc.ID, len(chunks), s.embedder.ModelName())

	return &domain.IndexSummary{
		DocumentID: doc.ID,
		Filename:   filename,
		ChunkCount: len(chunks),
	}, nil
}

// Ask retrieves relevant chunks, labels confidence and optionally generates
// an answer. Generation failures degrade to a context-only answer; they
// never fail the call.
func (s *DocumentService) Ask(ctx context.Context, documentID, question string, k int) (*domain.Answer, error) {
	logger.Section("Question Answering")
	logger.Debug("Document: %s, question: %q", documentID, question)

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("question is empty")
	}
	if k <= 0 {
		k = defaultTopK
	}

	query, err := s.embedder.Embed(ctx, question)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrQueryEmbedding, err)
	}

	candidates, err := s.index.Search(ctx, documentID, query, k)
	if err != nil {
		return nil, err
	}
	logger.Debug("Retrieved %d candidates", len(candidates))

	// Keep only candidates that clear the relevance floor. Scores at or
	// below the floor are treated as noise.
	kept := make([]domain.RetrievedChunk, 0, len(candidates))
	scores := make([]float64, 0, len(candidates))
	for _, c := range candidates {
		if c.Similarity > domain.RelevanceFloor {
			kept = append(kept, c)
			scores = append(scores, c.Similarity)
		}
	}
	logger.Debug("%d candidates cleared the relevance floor", len(kept))

	answer := &domain.Answer{
		Context:    kept,
		Confidence: domain.ConfidenceFromScores(scores),
	}
	logger.Info("Confidence: %s (%d context chunks)", answer.Confidence, len(kept))

	if s.generator != nil && len(kept) > 0 {
		text, genErr := s.generator.Answer(ctx, question, kept)
		if genErr != nil {
			logger.Warn("Answer generation failed, returning context only: %v", genErr)
		} else {
			answer.Text = text
		}
	}

	return answer, nil
}

// Forget removes the document from the index. Idempotent.
func (s *DocumentService) Forget(ctx context.Context, documentID string) (bool, error) {
	removed, err := s.index.Clear(ctx, documentID)
	if err != nil {
		return false, fmt.Errorf("forgetting document %s: %w", documentID, err)
	}
	logger.Info("Forget %s: removed=%t", documentID, removed)
	return removed, nil
}

// Stats returns metadata for an ingested document.
func (s *DocumentService) Stats(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.index.Stats(ctx, documentID)
}

// SuggestQuestions asks the generator for document-specific questions,
// falling back to a generic list when generation is unavailable.
func (s *DocumentService) SuggestQuestions(ctx context.Context, documentID string) ([]string, error) {
	sample, err := s.index.Sample(ctx, documentID, suggestionSampleChunks)
	if err != nil {
		return nil, err
	}

	if s.generator != nil {
		questions, genErr := s.generator.SuggestQuestions(ctx, strings.Join(sample, "\n\n"))
		if genErr == nil && len(questions) > 0 {
			return questions, nil
		}
		if genErr != nil {
			logger.Warn("Question suggestion failed, using generic list: %v", genErr)
		}
	}

	fallback := make([]string, len(genericQuestions))
	copy(fallback, genericQuestions)
	return fallback, nil
}
