// Package hashing provides the deterministic last-resort embedding tier.
// Vectors are a pure function of the input text, so embedding can never
// fail; retrieval quality is poor, but the pipeline contract survives
// total provider outage.
package hashing

import (
	"context"
	"crypto/sha256"

	"github.com/docwizard/docwizard/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Dimensions is the fixed output size, matching the other chain tiers.
const Dimensions = 384

// EmbeddingService maps text to a fixed-length vector by hashing.
type EmbeddingService struct{}

// NewEmbeddingService creates the deterministic hashing embedder.
func NewEmbeddingService() *EmbeddingService {
	return &EmbeddingService{}
}

// Embed hashes the text to a digest, maps digest bytes to values in
// [0,1] and cycles the sequence to exactly Dimensions entries. It never
// returns an error, including for the empty string.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	digest := sha256.Sum256([]byte(text))

	vec := make([]float32, Dimensions)
	for i := range vec {
		vec[i] = float32(digest[i%len(digest)]) / 255.0
	}
	return vec, nil
}

// EmbedBatch embeds each text in turn. It never returns an error.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

// Dimensions returns the fixed embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return Dimensions
}

// ModelName identifies the fallback embedder.
func (s *EmbeddingService) ModelName() string {
	return "hashing/sha256"
}

// Ping always succeeds; there is nothing to reach.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
