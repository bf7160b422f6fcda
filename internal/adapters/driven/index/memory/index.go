// Package memory provides an in-memory DocumentIndex using brute-force
// cosine similarity. One shard per document keeps locking per-document:
// searches on one document never contend with inserts on another.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/docwizard/docwizard/internal/core/domain"
	"github.com/docwizard/docwizard/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.DocumentIndex = (*Index)(nil)

// DefaultK is the candidate count when the caller passes k <= 0.
const DefaultK = 5

// Index is an in-memory per-document vector index.
type Index struct {
	mu     sync.RWMutex
	shards map[string]*shard
}

// shard owns one document's chunks and vectors. It is fully built before
// being published into the shard map, so readers never observe a
// partially indexed document.
type shard struct {
	mu  sync.RWMutex
	doc domain.Document
	// chunks are stored in position order.
	chunks []domain.Chunk
}

// NewIndex creates an empty in-memory document index.
func NewIndex() *Index {
	return &Index{shards: make(map[string]*shard)}
}

// Insert stores the document and its chunks atomically.
func (x *Index) Insert(_ context.Context, doc domain.Document, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("%w: no chunks to index", domain.ErrIndexCreation)
	}

	dims := len(chunks[0].Embedding)
	seen := make(map[string]bool, len(chunks))
	for i, chunk := range chunks {
		if chunk.DocumentID != doc.ID {
			return fmt.Errorf("%w: chunk %d belongs to document %s", domain.ErrIndexCreation, i, chunk.DocumentID)
		}
		if seen[chunk.ID] {
			return fmt.Errorf("%w: duplicate chunk ID %s", domain.ErrIndexCreation, chunk.ID)
		}
		seen[chunk.ID] = true
		if len(chunk.Embedding) != dims || dims == 0 {
			return fmt.Errorf("%w: chunk %d has %d dims, expected %d", domain.ErrIndexCreation, i, len(chunk.Embedding), dims)
		}
	}

	// Build the shard outside the map lock, publish under it.
	sh := &shard{doc: doc, chunks: make([]domain.Chunk, len(chunks))}
	copy(sh.chunks, chunks)
	sort.Slice(sh.chunks, func(i, j int) bool {
		return sh.chunks[i].Position < sh.chunks[j].Position
	})

	x.mu.Lock()
	defer x.mu.Unlock()
	if _, exists := x.shards[doc.ID]; exists {
		return fmt.Errorf("%w: document %s already indexed", domain.ErrIndexCreation, doc.ID)
	}
	x.shards[doc.ID] = sh
	return nil
}

// Search returns the document's top-k chunks by cosine similarity.
func (x *Index) Search(_ context.Context, documentID string, query []float32, k int) ([]domain.RetrievedChunk, error) {
	sh, err := x.shard(documentID)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = DefaultK
	}

	sh.mu.RLock()
	defer sh.mu.RUnlock()

	results := make([]domain.RetrievedChunk, 0, len(sh.chunks))
	for _, chunk := range sh.chunks {
		results = append(results, domain.RetrievedChunk{
			Content:    chunk.Content,
			Similarity: cosineSimilarity(query, chunk.Embedding),
			Position:   chunk.Position,
		})
	}

	// Descending score; equal scores keep ascending position order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Clear removes the document's shard. Idempotent.
func (x *Index) Clear(_ context.Context, documentID string) (bool, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.shards[documentID]; !ok {
		return false, nil
	}
	delete(x.shards, documentID)
	return true, nil
}

// Stats returns the document's metadata.
func (x *Index) Stats(_ context.Context, documentID string) (*domain.Document, error) {
	sh, err := x.shard(documentID)
	if err != nil {
		return nil, err
	}
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	doc := sh.doc
	return &doc, nil
}

// Sample returns up to n chunk texts in position order.
func (x *Index) Sample(_ context.Context, documentID string, n int) ([]string, error) {
	sh, err := x.shard(documentID)
	if err != nil {
		return nil, err
	}
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	if n <= 0 || n > len(sh.chunks) {
		n = len(sh.chunks)
	}
	texts := make([]string, 0, n)
	for _, chunk := range sh.chunks[:n] {
		texts = append(texts, chunk.Content)
	}
	return texts, nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

func (x *Index) shard(documentID string) (*shard, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	sh, ok := x.shards[documentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDocument, documentID)
	}
	return sh, nil
}

// cosineSimilarity reports the cosine of the angle between two vectors,
// the similarity complement of the store's distance metric.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
