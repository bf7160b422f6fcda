package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docwizard/docwizard/internal/core/domain"
)

func vec(values ...float32) []float32 {
	return values
}

func testDoc(id string, chunkVecs ...[]float32) (domain.Document, []domain.Chunk) {
	doc := domain.Document{
		ID:         id,
		Filename:   id + ".txt",
		ChunkCount: len(chunkVecs),
		CreatedAt:  time.Now(),
	}
	chunks := make([]domain.Chunk, len(chunkVecs))
	for i, v := range chunkVecs {
		chunks[i] = domain.Chunk{
			ID:         id + "-chunk-" + string(rune('a'+i)),
			DocumentID: id,
			Content:    "chunk " + string(rune('a'+i)) + " of " + id,
			Position:   i,
			Embedding:  v,
		}
	}
	return doc, chunks
}

func TestInsertAndSearch(t *testing.T) {
	x := NewIndex()
	ctx := context.Background()

	doc, chunks := testDoc("doc-1",
		vec(1, 0, 0),
		vec(0, 1, 0),
		vec(0.9, 0.1, 0),
	)
	require.NoError(t, x.Insert(ctx, doc, chunks))

	results, err := x.Search(ctx, "doc-1", vec(1, 0, 0), 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 0, results[0].Position)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.Equal(t, 2, results[1].Position)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestSearch_UnknownDocument(t *testing.T) {
	x := NewIndex()

	_, err := x.Search(context.Background(), "missing", vec(1, 0), 5)
	assert.ErrorIs(t, err, domain.ErrUnknownDocument)
}

func TestSearch_NoCrossDocumentLeakage(t *testing.T) {
	x := NewIndex()
	ctx := context.Background()

	docA, chunksA := testDoc("doc-a", vec(1, 0, 0), vec(0, 1, 0))
	docB, chunksB := testDoc("doc-b", vec(1, 0, 0), vec(0.5, 0.5, 0))
	require.NoError(t, x.Insert(ctx, docA, chunksA))
	require.NoError(t, x.Insert(ctx, docB, chunksB))

	results, err := x.Search(ctx, "doc-a", vec(1, 0, 0), 10)
	require.NoError(t, err)
	require.Len(t, results, 2, "only doc-a chunks may be returned")
	for _, r := range results {
		assert.Contains(t, r.Content, "doc-a")
	}
}

func TestSearch_TieBreakByPosition(t *testing.T) {
	x := NewIndex()
	ctx := context.Background()

	// Identical vectors: equal scores must come back in position order.
	doc, chunks := testDoc("doc-tie", vec(1, 1, 0), vec(1, 1, 0), vec(1, 1, 0))
	require.NoError(t, x.Insert(ctx, doc, chunks))

	results, err := x.Search(ctx, "doc-tie", vec(1, 1, 0), 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, i, r.Position)
	}
}

func TestSearch_DefaultK(t *testing.T) {
	x := NewIndex()
	ctx := context.Background()

	vecs := make([][]float32, 8)
	for i := range vecs {
		vecs[i] = vec(float32(i+1), 1, 0)
	}
	doc, chunks := testDoc("doc-k", vecs...)
	require.NoError(t, x.Insert(ctx, doc, chunks))

	results, err := x.Search(ctx, "doc-k", vec(1, 0, 0), 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultK)
}

func TestInsert_DuplicateDocument(t *testing.T) {
	x := NewIndex()
	ctx := context.Background()

	doc, chunks := testDoc("doc-dup", vec(1, 0))
	require.NoError(t, x.Insert(ctx, doc, chunks))

	err := x.Insert(ctx, doc, chunks)
	assert.ErrorIs(t, err, domain.ErrIndexCreation)
}

func TestInsert_ChunkIDCollision(t *testing.T) {
	x := NewIndex()

	doc, chunks := testDoc("doc-coll", vec(1, 0), vec(0, 1))
	chunks[1].ID = chunks[0].ID

	err := x.Insert(context.Background(), doc, chunks)
	assert.ErrorIs(t, err, domain.ErrIndexCreation)

	// Nothing was published.
	_, err = x.Search(context.Background(), "doc-coll", vec(1, 0), 1)
	assert.ErrorIs(t, err, domain.ErrUnknownDocument)
}

func TestInsert_MixedDimensions(t *testing.T) {
	x := NewIndex()

	doc, chunks := testDoc("doc-dim", vec(1, 0, 0), vec(0, 1))
	err := x.Insert(context.Background(), doc, chunks)
	assert.ErrorIs(t, err, domain.ErrIndexCreation)
}

func TestClear_Idempotent(t *testing.T) {
	x := NewIndex()
	ctx := context.Background()

	doc, chunks := testDoc("doc-clear", vec(1, 0))
	require.NoError(t, x.Insert(ctx, doc, chunks))

	removed, err := x.Clear(ctx, "doc-clear")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = x.Clear(ctx, "doc-clear")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = x.Clear(ctx, "never-existed")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStatsAndSample(t *testing.T) {
	x := NewIndex()
	ctx := context.Background()

	doc, chunks := testDoc("doc-stats", vec(1, 0), vec(0, 1), vec(1, 1))
	require.NoError(t, x.Insert(ctx, doc, chunks))

	stats, err := x.Stats(ctx, "doc-stats")
	require.NoError(t, err)
	assert.Equal(t, "doc-stats.txt", stats.Filename)
	assert.Equal(t, 3, stats.ChunkCount)

	sample, err := x.Sample(ctx, "doc-stats", 2)
	require.NoError(t, err)
	require.Len(t, sample, 2)
	assert.Contains(t, sample[0], "chunk a")

	_, err = x.Stats(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUnknownDocument)
}

func TestConcurrentSearchAndClear(t *testing.T) {
	x := NewIndex()
	ctx := context.Background()

	doc, chunks := testDoc("doc-conc", vec(1, 0), vec(0, 1))
	require.NoError(t, x.Insert(ctx, doc, chunks))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			// Races with Clear below; either outcome is valid.
			x.Search(ctx, "doc-conc", vec(1, 0), 2) //nolint:errcheck
		}
	}()
	for i := 0; i < 100; i++ {
		x.Clear(ctx, "doc-conc") //nolint:errcheck
	}
	<-done
}
