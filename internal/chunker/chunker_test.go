package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		s := New()
		assert.Equal(t, DefaultChunkSize, s.ChunkSize())
		assert.Equal(t, DefaultOverlap, s.Overlap())
	})

	t.Run("custom sizes", func(t *testing.T) {
		s := New(WithChunkSize(500), WithOverlap(50))
		assert.Equal(t, 500, s.ChunkSize())
		assert.Equal(t, 50, s.Overlap())
	})

	t.Run("overlap exceeding chunk size is reduced", func(t *testing.T) {
		s := New(WithChunkSize(100), WithOverlap(150))
		assert.Less(t, s.Overlap(), s.ChunkSize())
	})

	t.Run("non-positive options ignored", func(t *testing.T) {
		s := New(WithChunkSize(0), WithOverlap(-1))
		assert.Equal(t, DefaultChunkSize, s.ChunkSize())
		assert.Equal(t, DefaultOverlap, s.Overlap())
	})
}

func TestSplit_ShortText(t *testing.T) {
	s := New()
	chunks := s.Split("A short paragraph that easily fits in one chunk.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "A short paragraph that easily fits in one chunk.", chunks[0])
}

func TestSplit_WhitespaceOnly(t *testing.T) {
	s := New()
	assert.Empty(t, s.Split(""))
	assert.Empty(t, s.Split("   \n\n\t  \n "))
}

func TestSplit_Deterministic(t *testing.T) {
	s := New(WithChunkSize(120), WithOverlap(30))
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)

	first := s.Split(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.Split(text))
	}
}

func TestSplit_RespectsChunkSize(t *testing.T) {
	texts := []string{
		strings.Repeat("word ", 2000),
		strings.Repeat("a paragraph.\n\nanother paragraph with more text in it.\n", 100),
		strings.Repeat("nosplitcharactersatalljustoneverylongword", 100),
		strings.Repeat("日本語のテキストもルーン単位で分割される。", 200),
	}

	for _, size := range []int{100, 500, 1000} {
		s := New(WithChunkSize(size), WithOverlap(size/5))
		for _, text := range texts {
			for i, chunk := range s.Split(text) {
				got := utf8.RuneCountInString(chunk)
				assert.LessOrEqualf(t, got, size,
					"chunk %d exceeds size %d (got %d)", i, size, got)
				assert.NotEmpty(t, strings.TrimSpace(chunk))
			}
		}
	}
}

func TestSplit_PrefersParagraphBoundaries(t *testing.T) {
	para := strings.Repeat("alpha beta gamma delta. ", 6) // ~144 runes
	text := para + "\n\n" + para + "\n\n" + para

	s := New(WithChunkSize(200), WithOverlap(0))
	chunks := s.Split(text)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		// No chunk should straddle a paragraph break when each
		// paragraph fits on its own.
		assert.NotContains(t, chunk, "\n\n")
	}
}

func TestSplit_ReconstructionWithoutOverlap(t *testing.T) {
	text := strings.Repeat("Sentence one here. Sentence two there.\nA new line follows.\n\n", 60)

	s := New(WithChunkSize(150), WithOverlap(0))
	chunks := s.Split(text)
	require.NotEmpty(t, chunks)

	// Concatenating chunks reproduces the input up to whitespace
	// normalization: only whitespace separators are dropped at joins.
	want := strings.Join(strings.Fields(text), " ")
	got := strings.Join(strings.Fields(strings.Join(chunks, " ")), " ")
	assert.Equal(t, want, got)
}

func TestSplit_OverlapSharedWithPreviousChunk(t *testing.T) {
	text := strings.Repeat("the wizard considered every clause of the agreement carefully. ", 80)

	s := New(WithChunkSize(300), WithOverlap(60))
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 2)

	for i := 1; i < len(chunks); i++ {
		head := string([]rune(chunks[i])[:20])
		assert.Containsf(t, chunks[i-1], head,
			"chunk %d head %q not found in previous chunk", i, head)
	}
}

func TestSplit_LongDocumentChunkCount(t *testing.T) {
	// 3000-character document with defaults: at least 3 chunks, each
	// within the configured maximum.
	var b strings.Builder
	for b.Len() < 3000 {
		b.WriteString("Clause: the tenant shall give written notice before vacating. ")
	}
	text := b.String()[:3000]

	s := New()
	chunks := s.Split(text)
	require.GreaterOrEqual(t, len(chunks), 3)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), DefaultChunkSize)
	}
}
