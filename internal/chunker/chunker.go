// Package chunker provides recursive boundary-preferring text splitting.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default maximum chunk length in runes,
// including the duplicated overlap window.
const DefaultChunkSize = 1000

// DefaultOverlap is the default overlap window in runes, duplicated from
// the tail of each chunk into the head of the next.
const DefaultOverlap = 200

// separators are tried in order: paragraph breaks first, then line
// breaks, then single spaces, then arbitrary rune boundaries.
var separators = []string{"\n\n", "\n", " ", ""}

// Splitter splits raw document text into overlapping segments. Splitting
// is a pure function of the input text and the two size parameters.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk size in runes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap window in runes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Overlap must leave room for new content in every chunk.
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}
	return s
}

// ChunkSize returns the configured maximum chunk size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap window.
func (s *Splitter) Overlap() int { return s.overlap }

// Split splits text into trimmed, non-empty chunks of at most ChunkSize
// runes. Adjacent chunks share an overlap window copied from the tail of
// the previous segment. Whitespace-only input yields no chunks; the
// ingestion caller treats that as an empty document.
func (s *Splitter) Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if utf8.RuneCountInString(trimmed) <= s.chunkSize {
		return []string{trimmed}
	}

	segs := s.segments(text, separators)

	kept := segs[:0]
	for _, seg := range segs {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			kept = append(kept, seg)
		}
	}

	chunks := make([]string, 0, len(kept))
	for i, seg := range kept {
		if i == 0 || s.overlap == 0 {
			chunks = append(chunks, seg)
			continue
		}
		tail := strings.TrimSpace(lastRunes(kept[i-1], s.overlap))
		if tail == "" {
			chunks = append(chunks, seg)
			continue
		}
		chunks = append(chunks, tail+" "+seg)
	}
	return chunks
}

// bodyLimit is the maximum size of a segment before the overlap window
// is prepended. The extra rune accounts for the joining space.
func (s *Splitter) bodyLimit() int {
	limit := s.chunkSize - s.overlap
	if s.overlap > 0 {
		limit--
	}
	return limit
}

// segments recursively splits text so every segment fits the body limit,
// preferring the coarsest separator that produces conforming pieces.
// Pieces smaller than the limit are merged back together (separator
// reinserted) to avoid a long tail of tiny segments.
func (s *Splitter) segments(text string, seps []string) []string {
	limit := s.bodyLimit()
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	sep := seps[0]
	if sep == "" {
		return splitRunes(text, limit)
	}

	parts := strings.Split(text, sep)
	sepLen := utf8.RuneCountInString(sep)

	var segs []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			segs = append(segs, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, part := range parts {
		n := utf8.RuneCountInString(part)
		if n > limit {
			// Oversized piece: re-split with the next finer separator.
			flush()
			segs = append(segs, s.segments(part, seps[1:])...)
			continue
		}
		if curLen > 0 && curLen+sepLen+n > limit {
			flush()
		}
		if curLen > 0 {
			cur.WriteString(sep)
			curLen += sepLen
		}
		cur.WriteString(part)
		curLen += n
	}
	flush()
	return segs
}

// splitRunes hard-splits text into pieces of at most limit runes.
func splitRunes(text string, limit int) []string {
	if limit <= 0 {
		limit = 1
	}
	runes := []rune(text)
	pieces := make([]string, 0, len(runes)/limit+1)
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}

// lastRunes returns the final n runes of text.
func lastRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
