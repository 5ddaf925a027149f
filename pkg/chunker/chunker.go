package chunker

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidChunkConfig is returned when the size/overlap pair cannot
// produce a valid chunking.
var ErrInvalidChunkConfig = errors.New("invalid chunk config")

// Boundary separators in priority order. The trailing empty string is the
// character-run fallback: a run containing none of the separators is kept
// whole, which is the one case where a chunk may exceed ChunkSize.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

type Config struct {
	ChunkSize    int
	ChunkOverlap int
}

type Chunker struct {
	config Config
}

func NewWithConfig(config Config) (*Chunker, error) {
	if config.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk_size must be positive, got %d",
			ErrInvalidChunkConfig, config.ChunkSize)
	}
	if config.ChunkOverlap < 0 {
		return nil, fmt.Errorf("%w: chunk_overlap cannot be negative, got %d",
			ErrInvalidChunkConfig, config.ChunkOverlap)
	}
	if config.ChunkOverlap >= config.ChunkSize {
		return nil, fmt.Errorf("%w: chunk_overlap %d must be smaller than chunk_size %d",
			ErrInvalidChunkConfig, config.ChunkOverlap, config.ChunkSize)
	}
	return &Chunker{config: config}, nil
}

// Split segments text into bounded chunks. Consecutive chunks overlap by
// ChunkOverlap characters when the overlap text fits the size budget; the
// first chunk has no lookback.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}
	return c.pack(c.split(text, 0))
}

// split breaks text into pieces no larger than ChunkSize characters,
// preferring the earliest separator in priority order and descending to
// finer separators only for pieces that are still too large. Separators
// stay attached to the preceding piece so concatenating all pieces
// reproduces text exactly.
func (c *Chunker) split(text string, depth int) []string {
	if utf8.RuneCountInString(text) <= c.config.ChunkSize {
		return []string{text}
	}

	sep := separators[depth]
	if sep == "" {
		// No boundary left: an atomic run is emitted whole rather
		// than mid-broken.
		return []string{text}
	}

	parts := strings.SplitAfter(text, sep)
	if len(parts) == 1 {
		return c.split(text, depth+1)
	}

	var pieces []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if utf8.RuneCountInString(part) > c.config.ChunkSize {
			pieces = append(pieces, c.split(part, depth+1)...)
		} else {
			pieces = append(pieces, part)
		}
	}
	return pieces
}

// pack greedily combines pieces into chunks of at most ChunkSize
// characters, carrying the tail of each finished chunk into the next one
// as overlap. All accounting is in runes; chunks never start or end
// mid-rune.
func (c *Chunker) pack(pieces []string) []string {
	var chunks []string

	current := strings.Builder{}
	currentLen := 0 // runes in current
	carried := 0    // runes of overlap prefix in current

	for _, piece := range pieces {
		pieceLen := utf8.RuneCountInString(piece)

		if currentLen > carried && currentLen+pieceLen > c.config.ChunkSize {
			chunk := current.String()
			chunks = append(chunks, chunk)

			tail := overlapTail(chunk, c.config.ChunkOverlap)
			tailLen := utf8.RuneCountInString(tail)
			switch {
			case pieceLen > c.config.ChunkSize:
				// An oversized atom goes out alone; prepending
				// a tail would exceed even the atom's own size.
				tail, tailLen = "", 0
			case tailLen+pieceLen > c.config.ChunkSize:
				// Shrink the lookback when the full overlap
				// plus the next piece would not fit the budget.
				tail = trimLeadingRunes(tail, tailLen+pieceLen-c.config.ChunkSize)
				tailLen = utf8.RuneCountInString(tail)
			}

			current.Reset()
			current.WriteString(tail)
			currentLen = tailLen
			carried = tailLen
		}

		current.WriteString(piece)
		currentLen += pieceLen
	}

	if currentLen > carried {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// overlapTail returns the last overlap runes of chunk.
func overlapTail(chunk string, overlap int) string {
	if overlap <= 0 {
		return ""
	}
	runes := []rune(chunk)
	if len(runes) <= overlap {
		return chunk
	}
	return string(runes[len(runes)-overlap:])
}

func trimLeadingRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if n >= len(runes) {
		return ""
	}
	return string(runes[n:])
}
