package chunker_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/pdfcompare/pkg/chunker"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{"valid", 100, 10, false},
		{"zero overlap", 100, 0, false},
		{"overlap equals size", 100, 100, true},
		{"overlap exceeds size", 100, 150, true},
		{"zero size", 0, 0, true},
		{"negative size", -5, 0, true},
		{"negative overlap", 100, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := chunker.NewWithConfig(chunker.Config{
				ChunkSize:    tt.size,
				ChunkOverlap: tt.overlap,
			})
			if tt.wantErr {
				assert.ErrorIs(t, err, chunker.ErrInvalidChunkConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitEmpty(t *testing.T) {
	c, err := chunker.NewWithConfig(chunker.Config{ChunkSize: 100, ChunkOverlap: 10})
	require.NoError(t, err)

	assert.Empty(t, c.Split(""))
}

func TestSplitShortText(t *testing.T) {
	c, err := chunker.NewWithConfig(chunker.Config{ChunkSize: 100, ChunkOverlap: 10})
	require.NoError(t, err)

	chunks := c.Split("short text")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestChunkBoundAndCoverage(t *testing.T) {
	texts := map[string]string{
		"paragraphs": strings.Repeat("First paragraph with a bit of text.\n\nSecond one follows here.\n\n", 8),
		"lines":      strings.Repeat("a line of text that goes on for a while\n", 20),
		"sentences":  strings.Repeat("One sentence here. Another sentence there. ", 15),
		"words":      strings.Repeat("word ", 200),
		"multibyte":  strings.Repeat("héllo wörld, çhunks everywhere. ", 12),
	}

	configs := []chunker.Config{
		{ChunkSize: 50, ChunkOverlap: 0},
		{ChunkSize: 50, ChunkOverlap: 10},
		{ChunkSize: 120, ChunkOverlap: 40},
		{ChunkSize: 30, ChunkOverlap: 29},
	}

	for name, text := range texts {
		for _, cfg := range configs {
			t.Run(name, func(t *testing.T) {
				c, err := chunker.NewWithConfig(cfg)
				require.NoError(t, err)

				chunks := c.Split(text)
				require.NotEmpty(t, chunks)

				for _, chunk := range chunks {
					assert.LessOrEqual(t, utf8.RuneCountInString(chunk), cfg.ChunkSize)
					assert.True(t, utf8.ValidString(chunk))
				}
				assert.Equal(t, text, reconstruct(chunks, cfg.ChunkOverlap))
			})
		}
	}
}

func TestOverlapCarried(t *testing.T) {
	c, err := chunker.NewWithConfig(chunker.Config{ChunkSize: 20, ChunkOverlap: 5})
	require.NoError(t, err)

	chunks := c.Split(strings.Repeat("aaaa ", 20))
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		assert.True(t, strings.HasPrefix(chunks[i], prev[len(prev)-5:]),
			"chunk %d should start with the previous chunk's tail", i)
	}
}

func TestMultibyteOverlapKeepsRunesIntact(t *testing.T) {
	c, err := chunker.NewWithConfig(chunker.Config{ChunkSize: 12, ChunkOverlap: 4})
	require.NoError(t, err)

	text := "ééé ééé ééé ééé"
	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)

	// Overlap slicing must never tear a rune apart.
	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %q holds invalid UTF-8", chunk)
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 12)
	}
	assert.Equal(t, text, reconstruct(chunks, 4))
}

func TestOversizedAtomCarriesNoOverlap(t *testing.T) {
	c, err := chunker.NewWithConfig(chunker.Config{ChunkSize: 10, ChunkOverlap: 4})
	require.NoError(t, err)

	run := strings.Repeat("x", 35)
	chunks := c.Split("ab " + run + " cd")

	// The oversized atom is emitted by itself; no lookback tail makes it
	// even larger.
	var atom string
	for _, chunk := range chunks {
		if strings.Contains(chunk, run) {
			atom = chunk
		}
	}
	require.NotEmpty(t, atom)
	assert.Equal(t, run+" ", atom)
	assert.Equal(t, "ab "+run+" cd", reconstruct(chunks, 4))
}

func TestOversizedAtomicRunEmittedWhole(t *testing.T) {
	c, err := chunker.NewWithConfig(chunker.Config{ChunkSize: 10, ChunkOverlap: 0})
	require.NoError(t, err)

	run := strings.Repeat("x", 35)
	chunks := c.Split("ab " + run + " cd")

	// The separator-free run must appear unbroken in a single chunk.
	found := false
	for _, chunk := range chunks {
		if strings.Contains(chunk, run) {
			found = true
		}
	}
	assert.True(t, found, "atomic run should not be mid-broken")
	assert.Equal(t, "ab "+run+" cd", reconstruct(chunks, 0))
}

// reconstruct undoes the chunk overlap: each chunk after the first starts
// with up to overlap runes repeated from the accumulated text.
func reconstruct(chunks []string, overlap int) string {
	var sb strings.Builder
	for i, chunk := range chunks {
		if i == 0 {
			sb.WriteString(chunk)
			continue
		}
		runes := []rune(chunk)
		k := overlap
		if k > len(runes) {
			k = len(runes)
		}
		for k > 0 && !strings.HasSuffix(sb.String(), string(runes[:k])) {
			k--
		}
		sb.WriteString(string(runes[k:]))
	}
	return sb.String()
}
