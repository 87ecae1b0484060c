// Package ingest turns raw uploads into indexable text chunks and carries
// the bundled sample corpus.
package ingest

import (
	"strings"
)

// ChunkConfig configures how documents are split into chunks.
type ChunkConfig struct {
	ChunkSize    int // maximum chunk size in characters
	ChunkOverlap int // overlap between consecutive chunks
	MinChunkSize int // chunks shorter than this are merged or dropped
}

// DefaultChunkConfig returns the default chunk configuration.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		MinChunkSize: 50,
	}
}

// Chunk is one text chunk with its index within the source document.
type Chunk struct {
	Content string
	Index   int
}

// ChunkText splits content into overlapping chunks. Whitespace-only input
// yields no chunks; input shorter than the chunk size yields exactly one.
// Splits prefer whitespace boundaries near the window edge so words are not
// cut mid-token.
func ChunkText(content string, cfg ChunkConfig) []Chunk {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = cfg.ChunkSize / 5
	}
	if cfg.MinChunkSize <= 0 {
		cfg.MinChunkSize = 1
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	runes := []rune(content)
	if len(runes) <= cfg.ChunkSize {
		return []Chunk{{Content: content, Index: 0}}
	}

	var chunks []Chunk
	step := cfg.ChunkSize - cfg.ChunkOverlap
	for start := 0; start < len(runes); start += step {
		end := start + cfg.ChunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = splitPoint(runes, start, end)
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if len(piece) >= cfg.MinChunkSize {
			chunks = append(chunks, Chunk{Content: piece, Index: len(chunks)})
		}

		if end == len(runes) {
			break
		}
	}
	return chunks
}

// splitPoint walks back from end looking for a whitespace boundary, within a
// small window so a long unbroken token still splits.
func splitPoint(runes []rune, start, end int) int {
	const window = 100
	limit := end - window
	if limit < start+1 {
		limit = start + 1
	}
	for i := end; i > limit; i-- {
		if isSpace(runes[i-1]) {
			return i
		}
	}
	return end
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
