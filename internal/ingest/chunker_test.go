package ingest

import (
	"strings"
	"testing"
)

func TestShortTextSingleChunk(t *testing.T) {
	chunks := ChunkText("a short document", DefaultChunkConfig())
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "a short document" || chunks[0].Index != 0 {
		t.Errorf("unexpected chunk %+v", chunks[0])
	}
}

func TestEmptyTextNoChunks(t *testing.T) {
	if got := ChunkText("   \n\t ", DefaultChunkConfig()); len(got) != 0 {
		t.Errorf("expected no chunks, got %d", len(got))
	}
}

func TestLongTextSplitsWithOverlap(t *testing.T) {
	words := make([]string, 600)
	for i := range words {
		words[i] = "word"
	}
	content := strings.Join(words, " ") // ~3000 chars

	cfg := ChunkConfig{ChunkSize: 1000, ChunkOverlap: 200, MinChunkSize: 50}
	chunks := ChunkText(content, cfg)

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks for ~3000 chars, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c.Content) > cfg.ChunkSize {
			t.Errorf("chunk %d exceeds max size: %d", i, len(c.Content))
		}
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
	}
}

func TestChunksDoNotSplitWords(t *testing.T) {
	words := make([]string, 400)
	for i := range words {
		words[i] = "sample"
	}
	content := strings.Join(words, " ")

	for _, c := range ChunkText(content, DefaultChunkConfig()) {
		for _, w := range strings.Fields(c.Content) {
			if w != "sample" {
				t.Fatalf("word split across chunk boundary: %q", w)
			}
		}
	}
}

func TestInvalidConfigNormalized(t *testing.T) {
	// Overlap >= size would loop forever if not clamped.
	cfg := ChunkConfig{ChunkSize: 100, ChunkOverlap: 100, MinChunkSize: 1}
	content := strings.Repeat("abcde ", 100)
	chunks := ChunkText(content, cfg)
	if len(chunks) == 0 {
		t.Fatal("expected chunks from non-empty input")
	}
}

func TestSampleCorpusShape(t *testing.T) {
	docs := SampleCorpus()
	if len(docs) != 5 {
		t.Fatalf("expected 5 sample documents, got %d", len(docs))
	}
	seen := map[string]bool{}
	for _, d := range docs {
		if d.Source == "" || strings.TrimSpace(d.Text) == "" {
			t.Errorf("sample doc missing source or text: %+v", d.Source)
		}
		if seen[d.Source] {
			t.Errorf("duplicate sample source %q", d.Source)
		}
		seen[d.Source] = true
	}
}
