package localembed

import (
	"context"
	"math"
	"testing"
)

func TestDeterministic(t *testing.T) {
	e := New(64)
	a, err := e.Embed(context.Background(), "retrieval augmented generation")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, err := e.Embed(context.Background(), "retrieval augmented generation")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for i := range a.Embedding {
		if a.Embedding[i] != b.Embedding[i] {
			t.Fatalf("non-deterministic at %d: %f vs %f", i, a.Embedding[i], b.Embedding[i])
		}
	}
}

func TestNormalized(t *testing.T) {
	e := New(128)
	res, err := e.Embed(context.Background(), "vectors should have unit length")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	var norm float64
	for _, v := range res.Embedding {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("expected unit norm, got %f", norm)
	}
}

func TestSimilarTextsCloserThanUnrelated(t *testing.T) {
	e := New(256)
	ctx := context.Background()

	q, _ := e.Embed(ctx, "benefits of retrieval augmented generation")
	near, _ := e.Embed(ctx, "retrieval augmented generation grounds language models")
	far, _ := e.Embed(ctx, "pancake recipe with maple syrup")

	if cos(q.Embedding, near.Embedding) <= cos(q.Embedding, far.Embedding) {
		t.Error("overlapping vocabulary should score higher than unrelated text")
	}
}

func TestEmptyTextZeroVector(t *testing.T) {
	e := New(32)
	res, err := e.Embed(context.Background(), "")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for _, v := range res.Embedding {
		if v != 0 {
			t.Fatalf("empty text should produce the zero vector, got %v", res.Embedding)
		}
	}
}

func cos(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
