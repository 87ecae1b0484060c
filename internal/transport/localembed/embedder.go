// Package localembed provides a deterministic, fully offline embedder used
// when no embedding provider is configured. It hashes word features into a
// fixed-size vector: crude semantically, but stable across calls, which keeps
// retrieval, ranking and the whole query path functional in degraded mode.
package localembed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/nebulabyte/scout/internal/domain"
)

// Embedder maps text to a normalized feature-hash vector.
type Embedder struct {
	dim int
}

var _ domain.Embedder = (*Embedder)(nil)

// New creates a local embedder of the given dimension.
func New(dim int) *Embedder {
	if dim <= 0 {
		dim = 256
	}
	return &Embedder{dim: dim}
}

// Dim returns the output vector dimension.
func (e *Embedder) Dim() int { return e.dim }

// HealthCheck implements the health contract. The local embedder has no
// external dependency and is always available.
func (e *Embedder) HealthCheck(_ context.Context) error { return nil }

// Embed implements domain.Embedder. Identical input always yields an
// identical vector; no tokens are consumed.
func (e *Embedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	vec := make([]float32, e.dim)

	for _, tok := range tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum32()
		idx := int(sum % uint32(e.dim))
		// Sign bit from the hash spreads tokens across both directions,
		// reducing collisions into pure accumulation.
		if sum&0x80000000 != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := 1 / math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) * inv)
		}
	}

	return domain.EmbeddingResult{Embedding: vec}, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
