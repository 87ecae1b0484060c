// Package vectorstore provides an in-memory cosine-similarity index over
// embedded document chunks.
package vectorstore

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/nebulabyte/scout/internal/domain"
)

// Store maps embedding vectors to documents. Vectors are normalized on
// insertion so search reduces to a dot product. Documents are owned by the
// store once added and never mutated.
type Store struct {
	mu      sync.RWMutex
	dim     int
	vectors [][]float32
	docs    []domain.Document
}

// New creates a store for vectors of the given dimension.
func New(dim int) *Store {
	return &Store{dim: dim}
}

// Dim returns the vector dimension the store was created with.
func (s *Store) Dim() int { return s.dim }

// Len returns the number of indexed documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Add indexes docs under their embedding vectors. The two slices must have
// equal length and every vector must match the store dimension; a mismatch
// returns domain.ErrVectorDimMismatch and nothing is inserted.
func (s *Store) Add(vectors [][]float32, docs []domain.Document) error {
	if len(vectors) != len(docs) {
		return fmt.Errorf("vectors/docs length mismatch: %d vs %d", len(vectors), len(docs))
	}
	for i, v := range vectors {
		if len(v) != s.dim {
			return fmt.Errorf("vector %d has dim %d, store dim %d: %w",
				i, len(v), s.dim, domain.ErrVectorDimMismatch)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range vectors {
		s.vectors = append(s.vectors, normalize(v))
		s.docs = append(s.docs, docs[i])
	}
	return nil
}

// Search returns up to k candidates ranked by cosine similarity to query,
// highest first. Returns fewer than k entries if the store holds fewer
// documents, and an empty slice if it is empty.
func (s *Store) Search(query []float32, k int) ([]domain.ScoredCandidate, error) {
	if len(query) != s.dim {
		return nil, fmt.Errorf("query has dim %d, store dim %d: %w",
			len(query), s.dim, domain.ErrVectorDimMismatch)
	}
	if k <= 0 {
		k = 1
	}

	q := normalize(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]domain.ScoredCandidate, len(s.docs))
	for i, v := range s.vectors {
		candidates[i] = domain.ScoredCandidate{
			Score:    float64(dot(q, v)),
			Document: s.docs[i],
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// normalize returns a unit-length copy of v. Zero vectors are treated as
// having norm 1 to avoid division by zero.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
