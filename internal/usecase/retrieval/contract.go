package retrieval

import "github.com/nebulabyte/scout/internal/domain"

// VectorStore is the nearest-neighbor capability consumed by the ranker.
type VectorStore interface {
	Add(vectors [][]float32, docs []domain.Document) error
	Search(query []float32, k int) ([]domain.ScoredCandidate, error)
	Len() int
}
