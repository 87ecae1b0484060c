// Package websearch is the web evidence agent: an ordered chain of search
// providers tried until one returns results.
package websearch

import (
	"context"

	"go.uber.org/zap"

	"github.com/nebulabyte/scout/internal/domain"
)

// Provider is one web-search backend in the fallback chain.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]domain.WebResult, error)
}

// Service tries providers in order. The chain is data: adding a provider is
// appending to the slice, not another branch.
type Service struct {
	providers []Provider
	logger    *zap.Logger
}

// New creates a web-search agent over the given provider chain.
func New(providers []Provider, logger *zap.Logger) *Service {
	return &Service{providers: providers, logger: logger}
}

// Search returns results from the first provider that succeeds with a
// non-empty list. Total failure yields an empty slice, never an error:
// missing web evidence degrades the answer, not the query.
func (s *Service) Search(ctx context.Context, query string) []domain.WebResult {
	for _, p := range s.providers {
		results, err := p.Search(ctx, query)
		if err != nil {
			s.logger.Warn("Web search provider failed",
				zap.String("provider", p.Name()), zap.Error(err))
			continue
		}
		if len(results) == 0 {
			s.logger.Debug("Web search provider returned nothing",
				zap.String("provider", p.Name()))
			continue
		}
		s.logger.Info("Web search completed",
			zap.String("provider", p.Name()), zap.Int("results", len(results)))
		return results
	}
	return nil
}
