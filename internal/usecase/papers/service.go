// Package papers is the academic evidence agent: arXiv search plus an LLM
// summary per paper.
package papers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nebulabyte/scout/internal/domain"
)

const (
	maxPapers        = 3
	summaryTemp      = 0.2
	summaryMaxTokens = 200
)

const summarySystemPrompt = "You are a concise scientific assistant."

// Searcher finds papers for a query.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]domain.Paper, error)
}

// Service is the paper-search agent.
type Service struct {
	searcher Searcher
	chat     domain.ChatClient
	logger   *zap.Logger
}

// New creates a paper-search service.
func New(searcher Searcher, chat domain.ChatClient, logger *zap.Logger) *Service {
	return &Service{searcher: searcher, chat: chat, logger: logger}
}

// Search fetches up to three papers and attaches an LLM summary to each.
// A search failure yields an empty slice; summary faults are reported but
// never drop the paper, since the abstract itself is still evidence.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Paper, []*domain.ChatFault) {
	found, err := s.searcher.Search(ctx, query, maxPapers)
	if err != nil {
		s.logger.Warn("Paper search failed", zap.Error(err))
		return nil, nil
	}

	var faults []*domain.ChatFault
	for i := range found {
		summary, fault := s.summarize(ctx, found[i])
		found[i].LLMSummary = summary
		if fault != nil {
			faults = append(faults, fault)
		}
	}

	s.logger.Info("Paper search completed",
		zap.Int("papers", len(found)), zap.Int("summary_faults", len(faults)))
	return found, faults
}

func (s *Service) summarize(ctx context.Context, p domain.Paper) (string, *domain.ChatFault) {
	prompt := fmt.Sprintf(
		"Summarize the following paper abstract in 3-4 bullet points:\n\nTitle: %s\n\nAbstract: %s",
		p.Title, p.Summary)

	return s.chat.Chat(ctx, []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: summarySystemPrompt},
		{Role: domain.RoleUser, Content: prompt},
	}, summaryTemp, summaryMaxTokens)
}
