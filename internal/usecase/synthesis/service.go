// Package synthesis composes the final answer from collected evidence.
package synthesis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nebulabyte/scout/internal/domain"
)

const (
	// maxSnippets bounds the prompt size regardless of how much evidence
	// the agents produced.
	maxSnippets = 12

	synthesisTemp      = 0.3
	synthesisMaxTokens = 400
)

const systemPrompt = "You answer succinctly and cite sources."

// Service turns a query plus evidence snippets into one answer.
type Service struct {
	chat   domain.ChatClient
	logger *zap.Logger
}

// New creates a synthesis service.
func New(chat domain.ChatClient, logger *zap.Logger) *Service {
	return &Service{chat: chat, logger: logger}
}

// Synthesize builds the answer prompt and runs it through the chat client.
// The fault is non-nil when the answer is a degraded placeholder.
func (s *Service) Synthesize(ctx context.Context, query string, snippets []string) (string, *domain.ChatFault) {
	if len(snippets) > maxSnippets {
		snippets = snippets[:maxSnippets]
	}

	prompt := fmt.Sprintf(
		"You are a senior AI assistant. Given the user query and the evidence snippets, "+
			"write a concise, well-structured answer. Cite sources inline when possible.\n\n"+
			"Query: %s\n\nEvidence snippets (may include RAG passages, web results, arXiv summaries):\n- %s",
		query, strings.Join(snippets, "\n- "))

	answer, fault := s.chat.Chat(ctx, []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: systemPrompt},
		{Role: domain.RoleUser, Content: prompt},
	}, synthesisTemp, synthesisMaxTokens)

	if fault != nil {
		s.logger.Warn("Answer synthesis degraded",
			zap.String("kind", fault.Kind), zap.String("message", fault.Message))
	}
	return answer, fault
}
