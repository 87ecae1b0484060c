// Package router decides which evidence agents handle a query, preferring
// deterministic rule matching over an LLM call, with a hard default so a
// decision is always produced.
package router

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nebulabyte/scout/internal/domain"
	"github.com/nebulabyte/scout/internal/metrics"
)

// rule maps trigger phrases to one agent with a fixed rationale fragment.
type rule struct {
	agent     domain.AgentLabel
	phrases   []string
	rationale string
}

// rules is the rule-based routing table, tried in order. Phrase matching is
// case-insensitive substring containment.
var rules = []rule{
	{
		agent:   domain.AgentDocumentRetrieval,
		phrases: []string{"summarize", "summary", "uploaded", "document", "pdf"},
		rationale: "The query contains keywords related to document summarization " +
			"(e.g., 'summarize', 'uploaded', 'pdf'). The document retrieval agent is " +
			"specifically designed to extract information from indexed documents.",
	},
	{
		agent:   domain.AgentPaperSearch,
		phrases: []string{"recent papers", "arxiv", "paper", "research", "study", "publication"},
		rationale: "The query contains terms indicating interest in academic research " +
			"(e.g., 'papers', 'arxiv', 'research'). The paper search agent retrieves and " +
			"summarizes recent scholarly publications.",
	},
	{
		agent:   domain.AgentWebSearch,
		phrases: []string{"latest news", "recent developments", "news", "current", "today", "happening"},
		rationale: "The query contains phrases requesting real-time or current information " +
			"(e.g., 'latest news', 'recent developments'). The web search agent retrieves " +
			"the most up-to-date data from the web.",
	},
}

// Decision-prompt tuning. Low temperature keeps the fallback as deterministic
// as a generative call allows.
const (
	decisionTemperature = 0.2
	decisionMaxTokens   = 200
)

// Service is the routing decision core.
type Service struct {
	chat   domain.ChatClient
	logger *zap.Logger
}

// New creates a router.
func New(chat domain.ChatClient, logger *zap.Logger) *Service {
	return &Service{chat: chat, logger: logger}
}

// Decide resolves the agent set and rationale for a query. The chain is
// rules, then LLM, then the hard default, so the result is never empty.
// The returned fault, when non-nil, describes a degraded LLM decision call;
// it never aborts the decision.
func (s *Service) Decide(ctx context.Context, query string) (domain.RoutingDecision, *domain.ChatFault) {
	ruleAgents, ruleRationale := s.rulePass(query)
	if len(ruleAgents) > 0 {
		metrics.RoutingDecisionsTotal.WithLabelValues("rule").Inc()
		return domain.RoutingDecision{Agents: ruleAgents, Rationale: ruleRationale}, nil
	}

	llmAgents, llmRationale, fault := s.llmDecide(ctx, query)
	if len(llmAgents) > 0 {
		metrics.RoutingDecisionsTotal.WithLabelValues("llm").Inc()
		return domain.RoutingDecision{Agents: llmAgents, Rationale: llmRationale}, fault
	}

	metrics.RoutingDecisionsTotal.WithLabelValues("default").Inc()
	agents := []domain.AgentLabel{domain.AgentDocumentRetrieval}
	rationale := llmRationale
	if rationale == "" {
		rationale = fmt.Sprintf("Default routing to %s as no specific patterns were detected.",
			joinAgents(agents))
	}
	return domain.RoutingDecision{Agents: agents, Rationale: rationale}, fault
}

// rulePass runs the deterministic keyword pass. A query can match several
// rules; matches keep first-occurrence order and each agent appears once.
func (s *Service) rulePass(query string) ([]domain.AgentLabel, string) {
	q := strings.ToLower(query)

	var agents []domain.AgentLabel
	var fragments []string
	seen := map[domain.AgentLabel]bool{}

	for _, r := range rules {
		for _, phrase := range r.phrases {
			if !strings.Contains(q, phrase) {
				continue
			}
			if !seen[r.agent] {
				seen[r.agent] = true
				agents = append(agents, r.agent)
				fragments = append(fragments, r.rationale)
			}
			break
		}
	}

	return agents, strings.Join(fragments, " ")
}

// llmDecide asks the language model to pick agents when no rule matched.
// On an unparsable reply the agent list is empty and the raw model text is
// returned as the rationale; that is a legitimate outcome, not a failure.
func (s *Service) llmDecide(ctx context.Context, query string) ([]domain.AgentLabel, string, *domain.ChatFault) {
	prompt := fmt.Sprintf(
		"Analyze this query: %s. Decide which agents to call: %s, or a combination. "+
			"Provide rationale. Output JSON: {\"agents\": [\"%s\"], \"rationale\": \"string\"}",
		query, joinAgents(domain.AllAgents()), domain.AgentDocumentRetrieval,
	)

	content, fault := s.chat.Chat(ctx, []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "You are a helpful controller deciding which agents to call."},
		{Role: domain.RoleUser, Content: prompt},
	}, decisionTemperature, decisionMaxTokens)

	dec, ok := parseDecision(content)
	if !ok {
		s.logger.Debug("LLM decision unparsable, treating reply as rationale",
			zap.String("query", query))
		return nil, content, fault
	}
	return dec.agents, dec.rationale, fault
}

func joinAgents(agents []domain.AgentLabel) string {
	parts := make([]string, len(agents))
	for i, a := range agents {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}
