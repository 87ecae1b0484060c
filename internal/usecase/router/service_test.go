package router

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/nebulabyte/scout/internal/domain"
)

// --- Mocks ---

type mockChat struct {
	reply  string
	fault  *domain.ChatFault
	called bool
}

func (m *mockChat) Chat(
	_ context.Context, _ []domain.ChatMessage, _ float32, _ int,
) (string, *domain.ChatFault) {
	m.called = true
	return m.reply, m.fault
}

func newService(chat *mockChat) *Service {
	return New(chat, zap.NewNop())
}

func agentsEqual(got []domain.AgentLabel, want ...domain.AgentLabel) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// --- Rule pass ---

func TestRulePassDocumentKeywords(t *testing.T) {
	for _, query := range []string{
		"Summarize the uploaded file",
		"what does the PDF say",
		"key points of this document",
		"give me a summary",
	} {
		chat := &mockChat{}
		dec, _ := newService(chat).Decide(context.Background(), query)
		if !agentsEqual(dec.Agents, domain.AgentDocumentRetrieval) {
			t.Errorf("query %q: expected [DocumentRetrieval], got %v", query, dec.Agents)
		}
		if chat.called {
			t.Errorf("query %q: rule match must not call the LLM", query)
		}
		if dec.Rationale == "" {
			t.Errorf("query %q: expected a rationale", query)
		}
	}
}

func TestRulePassPaperKeywords(t *testing.T) {
	for _, query := range []string{
		"find arxiv preprints on transformers",
		"a recent study on sleep",
		"research about quantum computing",
		"any new publication on RLHF",
	} {
		dec, _ := newService(&mockChat{}).Decide(context.Background(), query)
		if !agentsEqual(dec.Agents, domain.AgentPaperSearch) {
			t.Errorf("query %q: expected [PaperSearch], got %v", query, dec.Agents)
		}
	}
}

func TestRulePassWebKeywords(t *testing.T) {
	for _, query := range []string{
		"What are the latest news about X?",
		"recent developments in fusion energy",
		"what is happening in the markets",
	} {
		dec, _ := newService(&mockChat{}).Decide(context.Background(), query)
		if !agentsEqual(dec.Agents, domain.AgentWebSearch) {
			t.Errorf("query %q: expected [WebSearch], got %v", query, dec.Agents)
		}
	}
}

func TestRulePassScenarioPaperOnly(t *testing.T) {
	dec, _ := newService(&mockChat{}).Decide(context.Background(),
		"Show me recent papers on multi-agent AI")
	if !agentsEqual(dec.Agents, domain.AgentPaperSearch) {
		t.Errorf("expected [PaperSearch], got %v", dec.Agents)
	}
}

func TestRulePassMultipleAgentsOrdered(t *testing.T) {
	dec, _ := newService(&mockChat{}).Decide(context.Background(),
		"summarize the latest news research")
	want := []domain.AgentLabel{
		domain.AgentDocumentRetrieval,
		domain.AgentPaperSearch,
		domain.AgentWebSearch,
	}
	if !agentsEqual(dec.Agents, want...) {
		t.Errorf("expected %v, got %v", want, dec.Agents)
	}
}

func TestRulePassDeduplicates(t *testing.T) {
	// "summarize", "summary", "pdf" and "document" all trigger the same agent.
	dec, _ := newService(&mockChat{}).Decide(context.Background(),
		"summarize this pdf document and give a summary")
	if !agentsEqual(dec.Agents, domain.AgentDocumentRetrieval) {
		t.Errorf("expected single [DocumentRetrieval], got %v", dec.Agents)
	}
}

func TestRulePassCaseInsensitive(t *testing.T) {
	dec, _ := newService(&mockChat{}).Decide(context.Background(), "SUMMARIZE THE PDF")
	if !agentsEqual(dec.Agents, domain.AgentDocumentRetrieval) {
		t.Errorf("expected [DocumentRetrieval], got %v", dec.Agents)
	}
}

// --- LLM fallback ---

func TestLLMFallbackParsed(t *testing.T) {
	chat := &mockChat{
		reply: `Sure! Here is my decision:
{"agents": ["WebSearch", "PaperSearch"], "rationale": "needs both web and papers"}`,
	}
	dec, fault := newService(chat).Decide(context.Background(), "how do birds navigate")
	if !chat.called {
		t.Fatal("expected LLM fallback for unmatched query")
	}
	if fault != nil {
		t.Errorf("unexpected fault %+v", fault)
	}
	if !agentsEqual(dec.Agents, domain.AgentWebSearch, domain.AgentPaperSearch) {
		t.Errorf("expected [WebSearch PaperSearch], got %v", dec.Agents)
	}
	if dec.Rationale != "needs both web and papers" {
		t.Errorf("expected verbatim LLM rationale, got %q", dec.Rationale)
	}
}

func TestLLMFallbackDiscardsHallucinatedAgents(t *testing.T) {
	chat := &mockChat{
		reply: `{"agents": ["WikipediaAgent", "WebSearch", "Oracle"], "rationale": "mixed"}`,
	}
	dec, _ := newService(chat).Decide(context.Background(), "how do birds navigate")
	if !agentsEqual(dec.Agents, domain.AgentWebSearch) {
		t.Errorf("hallucinated labels must be dropped silently, got %v", dec.Agents)
	}
}

func TestLLMFallbackUnparsableFallsToDefault(t *testing.T) {
	chat := &mockChat{reply: "I think you should probably just search the web."}
	dec, _ := newService(chat).Decide(context.Background(), "how do birds navigate")
	if !agentsEqual(dec.Agents, domain.AgentDocumentRetrieval) {
		t.Errorf("expected default [DocumentRetrieval], got %v", dec.Agents)
	}
	// The raw model text carries through as the rationale.
	if dec.Rationale != "I think you should probably just search the web." {
		t.Errorf("expected raw reply as rationale, got %q", dec.Rationale)
	}
}

func TestLLMFallbackEmptyAgentsGetsDefault(t *testing.T) {
	chat := &mockChat{reply: `{"agents": [], "rationale": ""}`}
	dec, _ := newService(chat).Decide(context.Background(), "how do birds navigate")
	if !agentsEqual(dec.Agents, domain.AgentDocumentRetrieval) {
		t.Errorf("expected default [DocumentRetrieval], got %v", dec.Agents)
	}
	if dec.Rationale == "" {
		t.Error("expected generated default rationale")
	}
}

func TestLLMUnavailableStillDecides(t *testing.T) {
	chat := &mockChat{
		reply: "[MOCK LLM RESPONSE - NO_API_KEY] Analyze this query...",
		fault: &domain.ChatFault{Source: "groq", Kind: domain.ChatFaultNoAPIKey, Message: "no key"},
	}
	dec, fault := newService(chat).Decide(context.Background(), "how do birds navigate")
	if len(dec.Agents) == 0 {
		t.Fatal("decision must never be empty")
	}
	if !agentsEqual(dec.Agents, domain.AgentDocumentRetrieval) {
		t.Errorf("expected default agent, got %v", dec.Agents)
	}
	if fault == nil || fault.Kind != domain.ChatFaultNoAPIKey {
		t.Errorf("expected the chat fault to surface for tracing, got %+v", fault)
	}
}
