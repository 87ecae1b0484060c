package synthesis

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/nebulabyte/scout/internal/domain"
)

type stubChat struct {
	reply      string
	fault      *domain.ChatFault
	lastPrompt string
	lastTemp   float32
	lastTokens int
}

func (c *stubChat) Chat(_ context.Context, msgs []domain.ChatMessage, temp float32, maxTokens int) (string, *domain.ChatFault) {
	c.lastPrompt = msgs[len(msgs)-1].Content
	c.lastTemp = temp
	c.lastTokens = maxTokens
	return c.reply, c.fault
}

func TestPromptContainsQueryAndSnippets(t *testing.T) {
	chat := &stubChat{reply: "final answer"}
	s := New(chat, zap.NewNop())

	answer, fault := s.Synthesize(context.Background(), "what is vector search?",
		[]string{"cosine similarity ranks documents", "HNSW is an ANN index"})

	if answer != "final answer" || fault != nil {
		t.Fatalf("unexpected answer %q fault %v", answer, fault)
	}
	if !strings.Contains(chat.lastPrompt, "Query: what is vector search?") {
		t.Errorf("prompt missing query: %q", chat.lastPrompt)
	}
	if !strings.Contains(chat.lastPrompt, "- cosine similarity ranks documents") {
		t.Errorf("prompt missing first snippet: %q", chat.lastPrompt)
	}
	if !strings.Contains(chat.lastPrompt, "- HNSW is an ANN index") {
		t.Errorf("prompt missing second snippet: %q", chat.lastPrompt)
	}
	if chat.lastTemp != synthesisTemp || chat.lastTokens != synthesisMaxTokens {
		t.Errorf("unexpected sampling params temp=%f tokens=%d", chat.lastTemp, chat.lastTokens)
	}
}

func TestSnippetCap(t *testing.T) {
	chat := &stubChat{reply: "ok"}
	s := New(chat, zap.NewNop())

	snippets := make([]string, 30)
	for i := range snippets {
		snippets[i] = strings.Repeat("x", 5)
	}
	snippets[maxSnippets] = "overflow-marker"

	s.Synthesize(context.Background(), "q", snippets)
	if strings.Contains(chat.lastPrompt, "overflow-marker") {
		t.Errorf("snippets beyond the cap must not reach the prompt")
	}
	if got := strings.Count(chat.lastPrompt, "\n- "); got != maxSnippets-1 {
		t.Errorf("expected %d snippet separators, got %d", maxSnippets-1, got)
	}
}

func TestDegradedFaultPassedThrough(t *testing.T) {
	chat := &stubChat{
		reply: "[MOCK LLM RESPONSE - NO_API_KEY] You are a senior AI assistant...",
		fault: &domain.ChatFault{Kind: domain.ChatFaultNoAPIKey},
	}
	s := New(chat, zap.NewNop())

	answer, fault := s.Synthesize(context.Background(), "q", []string{"snippet"})
	if fault == nil || fault.Kind != domain.ChatFaultNoAPIKey {
		t.Errorf("expected no_api_key fault, got %v", fault)
	}
	if !strings.HasPrefix(answer, "[MOCK LLM RESPONSE") {
		t.Errorf("expected placeholder answer, got %q", answer)
	}
}
