package openai

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/nebulabyte/scout/internal/domain"
)

func TestChatMockModeOnMissingKey(t *testing.T) {
	c := NewChatClient(&ChatConfig{
		APIKey:   "",
		Model:    "llama-3.3-70b-versatile",
		Provider: "groq",
		Logger:   zap.NewNop(),
	})

	if c.Enabled() {
		t.Fatal("client without API key must not be enabled")
	}

	text, fault := c.Chat(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "You are a helpful controller."},
		{Role: domain.RoleUser, Content: "What is the latest news?"},
	}, 0.2, 100)

	if fault == nil {
		t.Fatal("expected a fault in mock mode")
	}
	if fault.Kind != domain.ChatFaultNoAPIKey {
		t.Errorf("expected fault kind %q, got %q", domain.ChatFaultNoAPIKey, fault.Kind)
	}
	if !strings.HasPrefix(text, "[MOCK LLM RESPONSE - NO_API_KEY]") {
		t.Errorf("unexpected placeholder %q", text)
	}
	if !strings.Contains(text, "What is the latest news?") {
		t.Errorf("placeholder should echo the user prompt, got %q", text)
	}
}

func TestMockResponseTruncatesLongPrompt(t *testing.T) {
	long := strings.Repeat("x", 500)
	text := mockResponse(domain.ChatFaultTransport, []domain.ChatMessage{
		{Role: domain.RoleUser, Content: long},
	})
	if len(text) > len("[MOCK LLM RESPONSE - TRANSPORT_ERROR] ")+mockPreviewLen+3 {
		t.Errorf("placeholder not truncated: %d chars", len(text))
	}
}

func TestHealthCheckMockModeIsHealthy(t *testing.T) {
	c := NewChatClient(&ChatConfig{Provider: "groq", Logger: zap.NewNop()})
	if err := c.HealthCheck(context.Background()); err != nil {
		t.Errorf("mock-mode client should be healthy, got %v", err)
	}
}
