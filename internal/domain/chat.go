package domain

import "context"

// Chat message roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatMessage is one turn of a chat-completion request.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatFault describes why a chat call degraded to a placeholder. A non-nil
// fault marks the returned text as a mock/degraded response; callers log the
// fault but continue with the text.
type ChatFault struct {
	Source  string
	Kind    string
	Message string
}

// Fault kinds for degraded chat responses.
const (
	ChatFaultNoAPIKey      = "no_api_key"
	ChatFaultTransport     = "transport_error"
	ChatFaultEmptyResponse = "empty_response"
)

// ChatClient is the language-model capability. Chat never returns a Go error:
// on any failure it yields a clearly tagged placeholder string plus a fault
// descriptor, so a query can always proceed with a degraded answer.
type ChatClient interface {
	Chat(ctx context.Context, messages []ChatMessage, temperature float32, maxTokens int) (string, *ChatFault)
}
