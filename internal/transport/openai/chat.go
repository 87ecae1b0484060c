package openai

import (
	"context"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/nebulabyte/scout/internal/domain"
	"github.com/nebulabyte/scout/internal/metrics"
)

// mockPreviewLen bounds how much of the user prompt a placeholder echoes back.
const mockPreviewLen = 200

// ChatClient calls an OpenAI-compatible chat-completions endpoint.
// It implements domain.ChatClient: calls never fail outward, they degrade to
// a tagged placeholder with a fault descriptor.
type ChatClient struct {
	client   *openai.Client
	model    string
	provider string
	enabled  bool
	logger   *zap.Logger
}

// ChatConfig holds the chat provider settings. An empty APIKey yields a
// client permanently in mock mode.
type ChatConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

var _ domain.ChatClient = (*ChatClient)(nil)

// NewChatClient creates a chat client for an OpenAI-compatible API.
func NewChatClient(cfg *ChatConfig) *ChatClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &ChatClient{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: cfg.Provider,
		enabled:  cfg.APIKey != "",
		logger:   cfg.Logger,
	}
}

// Enabled reports whether a real provider is configured. When false every
// call returns a mock placeholder.
func (c *ChatClient) Enabled() bool { return c.enabled }

// Chat implements domain.ChatClient.
func (c *ChatClient) Chat(
	ctx context.Context, messages []domain.ChatMessage, temperature float32, maxTokens int,
) (string, *domain.ChatFault) {
	if !c.enabled {
		metrics.ChatRequestsTotal.WithLabelValues(c.provider, "mock").Inc()
		return mockResponse(domain.ChatFaultNoAPIKey, messages), &domain.ChatFault{
			Source:  c.provider,
			Kind:    domain.ChatFaultNoAPIKey,
			Message: "chat provider API key not configured",
		}
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		c.logger.Warn("Chat completion failed",
			zap.String("provider", c.provider), zap.Error(err))
		return mockResponse(domain.ChatFaultTransport, messages), &domain.ChatFault{
			Source:  c.provider,
			Kind:    domain.ChatFaultTransport,
			Message: err.Error(),
		}
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.ChatRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		return mockResponse(domain.ChatFaultEmptyResponse, messages), &domain.ChatFault{
			Source:  c.provider,
			Kind:    domain.ChatFaultEmptyResponse,
			Message: "no text in chat completion response",
		}
	}

	metrics.ChatRequestsTotal.WithLabelValues(c.provider, "success").Inc()
	metrics.ChatRequestDuration.WithLabelValues(c.provider).Observe(duration.Seconds())

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// HealthCheck verifies API availability. A client in mock mode is considered
// healthy: mock responses are a supported capability state.
func (c *ChatClient) HealthCheck(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	if _, err := c.client.ListModels(ctx); err != nil {
		return err
	}
	return nil
}

// mockResponse builds the tagged placeholder returned on any failure,
// echoing a truncated copy of the user prompt.
func mockResponse(kind string, messages []domain.ChatMessage) string {
	var userContent string
	for _, m := range messages {
		if m.Role == domain.RoleUser {
			userContent = m.Content
			break
		}
	}
	if len(userContent) > mockPreviewLen {
		userContent = userContent[:mockPreviewLen]
	}
	return "[MOCK LLM RESPONSE - " + strings.ToUpper(kind) + "] " + userContent + "..."
}
