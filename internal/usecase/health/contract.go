package health

import "context"

// ChatChecker checks chat-provider availability.
type ChatChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingChecker checks embedding-provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks embedding-cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
