package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
// Deterministic for identical input.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts in a single call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the
// decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// EmbedAll embeds each text in sequence via e, using BatchEmbed when the
// implementation supports it.
func EmbedAll(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	if be, ok := e.(BatchEmbedder); ok {
		return be.BatchEmbed(ctx, texts)
	}
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		res, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		vecs[i] = res.Embedding
	}
	return vecs, nil
}
