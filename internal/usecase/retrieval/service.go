// Package retrieval implements the document evidence agent: semantic search
// over embedded chunks, re-ranked by provenance and recency, plus ingestion
// of uploads and the sample corpus.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/nebulabyte/scout/internal/domain"
	"github.com/nebulabyte/scout/internal/ingest"
)

// Ranking constants. Over-fetching 3x before re-ranking lets the boosts
// promote a fresh upload past several older, purely-similar seed chunks
// without a full corpus scan.
const (
	overFetchFactor = 3
	defaultTopK     = 5

	// uploadBoost is added for genuine user uploads (not the seed corpus).
	uploadBoost = 0.3
	// recencyBoost decays linearly from its full value at ingestion time
	// to zero at recencyWindow, floored at zero.
	recencyBoost  = 0.2
	recencyWindow = 168 * time.Hour
)

// Service is the retrieval agent.
type Service struct {
	store    VectorStore
	embedder domain.Embedder
	chunkCfg ingest.ChunkConfig
	logger   *zap.Logger

	// now is swappable for deterministic ranking tests.
	now func() time.Time
}

// New creates a retrieval service.
func New(store VectorStore, embedder domain.Embedder, chunkCfg ingest.ChunkConfig, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		embedder: embedder,
		chunkCfg: chunkCfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Retrieve embeds the query, over-fetches candidates and returns the top k
// after provenance/recency re-ranking. k < 1 falls back to the default.
func (s *Service) Retrieve(ctx context.Context, query string, k int) ([]domain.RankedResult, error) {
	if k < 1 {
		k = defaultTopK
	}

	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := s.store.Search(emb.Embedding, k*overFetchFactor)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	ranked := rerank(candidates, s.now())
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked, nil
}

// rerank derives adjusted scores from the base similarities. Base scores are
// read, never mutated; the output ordering is the contract.
func rerank(candidates []domain.ScoredCandidate, now time.Time) []domain.RankedResult {
	ranked := make([]domain.RankedResult, len(candidates))
	for i, c := range candidates {
		ranked[i] = domain.RankedResult{
			Score:    c.Score + provenanceBonus(c.Document) + recencyBonus(c.Document, now),
			Document: c.Document,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func provenanceBonus(doc domain.Document) float64 {
	if doc.Sample {
		return 0
	}
	return uploadBoost
}

// recencyBonus rewards fresh ingestion: full boost at age zero, linear decay
// to zero over the window, never negative. Documents without a positive
// timestamp (the seed corpus) get nothing.
func recencyBonus(doc domain.Document, now time.Time) float64 {
	if doc.IngestedAt <= 0 {
		return 0
	}
	age := now.Sub(time.Unix(doc.IngestedAt, 0))
	if age < 0 {
		age = 0
	}
	bonus := recencyBoost * (1 - age.Hours()/recencyWindow.Hours())
	if bonus < 0 {
		return 0
	}
	return bonus
}

// IngestText chunks, embeds and indexes text as a user upload under the
// given source name. Returns the number of chunks indexed.
func (s *Service) IngestText(ctx context.Context, source, text string) (int, error) {
	chunks := ingest.ChunkText(text, s.chunkCfg)
	if len(chunks) == 0 {
		return 0, domain.ErrNoText
	}

	texts := make([]string, len(chunks))
	docs := make([]domain.Document, len(chunks))
	ingestedAt := s.now().Unix()
	for i, c := range chunks {
		texts[i] = c.Content
		docs[i] = domain.Document{
			Text:       c.Content,
			Source:     source,
			Chunk:      c.Index,
			IngestedAt: ingestedAt,
			Sample:     false,
		}
	}

	vectors, err := domain.EmbedAll(ctx, s.embedder, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if err := s.store.Add(vectors, docs); err != nil {
		return 0, fmt.Errorf("index chunks: %w", err)
	}

	s.logger.Info("Document ingested",
		zap.String("source", source), zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// SeedSampleCorpus indexes the bundled sample dialogs with zero timestamps
// and the sample flag, so they never receive ranking bonuses.
func (s *Service) SeedSampleCorpus(ctx context.Context) error {
	samples := ingest.SampleCorpus()

	var texts []string
	var docs []domain.Document
	for _, sample := range samples {
		for _, c := range ingest.ChunkText(sample.Text, s.chunkCfg) {
			texts = append(texts, c.Content)
			docs = append(docs, domain.Document{
				Text:       c.Content,
				Source:     sample.Source,
				Chunk:      c.Index,
				IngestedAt: 0,
				Sample:     true,
			})
		}
	}
	if len(docs) == 0 {
		return nil
	}

	vectors, err := domain.EmbedAll(ctx, s.embedder, texts)
	if err != nil {
		return fmt.Errorf("embed sample corpus: %w", err)
	}
	if err := s.store.Add(vectors, docs); err != nil {
		return fmt.Errorf("index sample corpus: %w", err)
	}

	s.logger.Info("Sample corpus indexed", zap.Int("chunks", len(docs)))
	return nil
}

// IndexedChunks returns the number of chunks currently indexed.
func (s *Service) IndexedChunks() int { return s.store.Len() }
