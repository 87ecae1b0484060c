package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status        Status
	Checks        map[string]CheckResult
	IndexedChunks int
}

// IndexSizer reports how many chunks the vector index holds.
type IndexSizer interface {
	IndexedChunks() int
}

// Service coordinates health checks. A failing component degrades the report
// but the service keeps answering queries with placeholders, so there is no
// hard-down state to report.
type Service struct {
	chat      ChatChecker
	embedding EmbeddingChecker
	cache     CachePinger
	index     IndexSizer
}

// New creates a Service. cache can be nil when the embedding cache is
// disabled.
func New(chat ChatChecker, embedding EmbeddingChecker, cache CachePinger, index IndexSizer) *Service {
	return &Service{chat: chat, embedding: embedding, cache: cache, index: index}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.chat.HealthCheck(ctx); err != nil {
		checks["chat"] = CheckError
	} else {
		checks["chat"] = CheckOK
	}

	if err := s.embedding.HealthCheck(ctx); err != nil {
		checks["embedding"] = CheckError
	} else {
		checks["embedding"] = CheckOK
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks, IndexedChunks: s.index.IndexedChunks()}
}
