// Package ask orchestrates one full query cycle: route, fan out to the
// chosen evidence agents, synthesize an answer and record the trace.
package ask

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nebulabyte/scout/internal/domain"
	"github.com/nebulabyte/scout/internal/metrics"
)

const (
	// evidenceCap bounds how much evidence one trace entry persists.
	evidenceCap = 20
	// snippetLimit truncates long document chunks before they enter the
	// synthesis prompt and the trace.
	snippetLimit = 500
)

// Router produces the routing decision for a query.
type Router interface {
	Decide(ctx context.Context, query string) (domain.RoutingDecision, *domain.ChatFault)
}

// DocumentRetriever is the document evidence agent.
type DocumentRetriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]domain.RankedResult, error)
}

// WebSearcher is the web evidence agent.
type WebSearcher interface {
	Search(ctx context.Context, query string) []domain.WebResult
}

// PaperSearcher is the academic evidence agent.
type PaperSearcher interface {
	Search(ctx context.Context, query string) ([]domain.Paper, []*domain.ChatFault)
}

// Synthesizer composes the final answer from evidence snippets.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, snippets []string) (string, *domain.ChatFault)
}

// TraceRecorder persists completed query cycles.
type TraceRecorder interface {
	Record(entry domain.TraceEntry)
}

// Result is the answer to one query.
type Result struct {
	Answer     string
	AgentsUsed []domain.AgentLabel
	Rationale  string
	TraceID    string
}

// Service is the query orchestrator.
type Service struct {
	router    Router
	retriever DocumentRetriever
	web       WebSearcher
	papers    PaperSearcher
	synth     Synthesizer
	recorder  TraceRecorder
	topK      int
	logger    *zap.Logger

	now func() time.Time
}

// Config wires the orchestrator's collaborators.
type Config struct {
	Router    Router
	Retriever DocumentRetriever
	Web       WebSearcher
	Papers    PaperSearcher
	Synth     Synthesizer
	Recorder  TraceRecorder
	TopK      int
	Logger    *zap.Logger
}

// New creates the orchestrator.
func New(cfg Config) *Service {
	return &Service{
		router:    cfg.Router,
		retriever: cfg.Retriever,
		web:       cfg.Web,
		papers:    cfg.Papers,
		synth:     cfg.Synth,
		recorder:  cfg.Recorder,
		topK:      cfg.TopK,
		logger:    cfg.Logger,
		now:       time.Now,
	}
}

// agentOutcome is one agent's slot in the fan-out. Slots are pre-allocated
// in decision order so concurrent agents never reorder evidence.
type agentOutcome struct {
	evidence []domain.EvidenceItem
	errors   []domain.TraceError
}

// Ask runs the full cycle for one query. Degraded steps (mock LLM replies,
// failed web providers, missing summaries) are folded into the trace; the
// only hard failures are an empty query and a retrieval-pipeline error.
func (s *Service) Ask(ctx context.Context, clientID, query string) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, domain.ErrEmptyQuery
	}
	started := s.now()

	decision, decisionFault := s.router.Decide(ctx, query)

	var traceErrors []domain.TraceError
	if decisionFault != nil {
		traceErrors = append(traceErrors, faultToTraceError("decision", decisionFault))
	}

	outcomes := make([]agentOutcome, len(decision.Agents))
	g, gctx := errgroup.WithContext(ctx)
	for i, agent := range decision.Agents {
		i, agent := i, agent
		g.Go(func() error {
			outcome, err := s.invoke(gctx, agent, query)
			if err != nil {
				return fmt.Errorf("agent %s: %w", agent, err)
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var evidence []domain.EvidenceItem
	for _, o := range outcomes {
		evidence = append(evidence, o.evidence...)
		traceErrors = append(traceErrors, o.errors...)
	}

	snippets := make([]string, len(evidence))
	for i, e := range evidence {
		snippets[i] = fmt.Sprintf("[%s] %s", e.Source, e.Snippet)
	}

	answer, synthFault := s.synth.Synthesize(ctx, query, snippets)
	if synthFault != nil {
		traceErrors = append(traceErrors, faultToTraceError("synthesis", synthFault))
	}

	entry := domain.TraceEntry{
		ID:        uuid.NewString(),
		Timestamp: started.UTC(),
		ClientID:  clientID,
		Query:     query,
		Decision:  decision,
		Agents:    decision.Agents,
		Evidence:  capEvidence(evidence),
		Answer:    answer,
		LatencyMS: s.now().Sub(started).Milliseconds(),
		Errors:    traceErrors,
	}
	s.recorder.Record(entry)

	s.logger.Info("Query answered",
		zap.String("trace_id", entry.ID),
		zap.Any("agents", decision.Agents),
		zap.Int("evidence", len(evidence)),
		zap.Int("degraded_steps", len(traceErrors)),
		zap.Int64("latency_ms", entry.LatencyMS))

	return Result{
		Answer:     answer,
		AgentsUsed: decision.Agents,
		Rationale:  decision.Rationale,
		TraceID:    entry.ID,
	}, nil
}

// invoke dispatches one agent. Soft failures come back as trace errors on
// the outcome; only the retrieval pipeline can fail hard.
func (s *Service) invoke(ctx context.Context, agent domain.AgentLabel, query string) (agentOutcome, error) {
	switch agent {
	case domain.AgentDocumentRetrieval:
		return s.invokeRetrieval(ctx, query)
	case domain.AgentWebSearch:
		return s.invokeWeb(ctx, query), nil
	case domain.AgentPaperSearch:
		return s.invokePapers(ctx, query), nil
	default:
		s.logger.Warn("Unknown agent in decision", zap.String("agent", string(agent)))
		return agentOutcome{}, nil
	}
}

func (s *Service) invokeRetrieval(ctx context.Context, query string) (agentOutcome, error) {
	ranked, err := s.retriever.Retrieve(ctx, query, s.topK)
	if err != nil {
		metrics.AgentInvocationsTotal.WithLabelValues(string(domain.AgentDocumentRetrieval), "error").Inc()
		return agentOutcome{}, err
	}
	recordInvocation(domain.AgentDocumentRetrieval, len(ranked))

	var out agentOutcome
	for _, r := range ranked {
		out.evidence = append(out.evidence, domain.EvidenceItem{
			Agent:   domain.AgentDocumentRetrieval,
			Title:   fmt.Sprintf("%s (chunk %d)", r.Document.Source, r.Document.Chunk),
			Snippet: truncate(r.Document.Text, snippetLimit),
			Score:   r.Score,
			Source:  r.Document.Source,
		})
	}
	return out, nil
}

func (s *Service) invokeWeb(ctx context.Context, query string) agentOutcome {
	results := s.web.Search(ctx, query)
	recordInvocation(domain.AgentWebSearch, len(results))

	var out agentOutcome
	for _, r := range results {
		out.evidence = append(out.evidence, domain.EvidenceItem{
			Agent:   domain.AgentWebSearch,
			Title:   r.Title,
			Link:    r.Link,
			Snippet: truncate(r.Snippet, snippetLimit),
			Source:  "web",
		})
	}
	return out
}

func (s *Service) invokePapers(ctx context.Context, query string) agentOutcome {
	papers, faults := s.papers.Search(ctx, query)
	recordInvocation(domain.AgentPaperSearch, len(papers))

	var out agentOutcome
	for _, p := range papers {
		snippet := p.LLMSummary
		if snippet == "" {
			snippet = p.Summary
		}
		out.evidence = append(out.evidence, domain.EvidenceItem{
			Agent:   domain.AgentPaperSearch,
			Title:   p.Title,
			Link:    p.URL,
			Snippet: truncate(snippet, snippetLimit),
			Source:  "arxiv",
		})
	}
	for _, f := range faults {
		out.errors = append(out.errors, faultToTraceError(string(domain.AgentPaperSearch), f))
	}
	return out
}

func recordInvocation(agent domain.AgentLabel, results int) {
	status := "ok"
	if results == 0 {
		status = "empty"
	}
	metrics.AgentInvocationsTotal.WithLabelValues(string(agent), status).Inc()
}

func faultToTraceError(stage string, f *domain.ChatFault) domain.TraceError {
	return domain.TraceError{
		Stage:   stage,
		Source:  f.Source,
		Kind:    f.Kind,
		Message: f.Message,
	}
}

func capEvidence(evidence []domain.EvidenceItem) []domain.EvidenceItem {
	if len(evidence) > evidenceCap {
		return evidence[:evidenceCap]
	}
	return evidence
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
