package domain

import "time"

// TraceError is a structured descriptor of a degraded step inside one query.
type TraceError struct {
	Stage   string `json:"stage"`
	Source  string `json:"source"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// TraceEntry is one persisted audit record of a full query-to-answer cycle.
// Append-only: once recorded it is never mutated.
type TraceEntry struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	ClientID  string          `json:"client_id"`
	Query     string          `json:"query"`
	Decision  RoutingDecision `json:"decision"`
	Agents    []AgentLabel    `json:"agents_called"`
	Evidence  []EvidenceItem  `json:"evidence"`
	Answer    string          `json:"answer"`
	LatencyMS int64           `json:"latency_ms"`
	Errors    []TraceError    `json:"errors,omitempty"`
}
