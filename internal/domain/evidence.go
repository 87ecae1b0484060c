package domain

import "time"

// EvidenceItem is one piece of evidence collected from an agent during a
// single query. Lifetime is one request; a truncated list is persisted on
// the trace entry.
type EvidenceItem struct {
	Agent   AgentLabel `json:"agent"`
	Title   string     `json:"title,omitempty"`
	Link    string     `json:"link,omitempty"`
	Snippet string     `json:"snippet"`
	Score   float64    `json:"score,omitempty"`
	Source  string     `json:"source,omitempty"`
}

// WebResult is one hit from a web-search provider.
type WebResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Paper is one academic paper returned by the paper-search agent.
type Paper struct {
	Title      string    `json:"title"`
	Authors    []string  `json:"authors"`
	Summary    string    `json:"summary"`
	Published  time.Time `json:"published"`
	URL        string    `json:"url"`
	LLMSummary string    `json:"llm_summary"`
}
