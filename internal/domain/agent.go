package domain

// AgentLabel names one evidence agent. The string value is the wire and
// prompt representation.
type AgentLabel string

// The known evidence agents.
const (
	// AgentDocumentRetrieval searches the indexed document corpus.
	AgentDocumentRetrieval AgentLabel = "DocumentRetrieval"
	// AgentWebSearch queries live web-search providers.
	AgentWebSearch AgentLabel = "WebSearch"
	// AgentPaperSearch queries arXiv and summarizes hits.
	AgentPaperSearch AgentLabel = "PaperSearch"
)

// AllAgents enumerates every known agent. This is the single authoritative
// list: routing prompts, validation and dispatch all derive from it.
func AllAgents() []AgentLabel {
	return []AgentLabel{AgentDocumentRetrieval, AgentWebSearch, AgentPaperSearch}
}

// ValidAgent reports whether name is a known agent label.
func ValidAgent(name string) bool {
	for _, a := range AllAgents() {
		if string(a) == name {
			return true
		}
	}
	return false
}

// RoutingDecision is the outcome of the routing stage: which agents to call
// and a human-readable explanation of why.
type RoutingDecision struct {
	Agents    []AgentLabel `json:"agents"`
	Rationale string       `json:"rationale"`
}
