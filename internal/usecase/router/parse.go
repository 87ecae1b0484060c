package router

import (
	"encoding/json"
	"strings"

	"github.com/nebulabyte/scout/internal/domain"
)

// parsedDecision is a successfully decoded LLM routing reply. Agent names
// outside the known enumeration are discarded silently.
type parsedDecision struct {
	agents    []domain.AgentLabel
	rationale string
}

// parseDecision extracts the first top-level brace-delimited JSON object from
// the model's free-text reply and decodes it. Models routinely wrap JSON in
// prose, so the surrounding text is ignored. Returns ok=false on any parse
// failure; the caller then treats the raw text as an explanatory rationale.
func parseDecision(raw string) (parsedDecision, bool) {
	payload, ok := extractObject(raw)
	if !ok {
		return parsedDecision{}, false
	}

	var decoded struct {
		Agents    []string `json:"agents"`
		Rationale string   `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return parsedDecision{}, false
	}

	dec := parsedDecision{rationale: decoded.Rationale}
	seen := map[string]bool{}
	for _, name := range decoded.Agents {
		if !domain.ValidAgent(name) || seen[name] {
			continue
		}
		seen[name] = true
		dec.agents = append(dec.agents, domain.AgentLabel(name))
	}
	return dec, true
}

// extractObject returns the first balanced top-level {...} substring.
func extractObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}
