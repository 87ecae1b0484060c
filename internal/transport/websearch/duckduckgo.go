package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nebulabyte/scout/internal/domain"
)

const duckDuckGoEndpoint = "https://api.duckduckgo.com/"

// DuckDuckGo queries the DuckDuckGo Instant Answer API. No key required,
// which makes it the keyless fallback in the provider chain.
type DuckDuckGo struct {
	baseURL string
	client  *http.Client
}

// NewDuckDuckGo creates a DuckDuckGo provider. baseURL overrides the
// production endpoint when non-empty (used in tests).
func NewDuckDuckGo(baseURL string) *DuckDuckGo {
	if baseURL == "" {
		baseURL = duckDuckGoEndpoint
	}
	return &DuckDuckGo{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// Name implements Provider.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search implements Provider. The Instant Answer abstract, when present,
// leads the result list; related topics fill the rest.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]domain.WebResult, error) {
	params := url.Values{
		"q":             {query},
		"format":        {"json"},
		"no_html":       {"1"},
		"skip_disambig": {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo: status %d", resp.StatusCode)
	}

	var payload struct {
		AbstractText  string `json:"AbstractText"`
		AbstractURL   string `json:"AbstractURL"`
		RelatedTopics []struct {
			Text     string `json:"Text"`
			FirstURL string `json:"FirstURL"`
		} `json:"RelatedTopics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("duckduckgo: decode response: %w", err)
	}

	var results []domain.WebResult
	if payload.AbstractText != "" {
		results = append(results, domain.WebResult{
			Title:   "DuckDuckGo Abstract",
			Link:    payload.AbstractURL,
			Snippet: payload.AbstractText,
		})
	}
	for _, item := range payload.RelatedTopics {
		if len(results) == maxResults {
			break
		}
		if item.Text == "" {
			continue
		}
		results = append(results, domain.WebResult{
			Title:   item.Text,
			Link:    item.FirstURL,
			Snippet: item.Text,
		})
	}
	return results, nil
}
