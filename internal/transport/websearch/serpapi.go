// Package websearch provides web-search providers consumed by the web
// evidence agent. Each provider maps one upstream API to the shared
// domain.WebResult shape.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nebulabyte/scout/internal/domain"
)

const (
	serpAPIEndpoint = "https://serpapi.com/search.json"
	maxResults      = 5
	requestTimeout  = 15 * time.Second
)

// SerpAPI queries the SerpAPI Google engine. Requires an API key.
type SerpAPI struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSerpAPI creates a SerpAPI provider. baseURL overrides the production
// endpoint when non-empty (used in tests).
func NewSerpAPI(apiKey, baseURL string) *SerpAPI {
	if baseURL == "" {
		baseURL = serpAPIEndpoint
	}
	return &SerpAPI{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// Name implements Provider.
func (s *SerpAPI) Name() string { return "serpapi" }

// Search implements Provider.
func (s *SerpAPI) Search(ctx context.Context, query string) ([]domain.WebResult, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("serpapi: API key missing")
	}

	params := url.Values{
		"engine":  {"google"},
		"q":       {query},
		"api_key": {s.apiKey},
		"num":     {fmt.Sprintf("%d", maxResults)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("serpapi: build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi: status %d", resp.StatusCode)
	}

	var payload struct {
		OrganicResults []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("serpapi: decode response: %w", err)
	}

	results := make([]domain.WebResult, 0, maxResults)
	for _, item := range payload.OrganicResults {
		if len(results) == maxResults {
			break
		}
		results = append(results, domain.WebResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
