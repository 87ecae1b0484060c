// Package arxiv queries the arXiv Atom API for recent papers.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nebulabyte/scout/internal/domain"
)

const defaultBaseURL = "http://export.arxiv.org/api/query"

// Client is an arXiv API client sorted by submission date, newest first.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates an arXiv client. baseURL overrides the production
// endpoint when non-empty (used in tests).
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// Search returns up to maxResults papers matching query.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.Paper, error) {
	if maxResults <= 0 {
		maxResults = 3
	}

	params := url.Values{
		"search_query": {"all:" + query},
		"start":        {"0"},
		"max_results":  {fmt.Sprintf("%d", maxResults)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("arxiv: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("arxiv: read response: %w", err)
	}

	papers, err := parseFeed(body)
	if err != nil {
		return nil, fmt.Errorf("arxiv: %w", err)
	}

	c.logger.Debug("arXiv search completed",
		zap.String("query", query), zap.Int("results", len(papers)))
	return papers, nil
}

// Atom feed shapes for the arXiv API response.
type feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []entry  `xml:"entry"`
}

type entry struct {
	ID        string   `xml:"id"`
	Title     string   `xml:"title"`
	Summary   string   `xml:"summary"`
	Published string   `xml:"published"`
	Authors   []author `xml:"author"`
}

type author struct {
	Name string `xml:"name"`
}

func parseFeed(body []byte) ([]domain.Paper, error) {
	var f feed
	if err := xml.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	papers := make([]domain.Paper, 0, len(f.Entries))
	for _, e := range f.Entries {
		p := domain.Paper{
			Title:   strings.TrimSpace(e.Title),
			Summary: strings.TrimSpace(e.Summary),
			URL:     e.ID,
		}
		for _, a := range e.Authors {
			p.Authors = append(p.Authors, a.Name)
		}
		if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
			p.Published = t
		}
		papers = append(papers, p)
	}
	return papers, nil
}
