package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2401.00001v1</id>
    <title> Multi-Agent Coordination
    </title>
    <summary> We study coordination strategies among cooperating agents. </summary>
    <published>2024-01-02T18:30:00Z</published>
    <author><name>A. Researcher</name></author>
    <author><name>B. Scholar</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2401.00002v1</id>
    <title>Retrieval for LLMs</title>
    <summary>Grounding generation with retrieval.</summary>
    <published>not-a-date</published>
    <author><name>C. Author</name></author>
  </entry>
</feed>`

func TestSearchParsesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("search_query") != "all:multi-agent" {
			t.Errorf("unexpected search_query %q", q.Get("search_query"))
		}
		if q.Get("sortBy") != "submittedDate" {
			t.Errorf("unexpected sortBy %q", q.Get("sortBy"))
		}
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	papers, err := c.Search(context.Background(), "multi-agent", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("expected 2 papers, got %d", len(papers))
	}

	first := papers[0]
	if first.Title != "Multi-Agent Coordination" {
		t.Errorf("title not trimmed: %q", first.Title)
	}
	if len(first.Authors) != 2 || first.Authors[1] != "B. Scholar" {
		t.Errorf("unexpected authors %v", first.Authors)
	}
	if first.Published.IsZero() {
		t.Error("expected parsed publication date")
	}

	// A malformed date degrades to the zero time, not an error.
	if !papers[1].Published.IsZero() {
		t.Errorf("expected zero time for malformed date, got %v", papers[1].Published)
	}
}

func TestSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	if _, err := c.Search(context.Background(), "q", 3); err == nil {
		t.Error("expected error on upstream failure")
	}
}

func TestSearchMalformedFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not xml}"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	if _, err := c.Search(context.Background(), "q", 3); err == nil {
		t.Error("expected error on malformed feed")
	}
}
