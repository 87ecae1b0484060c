package papers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/nebulabyte/scout/internal/domain"
)

type stubSearcher struct {
	papers []domain.Paper
	err    error
	lastN  int
}

func (s *stubSearcher) Search(_ context.Context, _ string, maxResults int) ([]domain.Paper, error) {
	s.lastN = maxResults
	return s.papers, s.err
}

type stubChat struct {
	reply   string
	fault   *domain.ChatFault
	prompts []string
}

func (c *stubChat) Chat(_ context.Context, msgs []domain.ChatMessage, _ float32, _ int) (string, *domain.ChatFault) {
	c.prompts = append(c.prompts, msgs[len(msgs)-1].Content)
	return c.reply, c.fault
}

func TestSummarizesEachPaper(t *testing.T) {
	searcher := &stubSearcher{papers: []domain.Paper{
		{Title: "Attention Is All You Need", Summary: "We propose the Transformer."},
		{Title: "Retrieval-Augmented Generation", Summary: "RAG combines retrieval with generation."},
	}}
	chat := &stubChat{reply: "- bullet summary"}
	s := New(searcher, chat, zap.NewNop())

	papers, faults := s.Search(context.Background(), "transformers")
	if len(papers) != 2 {
		t.Fatalf("expected 2 papers, got %d", len(papers))
	}
	if len(faults) != 0 {
		t.Errorf("unexpected faults: %v", faults)
	}
	for _, p := range papers {
		if p.LLMSummary != "- bullet summary" {
			t.Errorf("paper %q missing summary", p.Title)
		}
	}
	if searcher.lastN != maxPapers {
		t.Errorf("expected search capped at %d, got %d", maxPapers, searcher.lastN)
	}
	if !strings.Contains(chat.prompts[0], "Title: Attention Is All You Need") {
		t.Errorf("summary prompt missing title: %q", chat.prompts[0])
	}
	if !strings.Contains(chat.prompts[0], "Abstract: We propose the Transformer.") {
		t.Errorf("summary prompt missing abstract: %q", chat.prompts[0])
	}
}

func TestSearchFailureYieldsEmpty(t *testing.T) {
	s := New(&stubSearcher{err: errors.New("arxiv unreachable")}, &stubChat{}, zap.NewNop())

	papers, faults := s.Search(context.Background(), "q")
	if papers != nil || faults != nil {
		t.Errorf("expected nil results on search failure, got %v / %v", papers, faults)
	}
}

func TestDegradedSummaryKeepsPaper(t *testing.T) {
	searcher := &stubSearcher{papers: []domain.Paper{{Title: "T", Summary: "A"}}}
	chat := &stubChat{
		reply: "[MOCK LLM RESPONSE - NO_API_KEY] Summarize the following...",
		fault: &domain.ChatFault{Kind: domain.ChatFaultNoAPIKey, Message: "no api key"},
	}
	s := New(searcher, chat, zap.NewNop())

	papers, faults := s.Search(context.Background(), "q")
	if len(papers) != 1 {
		t.Fatalf("degraded summary must not drop the paper, got %d", len(papers))
	}
	if papers[0].LLMSummary == "" {
		t.Error("paper must carry the placeholder summary")
	}
	if len(faults) != 1 || faults[0].Kind != domain.ChatFaultNoAPIKey {
		t.Errorf("expected one no_api_key fault, got %v", faults)
	}
}
