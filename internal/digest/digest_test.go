package digest

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yufengw/ai-news-agent/internal/classify"
	"github.com/yufengw/ai-news-agent/internal/score"
	"github.com/yufengw/ai-news-agent/internal/store"
)

type stubGen struct {
	gotPrompt string
	text      string
	err       error
}

func (s *stubGen) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	s.gotPrompt = prompt
	return s.text, s.err
}

type stubSender struct {
	sent int
	err  error
}

func (s *stubSender) Send(ctx context.Context, subject, html string) error {
	s.sent++
	return s.err
}

func newTestGenerator(t *testing.T, gen TextGenerator, sender Sender) (*Generator, *store.Store) {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	scorer := score.NewScorer(classify.NewClassifier(nil))
	return NewGenerator(st, gen, scorer, sender), st
}

func TestGenerateEmptyPeriod(t *testing.T) {
	g, _ := newTestGenerator(t, &stubGen{}, nil)
	content, err := g.Generate(context.Background(), time.Now().UTC(), true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if content != emptyDigestMessage {
		t.Fatalf("expected empty-period message, got %q", content)
	}
}

func TestGenerateSavesAndFormatsByRank(t *testing.T) {
	gen := &stubGen{text: "# Digest"}
	g, st := newTestGenerator(t, gen, nil)
	now := time.Now().UTC()

	if _, err := st.SaveArticles([]store.Article{
		{URL: "u1", Title: "Low scorer", Source: "x", Score: 1, CrawledAt: now},
		{URL: "u2", Title: "High scorer", Source: "x", Score: 900, CrawledAt: now},
	}); err != nil {
		t.Fatalf("SaveArticles: %v", err)
	}

	content, err := g.Generate(context.Background(), now.Add(-time.Hour), true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if content != "# Digest" {
		t.Fatalf("expected synthesized content, got %q", content)
	}
	if !strings.Contains(gen.gotPrompt, "High scorer") {
		t.Fatal("prompt missing article")
	}
	high := strings.Index(gen.gotPrompt, "High scorer")
	low := strings.Index(gen.gotPrompt, "Low scorer")
	if high > low {
		t.Fatal("expected preference-ranked order in prompt")
	}

	digests, err := st.ListDigests(5)
	if err != nil {
		t.Fatalf("ListDigests: %v", err)
	}
	if len(digests) != 1 || digests[0].ArticleCount != 2 {
		t.Fatalf("expected saved digest with 2 articles, got %+v", digests)
	}
	if !digests[0].EmailedAt.IsZero() {
		t.Fatal("dry run must not stamp emailed_at")
	}
}

func TestGenerateSendsUnlessDryRun(t *testing.T) {
	sender := &stubSender{}
	g, st := newTestGenerator(t, &stubGen{text: "# Digest"}, sender)
	now := time.Now().UTC()
	if _, err := st.SaveArticles([]store.Article{{URL: "u1", Title: "T", Source: "x", CrawledAt: now}}); err != nil {
		t.Fatalf("SaveArticles: %v", err)
	}

	if _, err := g.Generate(context.Background(), now.Add(-time.Hour), false); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if sender.sent != 1 {
		t.Fatalf("expected 1 send, got %d", sender.sent)
	}
	digests, _ := st.ListDigests(1)
	if digests[0].EmailedAt.IsZero() {
		t.Fatal("expected emailed_at stamped after delivery")
	}
}

func TestGenerateSynthesisFailure(t *testing.T) {
	g, st := newTestGenerator(t, &stubGen{err: errors.New("overloaded")}, nil)
	now := time.Now().UTC()
	if _, err := st.SaveArticles([]store.Article{{URL: "u1", Title: "T", Source: "x", CrawledAt: now}}); err != nil {
		t.Fatalf("SaveArticles: %v", err)
	}
	if _, err := g.Generate(context.Background(), now.Add(-time.Hour), true); err == nil {
		t.Fatal("expected error when synthesis fails")
	}
}
