package learn

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/yufengw/ai-news-agent/internal/classify"
	"github.com/yufengw/ai-news-agent/internal/logging"
	"github.com/yufengw/ai-news-agent/internal/score"
	"github.com/yufengw/ai-news-agent/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewEngine(s, classify.NewClassifier(nil)), s
}

func saveArticle(t *testing.T, s *store.Store, a store.Article) {
	t.Helper()
	if _, err := s.SaveArticles([]store.Article{a}); err != nil {
		t.Fatalf("SaveArticles: %v", err)
	}
}

func TestNeutralIsNoOp(t *testing.T) {
	e, s := newTestEngine(t)
	saveArticle(t, s, store.Article{ID: "a1", URL: "u1", Title: "Open source release", Source: "hackernews"})

	if err := e.Learn(context.Background(), "a1", store.RatingNeutral); err != nil {
		t.Fatalf("Learn: %v", err)
	}

	prefs, err := s.GetAllPreferences()
	if err != nil {
		t.Fatalf("GetAllPreferences: %v", err)
	}
	if len(prefs) != 0 {
		t.Fatalf("neutral rating changed %d preferences", len(prefs))
	}
}

func TestUnknownArticleIsSilentNoOp(t *testing.T) {
	e, s := newTestEngine(t)

	if err := e.Learn(context.Background(), "no-such-id", store.RatingUp); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	prefs, _ := s.GetAllPreferences()
	if len(prefs) != 0 {
		t.Fatalf("lookup miss changed %d preferences", len(prefs))
	}
}

func TestLearnUpTouchesEveryCategory(t *testing.T) {
	e, s := newTestEngine(t)
	saveArticle(t, s, store.Article{
		ID: "a1", URL: "u1",
		Title:  "New Open Source LLM Released",
		Source: "hackernews",
	})

	if err := e.Learn(context.Background(), "a1", store.RatingUp); err != nil {
		t.Fatalf("Learn: %v", err)
	}

	checks := []struct {
		category string
		key      string
	}{
		{store.CategorySource, "hackernews"},
		{store.CategoryTheme, "open_source"},
		{store.CategoryType, "news"}, // no type keyword matches, default applies
	}
	for _, c := range checks {
		p, ok, err := s.GetPreference(c.category, c.key)
		if err != nil {
			t.Fatalf("GetPreference %s/%s: %v", c.category, c.key, err)
		}
		if !ok {
			t.Fatalf("expected preference %s/%s created", c.category, c.key)
		}
		if math.Abs(p.Weight-LearningRate) > 1e-9 {
			t.Fatalf("%s/%s: expected weight %f, got %f", c.category, c.key, LearningRate, p.Weight)
		}
		if p.SampleCount != 1 {
			t.Fatalf("%s/%s: expected sample_count 1, got %d", c.category, c.key, p.SampleCount)
		}
	}
}

func TestLearnDownAppliesNegativeDelta(t *testing.T) {
	e, s := newTestEngine(t)
	saveArticle(t, s, store.Article{ID: "a1", URL: "u1", Title: "Plain title", Source: "reddit"})

	if err := e.Learn(context.Background(), "a1", store.RatingDown); err != nil {
		t.Fatalf("Learn: %v", err)
	}
	p, ok, err := s.GetPreference(store.CategorySource, "reddit")
	if err != nil || !ok {
		t.Fatalf("GetPreference: ok=%v err=%v", ok, err)
	}
	if math.Abs(p.Weight+LearningRate) > 1e-9 {
		t.Fatalf("expected weight %f, got %f", -LearningRate, p.Weight)
	}
}

func TestRateRejectsInvalidRating(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Rate(context.Background(), "a1", "sideways"); err == nil {
		t.Fatal("expected validation error for invalid rating")
	}
}

func TestLearnWritesLearningLog(t *testing.T) {
	e, s := newTestEngine(t)
	saveArticle(t, s, store.Article{ID: "a1", URL: "u1", Title: "Open source release", Source: "hackernews"})

	if err := e.Learn(context.Background(), "a1", store.RatingUp); err != nil {
		t.Fatalf("Learn: %v", err)
	}

	events, err := logging.ListEvents(s.DB(), 50)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected learning events logged")
	}
	for _, ev := range events {
		if ev.ArticleID != "a1" || ev.Rating != "up" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	}
}

// TestTenUpsScenario walks the end-to-end scenario: ten consecutive up
// ratings on one article push its source weight to the clamp and past the
// activation thresholds, so the score includes source, theme, type, and
// popularity contributions.
func TestTenUpsScenario(t *testing.T) {
	e, s := newTestEngine(t)
	article := store.Article{
		ID:     "a1",
		URL:    "u1",
		Title:  "New Open Source LLM Released",
		Source: "hackernews",
		Score:  100,
	}
	saveArticle(t, s, article)

	for i := 0; i < 10; i++ {
		if err := e.Learn(context.Background(), "a1", store.RatingUp); err != nil {
			t.Fatalf("Learn %d: %v", i, err)
		}
	}

	srcPref, ok, err := s.GetPreference(store.CategorySource, "hackernews")
	if err != nil || !ok {
		t.Fatalf("GetPreference: ok=%v err=%v", ok, err)
	}
	if srcPref.SampleCount != 10 {
		t.Fatalf("expected sample_count 10, got %d", srcPref.SampleCount)
	}
	if srcPref.Weight < 0.99 || srcPref.Weight > 1.0 {
		t.Fatalf("expected weight at the clamp, got %f", srcPref.Weight)
	}

	prefs, err := s.GetAllPreferences()
	if err != nil {
		t.Fatalf("GetAllPreferences: %v", err)
	}
	scorer := score.NewScorer(classify.NewClassifier(nil))
	got := scorer.Score(context.Background(), article, prefs)
	if got < 2.1 {
		t.Fatalf("expected score >= 2.1 (source 2.0 + popularity 0.1 at minimum), got %f", got)
	}

	// After reset only the popularity baseline survives.
	if err := s.ResetPreferences(); err != nil {
		t.Fatalf("ResetPreferences: %v", err)
	}
	prefs, _ = s.GetAllPreferences()
	got = scorer.Score(context.Background(), article, prefs)
	if math.Abs(got-0.1) > 1e-9 {
		t.Fatalf("expected bare popularity baseline 0.1 after reset, got %f", got)
	}
}
