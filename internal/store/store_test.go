package store

import (
	"math"
	"path/filepath"
	"testing"
	"time"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveArticlesSkipsDuplicateURLs(t *testing.T) {
	s := tempDB(t)

	first := []Article{
		{URL: "https://example.com/a", Title: "A", Source: "hackernews", Score: 42},
		{URL: "https://example.com/b", Title: "B", Source: "arxiv"},
	}
	saved, err := s.SaveArticles(first)
	if err != nil {
		t.Fatalf("SaveArticles: %v", err)
	}
	if saved != 2 {
		t.Fatalf("expected 2 saved, got %d", saved)
	}

	again, err := s.SaveArticles([]Article{
		{URL: "https://example.com/a", Title: "A again", Source: "hackernews"},
		{URL: "https://example.com/c", Title: "C", Source: "reddit"},
	})
	if err != nil {
		t.Fatalf("SaveArticles: %v", err)
	}
	if again != 1 {
		t.Fatalf("expected 1 saved on duplicate batch, got %d", again)
	}
}

func TestGetArticlesSinceOrdersByScore(t *testing.T) {
	s := tempDB(t)
	now := time.Now().UTC()

	_, err := s.SaveArticles([]Article{
		{URL: "u1", Title: "low", Source: "hackernews", Score: 5, CrawledAt: now},
		{URL: "u2", Title: "high", Source: "hackernews", Score: 500, CrawledAt: now},
		{URL: "u3", Title: "old", Source: "hackernews", Score: 900, CrawledAt: now.Add(-48 * time.Hour)},
	})
	if err != nil {
		t.Fatalf("SaveArticles: %v", err)
	}

	got, err := s.GetArticlesSince(now.Add(-time.Hour), "")
	if err != nil {
		t.Fatalf("GetArticlesSince: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	if got[0].Title != "high" {
		t.Fatalf("expected score ordering, got %s first", got[0].Title)
	}
}

func TestRatingUpsertLastWriteWins(t *testing.T) {
	s := tempDB(t)
	if _, err := s.SaveArticles([]Article{{ID: "art-1", URL: "u1", Title: "T", Source: "x"}}); err != nil {
		t.Fatalf("SaveArticles: %v", err)
	}

	if err := s.SaveRating("art-1", RatingUp); err != nil {
		t.Fatalf("SaveRating: %v", err)
	}
	if err := s.SaveRating("art-1", RatingDown); err != nil {
		t.Fatalf("SaveRating again: %v", err)
	}

	r, ok, err := s.GetRating("art-1")
	if err != nil {
		t.Fatalf("GetRating: %v", err)
	}
	if !ok || r != RatingDown {
		t.Fatalf("expected down, got %v (ok=%v)", r, ok)
	}
}

func TestSaveRatingRejectsInvalidValue(t *testing.T) {
	s := tempDB(t)
	if err := s.SaveRating("art-1", Rating("meh")); err == nil {
		t.Fatal("expected validation error for invalid rating")
	}
}

func TestUnratedArticles(t *testing.T) {
	s := tempDB(t)
	now := time.Now().UTC()
	_, err := s.SaveArticles([]Article{
		{ID: "a1", URL: "u1", Title: "rated", Source: "x", CrawledAt: now},
		{ID: "a2", URL: "u2", Title: "unrated", Source: "x", CrawledAt: now},
	})
	if err != nil {
		t.Fatalf("SaveArticles: %v", err)
	}
	if err := s.SaveRating("a1", RatingUp); err != nil {
		t.Fatalf("SaveRating: %v", err)
	}

	unrated, err := s.GetUnratedArticles(now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("GetUnratedArticles: %v", err)
	}
	if len(unrated) != 1 || unrated[0].ID != "a2" {
		t.Fatalf("expected only a2 unrated, got %+v", unrated)
	}
}

func TestUpdatePreferenceCreatesWithClampedDelta(t *testing.T) {
	s := tempDB(t)

	p, err := s.UpdatePreference(CategoryTheme, "agents", 0.1)
	if err != nil {
		t.Fatalf("UpdatePreference: %v", err)
	}
	if math.Abs(p.Weight-0.1) > 1e-9 {
		t.Fatalf("expected weight 0.1, got %f", p.Weight)
	}
	if p.SampleCount != 1 {
		t.Fatalf("expected sample_count 1, got %d", p.SampleCount)
	}
}

func TestUpdatePreferenceClampsUnderAdversarialSequence(t *testing.T) {
	s := tempDB(t)

	var p Preference
	var err error
	for i := 0; i < 100; i++ {
		p, err = s.UpdatePreference(CategorySource, "hackernews", 0.1)
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
		if p.Weight < -1.0 || p.Weight > 1.0 {
			t.Fatalf("weight %f out of bounds at update %d", p.Weight, i)
		}
	}
	if p.Weight != 1.0 {
		t.Fatalf("expected weight clamped to 1.0 after 100 ups, got %f", p.Weight)
	}
	if p.SampleCount != 100 {
		t.Fatalf("expected sample_count 100, got %d", p.SampleCount)
	}

	for i := 0; i < 300; i++ {
		p, err = s.UpdatePreference(CategorySource, "hackernews", -0.1)
		if err != nil {
			t.Fatalf("down update %d: %v", i, err)
		}
		if p.Weight < -1.0 || p.Weight > 1.0 {
			t.Fatalf("weight %f out of bounds at down update %d", p.Weight, i)
		}
	}
	if p.Weight != -1.0 {
		t.Fatalf("expected weight clamped to -1.0, got %f", p.Weight)
	}
	if p.SampleCount != 400 {
		t.Fatalf("expected sample_count 400, got %d", p.SampleCount)
	}
}

func TestSampleCountIncrementsRegardlessOfSign(t *testing.T) {
	s := tempDB(t)
	deltas := []float64{0.1, -0.1, 0.1, -0.1}
	for i, d := range deltas {
		p, err := s.UpdatePreference(CategoryType, "news", d)
		if err != nil {
			t.Fatalf("UpdatePreference: %v", err)
		}
		if p.SampleCount != i+1 {
			t.Fatalf("expected sample_count %d, got %d", i+1, p.SampleCount)
		}
	}
}

func TestResetPreferences(t *testing.T) {
	s := tempDB(t)
	if _, err := s.UpdatePreference(CategoryTheme, "agents", 0.1); err != nil {
		t.Fatalf("UpdatePreference: %v", err)
	}
	if err := s.ResetPreferences(); err != nil {
		t.Fatalf("ResetPreferences: %v", err)
	}
	prefs, err := s.GetAllPreferences()
	if err != nil {
		t.Fatalf("GetAllPreferences: %v", err)
	}
	if len(prefs) != 0 {
		t.Fatalf("expected empty store after reset, got %d entries", len(prefs))
	}
}

func TestPreferenceStatsOrderedByAbsWeight(t *testing.T) {
	s := tempDB(t)
	for i := 0; i < 3; i++ {
		if _, err := s.UpdatePreference(CategoryTheme, "agents", 0.1); err != nil {
			t.Fatalf("UpdatePreference: %v", err)
		}
	}
	for i := 0; i < 5; i++ {
		if _, err := s.UpdatePreference(CategoryTheme, "funding", -0.1); err != nil {
			t.Fatalf("UpdatePreference: %v", err)
		}
	}

	stats, err := s.PreferenceStats(0)
	if err != nil {
		t.Fatalf("PreferenceStats: %v", err)
	}
	themes := stats[CategoryTheme]
	if len(themes) != 2 {
		t.Fatalf("expected 2 theme prefs, got %d", len(themes))
	}
	if themes[0].Key != "funding" {
		t.Fatalf("expected funding first (|weight| 0.5 > 0.3), got %s", themes[0].Key)
	}
}

func TestDigestLifecycle(t *testing.T) {
	s := tempDB(t)

	d, err := s.SaveDigest("# Digest\ncontent", 7)
	if err != nil {
		t.Fatalf("SaveDigest: %v", err)
	}
	if err := s.MarkDigestEmailed(d.ID); err != nil {
		t.Fatalf("MarkDigestEmailed: %v", err)
	}

	digests, err := s.ListDigests(10)
	if err != nil {
		t.Fatalf("ListDigests: %v", err)
	}
	if len(digests) != 1 {
		t.Fatalf("expected 1 digest, got %d", len(digests))
	}
	if digests[0].ArticleCount != 7 {
		t.Fatalf("expected article_count 7, got %d", digests[0].ArticleCount)
	}
	if digests[0].EmailedAt.IsZero() {
		t.Fatal("expected emailed_at stamped")
	}
}

func TestSetNeutralSummary(t *testing.T) {
	s := tempDB(t)
	if _, err := s.SaveArticles([]Article{{ID: "a1", URL: "u1", Title: "T", Source: "x"}}); err != nil {
		t.Fatalf("SaveArticles: %v", err)
	}
	if err := s.SetNeutralSummary("a1", "A neutral take."); err != nil {
		t.Fatalf("SetNeutralSummary: %v", err)
	}
	a, err := s.GetArticleByID("a1")
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	if a.NeutralSummary != "A neutral take." {
		t.Fatalf("expected neutral summary persisted, got %q", a.NeutralSummary)
	}
}
