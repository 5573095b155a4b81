package score

// #region imports
import (
	"context"
	"sort"

	"github.com/yufengw/ai-news-agent/internal/classify"
	"github.com/yufengw/ai-news-agent/internal/store"
)

// #endregion

// #region weights

// Per-category multipliers and activation thresholds. Sources need more
// samples before they are trusted (a noisy label rated a handful of times
// would otherwise dominate); content-derived tags are shared across many
// articles and activate sooner. Multipliers encode relative trust: source
// and type dominate the noisier keyword-derived theme/insight signals.
const (
	SourceMultiplier  = 2.0
	ThemeMultiplier   = 1.0
	TypeMultiplier    = 1.5
	InsightMultiplier = 0.5

	SourceActivation = 10
	TagActivation    = 5

	// PopularityFactor keeps the source's own score a small baseline signal.
	PopularityFactor = 0.001
)

// #endregion weights

// #region scorer

// Scorer ranks articles against a preference snapshot.
type Scorer struct {
	classifier *classify.Classifier
}

// NewScorer creates a Scorer using the given classifier for tag derivation.
func NewScorer(classifier *classify.Classifier) *Scorer {
	return &Scorer{classifier: classifier}
}

// Score derives the article's tags and scores it against the snapshot.
func (s *Scorer) Score(ctx context.Context, article store.Article, prefs map[store.PrefKey]store.Preference) float64 {
	tags := s.classifier.Classify(ctx, article.Title, article.Summary)
	return ScoreTags(article, tags, prefs)
}

// #endregion scorer

// #region score-tags

// ScoreTags is a pure function of the article, its derived tags, and a
// preference snapshot. Signals are additive and independent; a preference
// below its category's activation threshold contributes nothing.
func ScoreTags(article store.Article, tags classify.Tags, prefs map[store.PrefKey]store.Preference) float64 {
	total := 0.0

	if p, ok := prefs[store.PrefKey{Category: store.CategorySource, Key: article.Source}]; ok && p.SampleCount >= SourceActivation {
		total += p.Weight * SourceMultiplier
	}

	for _, theme := range tags.Themes {
		if p, ok := prefs[store.PrefKey{Category: store.CategoryTheme, Key: theme}]; ok && p.SampleCount >= TagActivation {
			total += p.Weight * ThemeMultiplier
		}
	}

	if p, ok := prefs[store.PrefKey{Category: store.CategoryType, Key: tags.Type}]; ok && p.SampleCount >= TagActivation {
		total += p.Weight * TypeMultiplier
	}

	for _, insight := range tags.Insights {
		if p, ok := prefs[store.PrefKey{Category: store.CategoryInsight, Key: insight}]; ok && p.SampleCount >= TagActivation {
			total += p.Weight * InsightMultiplier
		}
	}

	total += float64(article.Score) * PopularityFactor
	return total
}

// #endregion score-tags

// #region rank

// Ranked pairs an article with its relevance score.
type Ranked struct {
	store.Article
	Relevance float64 `json:"relevance"`
}

// Rank scores a candidate list and returns it best-first. The sort is
// stable, so ties keep their original relative order; that ordering decides
// which articles survive truncation to a top-N.
func (s *Scorer) Rank(ctx context.Context, articles []store.Article, prefs map[store.PrefKey]store.Preference) []Ranked {
	ranked := make([]Ranked, len(articles))
	for i, a := range articles {
		ranked[i] = Ranked{Article: a, Relevance: s.Score(ctx, a, prefs)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Relevance > ranked[j].Relevance
	})
	return ranked
}

// Top returns the best n of a ranked list.
func Top(ranked []Ranked, n int) []Ranked {
	if len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}

// #endregion rank
