package learn

// #region imports
import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yufengw/ai-news-agent/internal/classify"
	"github.com/yufengw/ai-news-agent/internal/logging"
	"github.com/yufengw/ai-news-agent/internal/store"
)

// #endregion

// #region constants

// LearningRate is the fixed delta magnitude applied per rating. Every update
// is bounded: the store clamps weights to [-1.0, 1.0], no normalization,
// no decay, no momentum.
const LearningRate = 0.1

// #endregion constants

// #region engine

// Engine converts rating events into preference updates across the four
// categories (source, theme, type, insight).
type Engine struct {
	store      *store.Store
	classifier *classify.Classifier
}

// NewEngine creates a learning engine over the given store and classifier.
func NewEngine(st *store.Store, classifier *classify.Classifier) *Engine {
	return &Engine{store: st, classifier: classifier}
}

// #endregion engine

// #region rate

// Rate validates and persists a rating, then runs the learning update.
// This is the entry point for the CLI and dashboard.
func (e *Engine) Rate(ctx context.Context, articleID, rating string) error {
	r, ok := store.ParseRating(rating)
	if !ok {
		return fmt.Errorf("invalid rating: %q (want up, down, or neutral)", rating)
	}
	if err := e.store.SaveRating(articleID, r); err != nil {
		return err
	}
	return e.Learn(ctx, articleID, r)
}

// #endregion rate

// #region learn

// Learn applies the preference deltas for one rating event. Neutral ratings
// are a no-op. An unknown article is a recoverable lookup miss, ignored
// silently. Store failures propagate.
func (e *Engine) Learn(ctx context.Context, articleID string, rating store.Rating) error {
	if rating == store.RatingNeutral {
		return nil
	}

	article, err := e.store.GetArticleByID(articleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve article: %w", err)
	}

	signal := 1.0
	if rating == store.RatingDown {
		signal = -1.0
	}
	delta := signal * LearningRate

	if err := e.apply(articleID, rating, store.CategorySource, article.Source, delta); err != nil {
		return err
	}

	tags := e.classifier.Classify(ctx, article.Title, article.Summary)
	for _, theme := range tags.Themes {
		if err := e.apply(articleID, rating, store.CategoryTheme, theme, delta); err != nil {
			return err
		}
	}
	if err := e.apply(articleID, rating, store.CategoryType, tags.Type, delta); err != nil {
		return err
	}
	for _, insight := range tags.Insights {
		if err := e.apply(articleID, rating, store.CategoryInsight, insight, delta); err != nil {
			return err
		}
	}
	return nil
}

// #endregion learn

// #region apply

// apply runs one preference update and records it in the learning log.
func (e *Engine) apply(articleID string, rating store.Rating, category, key string, delta float64) error {
	pref, err := e.store.UpdatePreference(category, key, delta)
	if err != nil {
		return err
	}
	return logging.LogEvent(e.store.DB(), logging.LearningEvent{
		EventID:          uuid.New().String(),
		ArticleID:        articleID,
		Rating:           string(rating),
		Category:         category,
		Key:              key,
		Delta:            delta,
		WeightAfter:      pref.Weight,
		SampleCountAfter: pref.SampleCount,
	})
}

// #endregion apply
