package store

import "time"

// #region article

// Article is a crawled news item. Immutable once stored except for the
// neutral summary, which is filled in asynchronously by the summarizer.
type Article struct {
	ID             string    `json:"id"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Source         string    `json:"source"`
	Author         string    `json:"author,omitempty"`
	Summary        string    `json:"summary,omitempty"`
	NeutralSummary string    `json:"neutral_summary,omitempty"`
	PublishedAt    string    `json:"published_at,omitempty"` // ISO 8601, empty when the source gives none
	CrawledAt      time.Time `json:"crawled_at"`
	Score          int64     `json:"score"` // source popularity (HN points, upvotes); 0 when absent
}

// #endregion article

// #region rating

// Rating is a user's verdict on an article. At most one per article,
// last write wins.
type Rating string

const (
	RatingUp      Rating = "up"
	RatingDown    Rating = "down"
	RatingNeutral Rating = "neutral"
)

// ParseRating validates a rating string at the boundary.
func ParseRating(s string) (Rating, bool) {
	switch Rating(s) {
	case RatingUp, RatingDown, RatingNeutral:
		return Rating(s), true
	}
	return "", false
}

// RatedArticle pairs an article with its rating for display.
type RatedArticle struct {
	Article
	Rating  Rating    `json:"rating"`
	RatedAt time.Time `json:"rated_at"`
}

// #endregion rating

// #region preference

// Preference categories. Every learned weight is keyed by (category, key).
const (
	CategorySource  = "source"
	CategoryTheme   = "theme"
	CategoryType    = "type"
	CategoryInsight = "insight"
)

// Categories lists the preference categories in display order.
var Categories = []string{CategorySource, CategoryTheme, CategoryType, CategoryInsight}

// PrefKey identifies a single learned preference.
type PrefKey struct {
	Category string
	Key      string
}

// Preference is a learned affinity for a tag or source. Weight stays in
// [-1.0, 1.0]; SampleCount counts learning updates that touched this key.
type Preference struct {
	Category    string  `json:"category"`
	Key         string  `json:"key"`
	Weight      float64 `json:"weight"`
	SampleCount int     `json:"sample_count"`
}

// #endregion preference

// #region digest

// Digest is a stored synthesis run.
type Digest struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Content      string    `json:"content"`
	ArticleCount int       `json:"article_count"`
	EmailedAt    time.Time `json:"emailed_at,omitempty"` // zero until sent
}

// #endregion digest
