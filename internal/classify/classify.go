package classify

// #region imports
import (
	"context"
	"strings"
)

// #endregion

// #region fallback

// FallbackRequest asks the external classification service for labels from a
// fixed vocabulary when the keyword pass comes up empty.
type FallbackRequest struct {
	Title    string
	Summary  string
	Category string // "themes", "type", or "insights"
	Options  []string
}

// Fallback is a single-shot remote classification call. Implementations
// return at most 3 labels drawn from Options; any transport or parse failure
// must surface as an error, which the classifier treats as "no tags".
type Fallback interface {
	Classify(ctx context.Context, req FallbackRequest) ([]string, error)
}

// #endregion fallback

// #region classifier

// Classifier derives theme, type, and insight tags for an article.
// The keyword pass always runs first and takes precedence; the remote
// fallback fires only when keywords produce nothing for a category.
type Classifier struct {
	fallback Fallback
}

// NewClassifier creates a Classifier. fallback may be nil, in which case
// unmatched categories stay empty.
func NewClassifier(fallback Fallback) *Classifier {
	return &Classifier{fallback: fallback}
}

// Tags holds the full derived tag set for an article.
type Tags struct {
	Themes   []string
	Type     string
	Insights []string
}

// Classify derives all three tag categories at once.
func (c *Classifier) Classify(ctx context.Context, title, summary string) Tags {
	return Tags{
		Themes:   c.Themes(ctx, title, summary),
		Type:     c.Type(ctx, title, summary),
		Insights: c.Insights(ctx, title, summary),
	}
}

// #endregion classifier

// #region themes

// Themes returns up to 3 theme tags.
func (c *Classifier) Themes(ctx context.Context, title, summary string) []string {
	themes := matchKeywords(title, summary, themeVocab)
	if len(themes) == 0 {
		themes = c.classifyRemote(ctx, title, summary, "themes", ThemeTags())
	}
	return capTags(themes, 3)
}

// #endregion themes

// #region type

// Type returns exactly one type tag, defaulting to "news".
func (c *Classifier) Type(ctx context.Context, title, summary string) string {
	text := lowerText(title, summary)
	for _, entry := range typeVocab {
		if anyKeyword(text, entry.keywords) {
			return entry.tag
		}
	}
	result := c.classifyRemote(ctx, title, summary, "type", TypeTags())
	if len(result) > 0 {
		return result[0]
	}
	return DefaultType
}

// #endregion type

// #region insights

// Insights returns up to 2 insight tags.
func (c *Classifier) Insights(ctx context.Context, title, summary string) []string {
	insights := matchKeywords(title, summary, insightVocab)
	if len(insights) == 0 {
		insights = c.classifyRemote(ctx, title, summary, "insights", InsightTags())
	}
	return capTags(insights, 2)
}

// #endregion insights

// #region keyword-pass

func lowerText(title, summary string) string {
	return strings.ToLower(title + " " + summary)
}

func anyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func matchKeywords(title, summary string, vocab []vocabEntry) []string {
	text := lowerText(title, summary)
	var tags []string
	for _, entry := range vocab {
		if anyKeyword(text, entry.keywords) {
			tags = append(tags, entry.tag)
		}
	}
	return tags
}

// #endregion keyword-pass

// #region remote-fallback

// classifyRemote asks the external service for labels. Failures and
// out-of-vocabulary labels degrade to an empty list, never an error.
func (c *Classifier) classifyRemote(ctx context.Context, title, summary, category string, options []string) []string {
	if c.fallback == nil {
		return nil
	}
	labels, err := c.fallback.Classify(ctx, FallbackRequest{
		Title:    title,
		Summary:  summary,
		Category: category,
		Options:  options,
	})
	if err != nil {
		return nil
	}

	valid := make(map[string]bool, len(options))
	for _, o := range options {
		valid[o] = true
	}
	var tags []string
	for _, l := range labels {
		if valid[l] {
			tags = append(tags, l)
		}
	}
	return tags
}

func capTags(tags []string, max int) []string {
	if len(tags) > max {
		return tags[:max]
	}
	return tags
}

// #endregion remote-fallback
