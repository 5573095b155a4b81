package crawl

// #region imports
import (
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/yufengw/ai-news-agent/internal/store"
)

// #endregion

// #region default-feeds

// defaultFeeds are the built-in RSS sources. feeds.yaml entries are merged
// over these, so a config entry can add or override a feed by name.
var defaultFeeds = map[string]string{
	"techcrunch":  "https://techcrunch.com/feed/",
	"venturebeat": "https://venturebeat.com/feed/",
	"theverge":    "https://www.theverge.com/rss/ai-artificial-intelligence/index.xml",
	"arstechnica": "https://feeds.arstechnica.com/arstechnica/technology-lab",
	"anthropic":   "https://www.anthropic.com/feed",
	"openai":      "https://openai.com/blog/rss.xml",
	"google-ai":   "https://blog.google/technology/ai/rss/",
	"meta-ai":     "https://ai.meta.com/rss/",
	"replicate":   "https://replicate.com/blog/rss",
	"eleutherai":  "https://blog.eleuther.ai/index.xml",
	"lilianweng":  "https://lilianweng.github.io/index.xml",
	"qwen":        "https://qwenlm.github.io/blog/index.xml",
}

const rssMaxPerFeed = 10

// #endregion default-feeds

// #region rss-crawler

// RSS crawls a map of named RSS/Atom feeds.
type RSS struct {
	feeds  map[string]string
	parser *gofeed.Parser
}

// NewRSS creates the RSS crawler with the default feeds plus extras.
func NewRSS(extraFeeds map[string]string) *RSS {
	feeds := make(map[string]string, len(defaultFeeds)+len(extraFeeds))
	for name, url := range defaultFeeds {
		feeds[name] = url
	}
	for name, url := range extraFeeds {
		feeds[name] = url
	}
	return &RSS{feeds: feeds, parser: gofeed.NewParser()}
}

// Name implements Crawler.
func (r *RSS) Name() string { return "rss" }

// Crawl parses every feed; a broken feed is skipped.
func (r *RSS) Crawl(ctx context.Context) ([]store.Article, error) {
	var articles []store.Article
	for sourceName, feedURL := range r.feeds {
		feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			continue
		}
		articles = append(articles, feedArticles(feed, sourceName, rssMaxPerFeed)...)
	}
	return articles, nil
}

// #endregion rss-crawler

// #region feed-helpers

// feedArticles converts up to max feed items into articles.
func feedArticles(feed *gofeed.Feed, sourceName string, max int) []store.Article {
	items := feed.Items
	if len(items) > max {
		items = items[:max]
	}
	var articles []store.Article
	for _, item := range items {
		if item.Link == "" || item.Title == "" {
			continue
		}
		articles = append(articles, store.Article{
			URL:         item.Link,
			Title:       strings.TrimSpace(strings.ReplaceAll(item.Title, "\n", " ")),
			Source:      sourceName,
			Author:      itemAuthor(item),
			Summary:     truncate(stripHTML(item.Description), 500),
			PublishedAt: itemPublished(item),
		})
	}
	return articles
}

func itemAuthor(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		names := make([]string, 0, len(item.Authors))
		for _, a := range item.Authors {
			if a != nil && a.Name != "" {
				names = append(names, a.Name)
			}
		}
		return strings.Join(names, ", ")
	}
	return ""
}

func itemPublished(item *gofeed.Item) string {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC().Format(time.RFC3339)
	}
	return ""
}

// #endregion feed-helpers
