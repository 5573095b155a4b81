package crawl

// #region imports
import (
	"context"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/yufengw/ai-news-agent/internal/store"
)

// #endregion

// #region microsoft

var microsoftFeeds = map[string]string{
	"microsoft-ai":     "https://blogs.microsoft.com/ai/feed/",
	"azure-blog":       "https://azure.microsoft.com/en-us/blog/feed/",
	"m365-copilot":     "https://techcommunity.microsoft.com/gxcuf89792/rss/board?board.id=Microsoft365CopilotBlog",
	"azure-ai-foundry": "https://techcommunity.microsoft.com/gxcuf89792/rss/board?board.id=AzureAIFoundryBlog",
	"devblog-foundry":  "https://devblogs.microsoft.com/foundry/feed/",
}

var microsoftReleaseFeeds = map[string]string{
	"agent-framework": "https://github.com/microsoft/agent-framework/releases.atom",
}

const (
	msMaxPerFeed  = 10
	msMaxReleases = 5
)

// Microsoft crawls Microsoft AI blogs and selected release Atom feeds.
type Microsoft struct {
	parser *gofeed.Parser
}

// NewMicrosoft creates the Microsoft crawler.
func NewMicrosoft() *Microsoft {
	return &Microsoft{parser: gofeed.NewParser()}
}

// Name implements Crawler.
func (m *Microsoft) Name() string { return "microsoft" }

// Crawl parses the blog and release feeds; broken feeds are skipped.
func (m *Microsoft) Crawl(ctx context.Context) ([]store.Article, error) {
	var articles []store.Article

	for sourceName, feedURL := range microsoftFeeds {
		feed, err := m.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			continue
		}
		articles = append(articles, feedArticles(feed, "microsoft/"+sourceName, msMaxPerFeed)...)
	}

	for repoName, atomURL := range microsoftReleaseFeeds {
		feed, err := m.parser.ParseURLWithContext(atomURL, ctx)
		if err != nil {
			continue
		}
		items := feed.Items
		if len(items) > msMaxReleases {
			items = items[:msMaxReleases]
		}
		for _, item := range items {
			if item.Link == "" || item.Title == "" {
				continue
			}
			articles = append(articles, store.Article{
				URL:         item.Link,
				Title:       "[Release] " + strings.TrimSpace(item.Title),
				Source:      "microsoft/github-" + repoName,
				PublishedAt: itemPublished(item),
			})
		}
	}
	return articles, nil
}

// #endregion microsoft
