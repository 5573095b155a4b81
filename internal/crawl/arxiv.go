package crawl

// #region imports
import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/yufengw/ai-news-agent/internal/store"
)

// #endregion

// #region arxiv

var arxivCategories = []string{"cs.AI", "cs.CL", "cs.LG"}

const arxivMaxResults = 20

// Arxiv crawls recent submissions from the arXiv Atom API.
type Arxiv struct {
	parser *gofeed.Parser
}

// NewArxiv creates the arXiv crawler.
func NewArxiv() *Arxiv {
	return &Arxiv{parser: gofeed.NewParser()}
}

// Name implements Crawler.
func (a *Arxiv) Name() string { return "arxiv" }

// Crawl fetches the newest submissions across the AI categories.
func (a *Arxiv) Crawl(ctx context.Context) ([]store.Article, error) {
	catQuery := make([]string, len(arxivCategories))
	for i, c := range arxivCategories {
		catQuery[i] = "cat:" + c
	}
	url := fmt.Sprintf(
		"http://export.arxiv.org/api/query?search_query=%s&sortBy=submittedDate&sortOrder=descending&max_results=%d",
		strings.Join(catQuery, "+OR+"), arxivMaxResults)

	feed, err := a.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("arxiv query: %w", err)
	}

	var articles []store.Article
	for _, item := range feed.Items {
		articles = append(articles, store.Article{
			URL:         item.Link,
			Title:       strings.TrimSpace(strings.ReplaceAll(item.Title, "\n", " ")),
			Source:      a.Name(),
			Author:      itemAuthor(item),
			Summary:     truncate(strings.TrimSpace(strings.ReplaceAll(item.Description, "\n", " ")), 500),
			PublishedAt: itemPublished(item),
		})
	}
	return articles, nil
}

// #endregion arxiv
