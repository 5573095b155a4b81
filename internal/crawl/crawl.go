package crawl

// #region imports
import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/yufengw/ai-news-agent/internal/store"
)

// #endregion

// #region crawler-interface

// Crawler fetches articles from one source. Implementations are thin I/O
// glue; per-source failures are isolated by the caller.
type Crawler interface {
	Name() string
	Crawl(ctx context.Context) ([]store.Article, error)
}

// #endregion crawler-interface

// #region registry

// All returns every crawler. extraFeeds extends the RSS crawler's built-in
// feed map.
func All(extraFeeds map[string]string) []Crawler {
	return []Crawler{
		NewHackerNews(),
		NewReddit(),
		NewArxiv(),
		NewHuggingFace(),
		NewMicrosoft(),
		NewGitHubReleases(),
		NewRSS(extraFeeds),
	}
}

// Get returns the crawler with the given name, or nil.
func Get(name string, extraFeeds map[string]string) Crawler {
	for _, c := range All(extraFeeds) {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// Names lists the registered crawler names.
func Names(extraFeeds map[string]string) []string {
	crawlers := All(extraFeeds)
	names := make([]string, len(crawlers))
	for i, c := range crawlers {
		names[i] = c.Name()
	}
	return names
}

// #endregion registry

// #region fetch-all

// FetchAll runs crawlers concurrently. A failing source is logged and
// skipped; the rest still return their articles.
func FetchAll(ctx context.Context, crawlers []Crawler) []store.Article {
	var mu sync.Mutex
	var wg sync.WaitGroup
	var all []store.Article

	for _, c := range crawlers {
		wg.Add(1)
		go func(c Crawler) {
			defer wg.Done()
			articles, err := c.Crawl(ctx)
			if err != nil {
				log.Printf("crawl %s: %v", c.Name(), err)
				return
			}
			mu.Lock()
			all = append(all, articles...)
			mu.Unlock()
		}(c)
	}
	wg.Wait()
	return all
}

// #endregion fetch-all

// #region helpers

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

// stripHTML reduces markup to its text content for feed summaries.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// truncate caps a summary without splitting the byte stream mid-rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// #endregion helpers
