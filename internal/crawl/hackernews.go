package crawl

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yufengw/ai-news-agent/internal/store"
)

// #endregion

// #region hackernews

const (
	hnDefaultBaseURL = "https://hacker-news.firebaseio.com/v0"
	hnMaxStories     = 30
)

// HackerNews crawls the Hacker News top stories API.
type HackerNews struct {
	baseURL    string
	httpClient *http.Client
}

// NewHackerNews creates the Hacker News crawler.
func NewHackerNews() *HackerNews {
	return &HackerNews{baseURL: hnDefaultBaseURL, httpClient: newHTTPClient()}
}

// newHackerNewsWithBaseURL exists for httptest servers.
func newHackerNewsWithBaseURL(baseURL string, client *http.Client) *HackerNews {
	return &HackerNews{baseURL: baseURL, httpClient: client}
}

// Name implements Crawler.
func (h *HackerNews) Name() string { return "hackernews" }

type hnItem struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
	By    string `json:"by"`
	Score int64  `json:"score"`
}

// Crawl fetches the current top stories.
func (h *HackerNews) Crawl(ctx context.Context) ([]store.Article, error) {
	var ids []int64
	if err := h.getJSON(ctx, h.baseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("top stories: %w", err)
	}
	if len(ids) > hnMaxStories {
		ids = ids[:hnMaxStories]
	}

	var articles []store.Article
	for _, id := range ids {
		var item hnItem
		if err := h.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", h.baseURL, id), &item); err != nil {
			continue
		}
		if item.Type != "story" || item.Title == "" {
			continue
		}
		url := item.URL
		if url == "" {
			url = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", id)
		}
		articles = append(articles, store.Article{
			URL:    url,
			Title:  item.Title,
			Source: h.Name(),
			Author: item.By,
			Score:  item.Score,
		})
	}
	return articles, nil
}

func (h *HackerNews) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// #endregion hackernews
