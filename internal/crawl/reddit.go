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

// #region reddit

var redditSubreddits = []string{"MachineLearning", "artificial", "LocalLLaMA", "ClaudeAI"}

const (
	redditDefaultBaseURL = "https://www.reddit.com"
	redditMaxPosts       = 15
	redditUserAgent      = "ai-news-agent/0.1 (research bot)"
)

// Reddit crawls the hot posts of a fixed set of AI subreddits.
type Reddit struct {
	baseURL    string
	httpClient *http.Client
}

// NewReddit creates the Reddit crawler.
func NewReddit() *Reddit {
	return &Reddit{baseURL: redditDefaultBaseURL, httpClient: newHTTPClient()}
}

// Name implements Crawler.
func (r *Reddit) Name() string { return "reddit" }

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title     string `json:"title"`
				Permalink string `json:"permalink"`
				Author    string `json:"author"`
				Selftext  string `json:"selftext"`
				Score     int64  `json:"score"`
				Stickied  bool   `json:"stickied"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Crawl fetches hot posts per subreddit. A failing subreddit is skipped.
func (r *Reddit) Crawl(ctx context.Context) ([]store.Article, error) {
	var articles []store.Article
	for _, sub := range redditSubreddits {
		url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", r.baseURL, sub, redditMaxPosts)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", redditUserAgent)

		resp, err := r.httpClient.Do(req)
		if err != nil {
			continue
		}
		var listing redditListing
		decodeErr := json.NewDecoder(resp.Body).Decode(&listing)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || decodeErr != nil {
			continue
		}

		for _, child := range listing.Data.Children {
			post := child.Data
			if post.Stickied {
				continue
			}
			articles = append(articles, store.Article{
				URL:     "https://reddit.com" + post.Permalink,
				Title:   post.Title,
				Source:  "reddit/" + sub,
				Author:  post.Author,
				Summary: truncate(post.Selftext, 500),
				Score:   post.Score,
			})
		}
	}
	return articles, nil
}

// #endregion reddit
