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

// #region huggingface

const (
	hfDefaultBaseURL = "https://huggingface.co"
	hfMaxPapers      = 20
)

// HuggingFace crawls the daily papers list.
type HuggingFace struct {
	baseURL    string
	httpClient *http.Client
}

// NewHuggingFace creates the Hugging Face crawler.
func NewHuggingFace() *HuggingFace {
	return &HuggingFace{baseURL: hfDefaultBaseURL, httpClient: newHTTPClient()}
}

// Name implements Crawler.
func (h *HuggingFace) Name() string { return "huggingface" }

type hfPaper struct {
	Paper struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Summary string `json:"summary"`
	} `json:"paper"`
	NumUpvotes int64 `json:"numUpvotes"`
}

// Crawl fetches today's papers.
func (h *HuggingFace) Crawl(ctx context.Context) ([]store.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/daily_papers", nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("daily papers: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("daily papers: status %d", resp.StatusCode)
	}

	var papers []hfPaper
	if err := json.NewDecoder(resp.Body).Decode(&papers); err != nil {
		return nil, fmt.Errorf("decode papers: %w", err)
	}
	if len(papers) > hfMaxPapers {
		papers = papers[:hfMaxPapers]
	}

	var articles []store.Article
	for _, p := range papers {
		if p.Paper.ID == "" || p.Paper.Title == "" {
			continue
		}
		articles = append(articles, store.Article{
			URL:     "https://huggingface.co/papers/" + p.Paper.ID,
			Title:   p.Paper.Title,
			Source:  h.Name(),
			Summary: truncate(p.Paper.Summary, 500),
			Score:   p.NumUpvotes,
		})
	}
	return articles, nil
}

// #endregion huggingface
