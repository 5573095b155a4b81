package summarize

// #region imports
import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/yufengw/ai-news-agent/internal/store"
)

// #endregion

// #region prompt

const summaryPrompt = `Summarize this article in one paragraph (150-200 words).

Requirements:
- Be factual and objective
- Remove all promotional language and marketing speak
- Use a neutral, journalistic tone
- Focus on key facts, context, and implications
- No opinions, speculation, or editorial commentary
- If it's a product release, focus on capabilities not hype
- If it's research, explain the finding not the breakthrough language

Title: %s
Source: %s
Content: %s

Write a neutral, factual summary:`

const (
	maxPromptContent = 2000
	// A meta description this long is usually a real abstract, not a slug.
	minUsableDescription = 60
)

// #endregion prompt

// #region summarizer

// TextGenerator produces text from a prompt. Satisfied by llm.Client.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Summarizer fills in neutral derived summaries for stored articles. It
// prefers the page's own meta description and falls back to generation.
type Summarizer struct {
	store      *store.Store
	gen        TextGenerator // may be nil: meta descriptions only
	httpClient *http.Client
}

// NewSummarizer creates a Summarizer. httpClient may be nil.
func NewSummarizer(st *store.Store, gen TextGenerator, httpClient *http.Client) *Summarizer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Summarizer{store: st, gen: gen, httpClient: httpClient}
}

// #endregion summarizer

// #region summarize-one

// Summarize produces a neutral summary for one article.
func (s *Summarizer) Summarize(ctx context.Context, article store.Article) (string, error) {
	desc := s.metaDescription(ctx, article.URL)
	if s.gen == nil {
		if desc == "" {
			return "", fmt.Errorf("no meta description for %s and no generator configured", article.URL)
		}
		return desc, nil
	}

	content := article.Summary
	if content == "" {
		content = desc
	}
	if content == "" {
		content = article.Title
	}
	if len(content) > maxPromptContent {
		content = content[:maxPromptContent]
	}

	text, err := s.gen.Complete(ctx, fmt.Sprintf(summaryPrompt, article.Title, article.Source, content), 1024)
	if err != nil {
		// Generation is best-effort; a usable meta description still counts.
		if len(desc) >= minUsableDescription {
			return desc, nil
		}
		return "", fmt.Errorf("summarize %s: %w", article.URL, err)
	}
	return strings.TrimSpace(text), nil
}

// #endregion summarize-one

// #region fill-missing

// FillMissing summarizes articles that lack a neutral summary and persists
// the results. Per-article failures are logged and skipped. Returns the
// number of articles updated.
func (s *Summarizer) FillMissing(ctx context.Context, since time.Time, limit int) (int, error) {
	articles, err := s.store.GetArticlesMissingSummary(since, limit)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, a := range articles {
		summary, err := s.Summarize(ctx, a)
		if err != nil {
			log.Printf("summarize %s: %v", a.URL, err)
			continue
		}
		if err := s.store.SetNeutralSummary(a.ID, summary); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// #endregion fill-missing

// #region meta-description

// metaDescription fetches the article page and extracts its description
// tag. Any failure degrades to an empty string.
func (s *Summarizer) metaDescription(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}
	for _, sel := range []string{`meta[name="description"]`, `meta[property="og:description"]`} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if desc := strings.TrimSpace(content); len(desc) >= minUsableDescription {
				return desc
			}
		}
	}
	return ""
}

// #endregion meta-description
