package digest

// #region imports
import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yufengw/ai-news-agent/internal/score"
	"github.com/yufengw/ai-news-agent/internal/store"
)

// #endregion

// #region prompt

const digestPrompt = `You are an AI news curator. Given the following list of articles crawled today, produce a concise daily digest in Markdown format.

Group articles by theme (e.g., "LLM Research", "Industry News", "Open Source", "Policy & Safety").
For each group, write 2-3 sentence summaries of the most important stories.
Highlight the top 3 most significant stories at the top as "Headlines".
Include source links. Skip duplicates or low-quality items.
Keep the total digest under 1500 words.

Articles:
%s`

// maxDigestArticles bounds how many ranked candidates reach synthesis.
const maxDigestArticles = 40

const emptyDigestMessage = "No articles found for the given period."

// #endregion prompt

// #region generator

// TextGenerator produces text from a prompt. Satisfied by llm.Client.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Sender delivers a finished digest. Satisfied by email.Resend.
type Sender interface {
	Send(ctx context.Context, subject, html string) error
}

// Generator runs the digest pipeline: rank candidates by learned
// preferences, synthesize, persist, and optionally email.
type Generator struct {
	store  *store.Store
	gen    TextGenerator
	scorer *score.Scorer
	sender Sender // may be nil: generate and store only
}

// NewGenerator wires a digest pipeline.
func NewGenerator(st *store.Store, gen TextGenerator, scorer *score.Scorer, sender Sender) *Generator {
	return &Generator{store: st, gen: gen, scorer: scorer, sender: sender}
}

// #endregion generator

// #region generate

// Generate builds a digest for articles crawled since the given time.
// dryRun skips delivery. Returns the digest content.
func (g *Generator) Generate(ctx context.Context, since time.Time, dryRun bool) (string, error) {
	articles, err := g.store.GetArticlesSince(since, "")
	if err != nil {
		return "", err
	}
	if len(articles) == 0 {
		return emptyDigestMessage, nil
	}

	prefs, err := g.store.GetAllPreferences()
	if err != nil {
		return "", err
	}
	ranked := score.Top(g.scorer.Rank(ctx, articles, prefs), maxDigestArticles)

	content, err := g.gen.Complete(ctx, fmt.Sprintf(digestPrompt, formatArticles(ranked)), 4096)
	if err != nil {
		return "", fmt.Errorf("synthesize digest: %w", err)
	}

	d, err := g.store.SaveDigest(content, len(ranked))
	if err != nil {
		return "", err
	}

	if !dryRun && g.sender != nil {
		html := fmt.Sprintf("<pre style='font-family: sans-serif; white-space: pre-wrap;'>%s</pre>", content)
		if err := g.sender.Send(ctx, "AI News Digest", html); err != nil {
			return content, fmt.Errorf("deliver digest: %w", err)
		}
		if err := g.store.MarkDigestEmailed(d.ID); err != nil {
			return content, err
		}
	}
	return content, nil
}

// #endregion generate

// #region formatting

func formatArticles(ranked []score.Ranked) string {
	blocks := make([]string, 0, len(ranked))
	for _, r := range ranked {
		parts := []string{fmt.Sprintf("- **%s** (%s)", r.Title, r.Source)}
		if summary := preferredSummary(r.Article); summary != "" {
			parts = append(parts, "  "+truncate(summary, 200))
		}
		parts = append(parts, "  URL: "+r.URL)
		if r.Article.Score > 0 {
			parts = append(parts, fmt.Sprintf("  Score: %d", r.Article.Score))
		}
		blocks = append(blocks, strings.Join(parts, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// preferredSummary favors the derived neutral summary over raw feed text.
func preferredSummary(a store.Article) string {
	if a.NeutralSummary != "" {
		return a.NeutralSummary
	}
	return a.Summary
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// #endregion formatting
