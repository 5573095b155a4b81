package linkedin

// #region imports
import (
	"context"
	"fmt"
	"strings"

	"github.com/yufengw/ai-news-agent/internal/score"
	"github.com/yufengw/ai-news-agent/internal/store"
)

// #endregion

// #region prompts

const postPrompt = `You are Yufeng, a technology professional writing a LinkedIn post. Write in a conversational, reflective style grounded in real experience. Avoid generic AI-sounding language.

Based on the following news topics, write a LinkedIn POST (shorter, ~150-200 words):

Style guidelines:
- Start with a hook or personal observation
- Use short paragraphs and line breaks for readability
- Include 1-2 specific insights or hot takes
- End with a question or call to engagement
- Be authentic, not promotional
- Use emojis sparingly (1-2 max)

Topics to write about:
%s

Write the LinkedIn post now:`

const articlePrompt = `You are Yufeng, a technology professional writing a LinkedIn article. Write in a conversational, reflective style grounded in real experience. Avoid generic AI-sounding language.

Based on the following news topics, write a LinkedIn ARTICLE (longer, ~500-800 words):

Style guidelines:
- Compelling headline that sparks curiosity
- Open with a personal anecdote or observation
- Break into clear sections with subheadings
- Include specific examples and concrete details
- Share genuine opinions and lessons learned
- End with actionable takeaways or thought-provoking questions
- Be authentic and vulnerable where appropriate

Topics to write about:
%s

Write the LinkedIn article now with a headline:`

const maxTopicSummary = 200

// #endregion prompts

// #region writer

// TextGenerator produces text from a prompt. Satisfied by llm.Client.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Writer drafts LinkedIn content from preference-ranked topics.
type Writer struct {
	gen TextGenerator
}

// NewWriter creates a Writer.
func NewWriter(gen TextGenerator) *Writer {
	return &Writer{gen: gen}
}

// Post drafts a short post (~150-200 words) from the given topics.
func (w *Writer) Post(ctx context.Context, topics []score.Ranked) (string, error) {
	if len(topics) == 0 {
		return "", fmt.Errorf("no topics to write about")
	}
	text, err := w.gen.Complete(ctx, fmt.Sprintf(postPrompt, formatTopics(topics)), 1024)
	if err != nil {
		return "", fmt.Errorf("draft post: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// ArticleDraft drafts a long-form article (~500-800 words) from the
// given topics.
func (w *Writer) ArticleDraft(ctx context.Context, topics []score.Ranked) (string, error) {
	if len(topics) == 0 {
		return "", fmt.Errorf("no topics to write about")
	}
	text, err := w.gen.Complete(ctx, fmt.Sprintf(articlePrompt, formatTopics(topics)), 2048)
	if err != nil {
		return "", fmt.Errorf("draft article: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// #endregion writer

// #region formatting

func formatTopics(topics []score.Ranked) string {
	var b strings.Builder
	for i, t := range topics {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, t.Title)
		if summary := preferredSummary(t.Article); summary != "" {
			fmt.Fprintf(&b, "   %s\n", truncate(summary, maxTopicSummary))
		}
		fmt.Fprintf(&b, "   Source: %s\n\n", t.Source)
	}
	return strings.TrimRight(b.String(), "\n")
}

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
