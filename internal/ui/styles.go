package ui

// #region imports
import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yufengw/ai-news-agent/internal/score"
	"github.com/yufengw/ai-news-agent/internal/store"
)

// #endregion

// #region styles

var (
	primaryColor = lipgloss.Color("#0969DA") // GitHub blue
	accentColor  = lipgloss.Color("#2DA44E") // Green
	errorColor   = lipgloss.Color("#CF222E") // Red
	dimColor     = lipgloss.Color("#6E7681") // Gray
	linkColor    = lipgloss.Color("#58A6FF") // Light blue
	scoreColor   = lipgloss.Color("#F778BA") // Pink
	titleColor   = lipgloss.Color("#39D353") // Bright green
	sourceColor  = lipgloss.Color("#FFA657") // Light orange
	upColor      = lipgloss.Color("#2DA44E")
	downColor    = lipgloss.Color("#CF222E")

	HeaderStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accentColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	LinkStyle = lipgloss.NewStyle().
			Foreground(linkColor).
			Underline(true)

	ScoreStyle = lipgloss.NewStyle().
			Foreground(scoreColor).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(titleColor).
			Bold(true)

	SourceStyle = lipgloss.NewStyle().
			Foreground(sourceColor)
)

// #endregion styles

// #region rendering

// RenderArticle formats one ranked article for terminal output.
func RenderArticle(i int, r score.Ranked) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", DimStyle.Render(fmt.Sprintf("%2d.", i+1)), TitleStyle.Render(r.Title))
	fmt.Fprintf(&b, "    %s", SourceStyle.Render(r.Source))
	if r.Relevance != 0 {
		fmt.Fprintf(&b, "  %s", ScoreStyle.Render(fmt.Sprintf("relevance %.2f", r.Relevance)))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "    %s\n", LinkStyle.Render(r.URL))
	fmt.Fprintf(&b, "    %s\n", DimStyle.Render("id: "+r.ID))
	return b.String()
}

// RenderPreference formats one learned preference row.
func RenderPreference(p store.Preference) string {
	style := SuccessStyle
	if p.Weight < 0 {
		style = ErrorStyle
	}
	bar := weightBar(p.Weight)
	return fmt.Sprintf("  %-10s %-22s %s %s %s",
		SourceStyle.Render(string(p.Category)),
		p.Key,
		style.Render(fmt.Sprintf("%+.2f", p.Weight)),
		DimStyle.Render(bar),
		DimStyle.Render(fmt.Sprintf("(%d samples)", p.SampleCount)))
}

// weightBar draws a signed bar for a weight in [-1, 1].
func weightBar(w float64) string {
	const width = 10
	n := int(w * width)
	if n >= 0 {
		return strings.Repeat(" ", width) + "|" + strings.Repeat("+", n)
	}
	return strings.Repeat(" ", width+n) + strings.Repeat("-", -n) + "|"
}

// RenderRating colors a rating value.
func RenderRating(r store.Rating) string {
	switch r {
	case store.RatingUp:
		return lipgloss.NewStyle().Foreground(upColor).Render("▲ up")
	case store.RatingDown:
		return lipgloss.NewStyle().Foreground(downColor).Render("▼ down")
	default:
		return DimStyle.Render("• neutral")
	}
}

// #endregion rendering
