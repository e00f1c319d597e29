package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mwhitford/redlens/internal/analytics"
	"github.com/mwhitford/redlens/internal/model"
)

// postLines is the vertical budget per post in the results list.
const postLines = 3

// renderPosts renders the visible window of the results list around the
// cursor. inFlight reports whether a summary request is outstanding for a
// post; spin is the current spinner frame.
func renderPosts(posts []model.Post, cursor int, inFlight func(string) bool, spin string, width, height int) string {
	if len(posts) == 0 {
		return HelpStyle.Render("No posts. Type a keyword and press enter to search.")
	}

	perScreen := height / postLines
	if perScreen < 1 {
		perScreen = 1
	}

	// Keep the cursor inside the window.
	start := 0
	if cursor >= perScreen {
		start = cursor - perScreen + 1
	}
	end := start + perScreen
	if end > len(posts) {
		end = len(posts)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		p := posts[i]

		title := truncate(p.Title, width-4)
		if i == cursor {
			b.WriteString(SelectedItem.Render("> " + title))
		} else {
			b.WriteString(NormalItem.Render("  " + title))
		}
		b.WriteString("\n")

		meta := fmt.Sprintf("r/%s • u/%s • ↑%d • %d comments • %s • %s",
			p.Subreddit, p.Author, p.Upvotes, p.Comments,
			timeAgo(p.Created()), sentimentBadge(p.SentimentScore))
		b.WriteString(ItemMeta.Render(truncate(meta, width-4)))
		b.WriteString("\n")

		switch {
		case inFlight != nil && inFlight(p.ID):
			b.WriteString(SummaryText.Render(spin + " summarizing..."))
			b.WriteString("\n")
		case p.Summary != "":
			b.WriteString(SummaryText.Render(truncate(p.Summary, width-8)))
			b.WriteString("\n")
		default:
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderDashboard(d analytics.Dashboard, width int) string {
	var b strings.Builder

	b.WriteString(SectionHeader.Render("Overview"))
	b.WriteString("\n")
	b.WriteString(NormalItem.Render(fmt.Sprintf("Searches: %d   Posts analyzed: %d   Avg sentiment: %s",
		d.SummaryStats.TotalSearches, d.SummaryStats.TotalPosts, sentimentBadge(d.SummaryStats.AvgSentiment))))
	b.WriteString("\n")

	b.WriteString(SectionHeader.Render("Sentiment trends"))
	b.WriteString("\n")
	if len(d.SentimentTrends) == 0 {
		b.WriteString(ItemMeta.Render("no data yet"))
		b.WriteString("\n")
	}
	for _, t := range d.SentimentTrends {
		score := t.AvgSentiment
		b.WriteString(NormalItem.Render(fmt.Sprintf("%-12s %s  (%d posts)",
			t.Period, sentimentBadge(&score), t.PostCount)))
		b.WriteString("\n")
	}

	b.WriteString(SectionHeader.Render("Top keywords"))
	b.WriteString("\n")
	if len(d.KeywordStats) == 0 {
		b.WriteString(ItemMeta.Render("no data yet"))
		b.WriteString("\n")
	}
	for _, k := range d.KeywordStats {
		b.WriteString(NormalItem.Render(fmt.Sprintf("%-20s %d searches, %d posts, %s",
			truncate(k.Keyword, 20), k.SearchCount, k.TotalPosts, sentimentBadge(k.AvgSentiment))))
		b.WriteString("\n")
	}

	b.WriteString(SectionHeader.Render("Recent searches"))
	b.WriteString("\n")
	if len(d.RecentSearches) == 0 {
		b.WriteString(ItemMeta.Render("no searches yet"))
		b.WriteString("\n")
	}
	for _, s := range d.RecentSearches {
		line := fmt.Sprintf("%q in r/%s — %d posts, %s",
			s.Keyword, s.Subreddit, s.PostCount, sentimentBadge(s.AvgSentiment))
		b.WriteString(NormalItem.Render(truncate(line, width-4)))
		b.WriteString("\n")
	}

	return b.String()
}

func renderKeywords(keywords []model.SavedKeyword, cursor int, width int) string {
	if len(keywords) == 0 {
		return HelpStyle.Render("No saved keywords. Press w on the search tab to save the current search.")
	}

	var b strings.Builder
	for i, k := range keywords {
		line := fmt.Sprintf("%s in r/%s", k.Keyword, k.Subreddit)
		if i == cursor {
			b.WriteString(SelectedItem.Render("> " + truncate(line, width-4)))
		} else {
			b.WriteString(NormalItem.Render("  " + truncate(line, width-4)))
		}
		b.WriteString("\n")
	}
	b.WriteString(HelpStyle.Render("[enter] search  [d] delete  [r] reload"))
	return b.String()
}

func renderHistory(records []model.SearchRecord, cursor int, width int) string {
	if len(records) == 0 {
		return HelpStyle.Render("No search history yet.")
	}

	var b strings.Builder
	for i, r := range records {
		line := fmt.Sprintf("%q in r/%s — %d posts, %s",
			r.Keyword, r.Subreddit, r.PostCount, sentimentBadge(r.AvgSentiment))
		if i == cursor {
			b.WriteString(SelectedItem.Render("> " + truncate(line, width-4)))
		} else {
			b.WriteString(NormalItem.Render("  " + truncate(line, width-4)))
		}
		b.WriteString("\n")
	}
	b.WriteString(HelpStyle.Render("[enter] search again  [r] reload"))
	return b.String()
}

// sentimentBadge renders a score with its bucket color, or a muted marker
// when the post has no score.
func sentimentBadge(score *float64) string {
	if score == nil {
		return StatusBarText.Render("n/a")
	}
	label := fmt.Sprintf("%s %.1f", analytics.SentimentLabel(*score), *score)
	switch analytics.SentimentLabel(*score) {
	case "Positive":
		return SentimentPositive.Render(label)
	case "Neutral":
		return SentimentNeutral.Render(label)
	default:
		return SentimentNegative.Render(label)
	}
}

// timeAgo formats a timestamp relative to now.
func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// truncate shortens s to max runes. Cutting by runes, not bytes, keeps
// multi-byte titles valid UTF-8.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

