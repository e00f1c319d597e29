package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwhitford/redlens/internal/filter"
)

// filterPanel holds the nine filter inputs. Values feed filter.ParseCriteria
// on every keystroke; malformed bounds are simply inactive until corrected.
type filterPanel struct {
	inputs [9]textinput.Model
	focus  int
}

// Input order matches the panel layout, top to bottom.
const (
	fpMinUpvotes = iota
	fpMaxUpvotes
	fpMinComments
	fpMaxComments
	fpSubreddit
	fpStartDate
	fpEndDate
	fpMinSentiment
	fpMaxSentiment
)

var filterLabels = [9]string{
	"Min upvotes", "Max upvotes",
	"Min comments", "Max comments",
	"Subreddit",
	"From (YYYY-MM-DD)", "To (YYYY-MM-DD)",
	"Min sentiment", "Max sentiment",
}

func newFilterPanel() filterPanel {
	var p filterPanel
	for i := range p.inputs {
		in := textinput.New()
		in.Placeholder = "-"
		in.CharLimit = 24
		in.Width = 18
		p.inputs[i] = in
	}
	p.inputs[fpMinUpvotes].Focus()
	return p
}

func (p *filterPanel) cycleFocus(delta int) {
	p.focus = (p.focus + delta + len(p.inputs)) % len(p.inputs)
	for i := range p.inputs {
		if i == p.focus {
			p.inputs[i].Focus()
		} else {
			p.inputs[i].Blur()
		}
	}
}

func (p *filterPanel) clear() {
	for i := range p.inputs {
		p.inputs[i].SetValue("")
	}
}

// criteria parses the current panel values.
func (p filterPanel) criteria() filter.Criteria {
	return filter.ParseCriteria(filter.Input{
		MinUpvotes:   p.inputs[fpMinUpvotes].Value(),
		MaxUpvotes:   p.inputs[fpMaxUpvotes].Value(),
		MinComments:  p.inputs[fpMinComments].Value(),
		MaxComments:  p.inputs[fpMaxComments].Value(),
		Subreddit:    p.inputs[fpSubreddit].Value(),
		StartDate:    p.inputs[fpStartDate].Value(),
		EndDate:      p.inputs[fpEndDate].Value(),
		MinSentiment: p.inputs[fpMinSentiment].Value(),
		MaxSentiment: p.inputs[fpMaxSentiment].Value(),
	})
}

func (p filterPanel) update(msg tea.Msg) (filterPanel, tea.Cmd) {
	var cmd tea.Cmd
	p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
	return p, cmd
}

func (p filterPanel) view() string {
	var b strings.Builder
	b.WriteString(StatusBarKey.Render("Filters"))
	b.WriteString(StatusBarText.Render("  [tab] next  [ctrl+x] clear  [esc] close"))
	b.WriteString("\n")
	for i := range p.inputs {
		label := FormLabel.Render(padRight(filterLabels[i], 18))
		b.WriteString("\n" + label + " " + p.inputs[i].View())
	}
	return FilterPanel.Render(b.String())
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
