// Package filter provides the pure predicate engine for search results.
// Apply is a simple function: posts in, visible posts out. No side effects,
// no cached state.
package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/mwhitford/redlens/internal/model"
)

// Criteria holds the active display constraints. A nil (or empty, for
// Subreddit) field imposes no restriction.
type Criteria struct {
	MinUpvotes   *int
	MaxUpvotes   *int
	MinComments  *int
	MaxComments  *int
	Subreddit    string
	StartDate    *time.Time
	EndDate      *time.Time
	MinSentiment *float64
	MaxSentiment *float64
}

// Input carries the raw text the user typed into the filter panel.
// ParseCriteria converts it; malformed or empty bounds are treated as unset.
type Input struct {
	MinUpvotes   string
	MaxUpvotes   string
	MinComments  string
	MaxComments  string
	Subreddit    string
	StartDate    string // YYYY-MM-DD
	EndDate      string // YYYY-MM-DD
	MinSentiment string
	MaxSentiment string
}

// ParseCriteria converts raw filter panel input into Criteria.
func ParseCriteria(in Input) Criteria {
	return Criteria{
		MinUpvotes:   parseInt(in.MinUpvotes),
		MaxUpvotes:   parseInt(in.MaxUpvotes),
		MinComments:  parseInt(in.MinComments),
		MaxComments:  parseInt(in.MaxComments),
		Subreddit:    strings.TrimSpace(in.Subreddit),
		StartDate:    parseDate(in.StartDate),
		EndDate:      parseDate(in.EndDate),
		MinSentiment: parseFloat(in.MinSentiment),
		MaxSentiment: parseFloat(in.MaxSentiment),
	}
}

// Apply returns the ordered subsequence of posts satisfying every active
// constraint. Order is preserved from the input; the result is never
// re-sorted. Unset constraints impose no restriction; all active constraints
// must hold (AND semantics).
func Apply(posts []model.Post, c Criteria) []model.Post {
	if len(posts) == 0 {
		return []model.Post{}
	}

	result := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if Matches(p, c) {
			result = append(result, p)
		}
	}
	return result
}

// Matches reports whether a single post satisfies every active constraint.
func Matches(p model.Post, c Criteria) bool {
	if c.MinUpvotes != nil && p.Upvotes < *c.MinUpvotes {
		return false
	}
	if c.MaxUpvotes != nil && p.Upvotes > *c.MaxUpvotes {
		return false
	}
	if c.MinComments != nil && p.Comments < *c.MinComments {
		return false
	}
	if c.MaxComments != nil && p.Comments > *c.MaxComments {
		return false
	}
	if c.Subreddit != "" && !strings.Contains(strings.ToLower(p.Subreddit), strings.ToLower(c.Subreddit)) {
		return false
	}

	// A post with no sentiment score fails any active sentiment bound.
	// Absence is not a wildcard.
	if c.MinSentiment != nil && (p.SentimentScore == nil || *p.SentimentScore < *c.MinSentiment) {
		return false
	}
	if c.MaxSentiment != nil && (p.SentimentScore == nil || *p.SentimentScore > *c.MaxSentiment) {
		return false
	}

	if c.StartDate != nil || c.EndDate != nil {
		created := p.Created()
		if c.StartDate != nil && created.Before(startOfDay(*c.StartDate)) {
			return false
		}
		if c.EndDate != nil && !created.Before(startOfDay(*c.EndDate).AddDate(0, 0, 1)) {
			return false
		}
	}

	return true
}

// IsZero reports whether no constraint is active.
func (c Criteria) IsZero() bool {
	return c.MinUpvotes == nil && c.MaxUpvotes == nil &&
		c.MinComments == nil && c.MaxComments == nil &&
		c.Subreddit == "" &&
		c.StartDate == nil && c.EndDate == nil &&
		c.MinSentiment == nil && c.MaxSentiment == nil
}

func parseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

// startOfDay truncates t to local midnight.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
