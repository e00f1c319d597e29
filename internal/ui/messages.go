// Package ui provides the Bubble Tea TUI for redlens.
package ui

import (
	"github.com/mwhitford/redlens/internal/analytics"
	"github.com/mwhitford/redlens/internal/auth"
	"github.com/mwhitford/redlens/internal/model"
)

// LoggedIn is sent when a login or register attempt finishes.
type LoggedIn struct {
	Session *auth.Session
	Err     error
}

// SessionExpired is sent when the backend rejected the session token.
// The app drops to the login view and discards all session-scoped state.
type SessionExpired struct{}

// SearchComplete is sent when a keyword search finishes. Keyword and
// Subreddit echo the submitted query for stale-checks.
type SearchComplete struct {
	Keyword   string
	Subreddit string
	Posts     []model.Post
	Err       error
}

// SummaryComplete is sent when one enrichment request finishes. PostID
// identifies the post the summary belongs to; the result set decides whether
// the post still exists.
type SummaryComplete struct {
	PostID  string
	Summary string
	Err     error
}

// KeywordsLoaded is sent when the saved keyword list is fetched.
type KeywordsLoaded struct {
	Keywords []model.SavedKeyword
	Err      error
}

// KeywordSaved is sent when a keyword has been stored on the backend.
type KeywordSaved struct {
	Keyword model.SavedKeyword
	Err     error
}

// KeywordDeleted is sent when a saved keyword has been removed.
type KeywordDeleted struct {
	ID  string
	Err error
}

// HistoryLoaded is sent when the search history is fetched.
type HistoryLoaded struct {
	Records []model.SearchRecord
	Err     error
}

// DashboardLoaded is sent when the analytics payload is fetched.
type DashboardLoaded struct {
	Dashboard analytics.Dashboard
	Err       error
}

// ExportComplete is sent when a CSV export has been written to disk.
type ExportComplete struct {
	Path string
	Err  error
}
