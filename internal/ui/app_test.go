package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwhitford/redlens/internal/analytics"
	"github.com/mwhitford/redlens/internal/api"
	"github.com/mwhitford/redlens/internal/auth"
	"github.com/mwhitford/redlens/internal/model"
)

// stubBackend satisfies Backend with canned values. Tests drive Update with
// messages directly, so most methods are never executed.
type stubBackend struct {
	posts []model.Post
}

func (s *stubBackend) Login(context.Context, string, string) (*auth.Session, error) {
	return &auth.Session{Token: "t", Email: "ada@example.com"}, nil
}

func (s *stubBackend) Register(context.Context, string, string, string) (*auth.Session, error) {
	return &auth.Session{Token: "t", Email: "ada@example.com"}, nil
}

func (s *stubBackend) Logout() error { return nil }

func (s *stubBackend) SearchPosts(context.Context, string, string) ([]model.Post, error) {
	return s.posts, nil
}

func (s *stubBackend) Summarize(context.Context, string) (string, error) { return "sum", nil }

func (s *stubBackend) SavedKeywords(context.Context) ([]model.SavedKeyword, error) {
	return nil, nil
}

func (s *stubBackend) SaveKeyword(context.Context, string, string) (model.SavedKeyword, error) {
	return model.SavedKeyword{}, nil
}

func (s *stubBackend) DeleteKeyword(context.Context, string) error { return nil }

func (s *stubBackend) SearchHistory(context.Context) ([]model.SearchRecord, error) {
	return nil, nil
}

func (s *stubBackend) Dashboard(context.Context) (analytics.Dashboard, error) {
	return analytics.Empty(), nil
}

func (s *stubBackend) ExportCSV(context.Context, string, string, string) (api.Export, error) {
	return api.Export{}, nil
}

func loggedInApp() App {
	return NewApp(&stubBackend{}, &auth.Session{Token: "t", Email: "ada@example.com"}, "all")
}

func testPosts() []model.Post {
	s1, s2 := 8.0, 3.0
	return []model.Post{
		{ID: "p1", Title: "First", Upvotes: 10, Comments: 5, Subreddit: "golang", SentimentScore: &s1},
		{ID: "p2", Title: "Second", Upvotes: 3, Comments: 1, Subreddit: "programming", SentimentScore: &s2},
		{ID: "p3", Title: "Third", Upvotes: 50, Comments: 20, Subreddit: "golang"},
	}
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// withResults delivers a completed search so the app owns some posts.
func withResults(t *testing.T, a App, posts []model.Post) App {
	t.Helper()
	a.lastKeyword = "go"
	a.lastSubreddit = "all"
	model, _ := a.Update(SearchComplete{Keyword: "go", Subreddit: "all", Posts: posts})
	return model.(App)
}

func TestStartsAtLoginWithoutSession(t *testing.T) {
	a := NewApp(&stubBackend{}, nil, "all")
	if a.CurrentView() != "login" {
		t.Errorf("view = %q, want login", a.CurrentView())
	}
}

func TestRestoredSessionSkipsLogin(t *testing.T) {
	a := loggedInApp()
	if a.CurrentView() != "main" {
		t.Errorf("view = %q, want main", a.CurrentView())
	}
	if a.Init() == nil {
		t.Error("Init should load session-scoped lists")
	}
}

func TestLoggedInSwitchesToMain(t *testing.T) {
	a := NewApp(&stubBackend{}, nil, "all")

	model, cmd := a.Update(LoggedIn{Session: &auth.Session{Token: "t", Email: "ada@example.com"}})
	updated := model.(App)

	if updated.CurrentView() != "main" {
		t.Errorf("view = %q, want main", updated.CurrentView())
	}
	if updated.Session() == nil {
		t.Error("session should be set")
	}
	if cmd == nil {
		t.Error("login should trigger data loads")
	}
}

func TestLoginFailureShowsMessage(t *testing.T) {
	a := NewApp(&stubBackend{}, nil, "all")
	a.login.submitting = true

	model, _ := a.Update(LoggedIn{Err: &api.APIError{Status: 401, Detail: "Invalid credentials"}})
	updated := model.(App)

	if updated.CurrentView() != "login" {
		t.Error("failed login must stay on the login view")
	}
	if updated.login.errMsg != "Invalid credentials" {
		t.Errorf("errMsg = %q", updated.login.errMsg)
	}
	if updated.login.submitting {
		t.Error("submitting should be cleared")
	}
}

func TestSearchCompleteReplacesResults(t *testing.T) {
	a := withResults(t, loggedInApp(), testPosts())

	if len(a.Visible()) != 3 {
		t.Fatalf("visible = %d, want 3", len(a.Visible()))
	}
	if a.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", a.Cursor())
	}
	if a.typing {
		t.Error("focus should move to the result list after a search")
	}
}

func TestTabsReachableBeforeFirstSearch(t *testing.T) {
	// A fresh session starts with the query inputs focused and no
	// results; the other tabs must still be reachable.
	a := loggedInApp()

	m, _ := a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = m.(App)
	if a.typing {
		t.Fatal("esc should blur the query inputs even with no results")
	}

	m, _ = a.Update(key('2'))
	a = m.(App)
	if a.CurrentTab() != "Dashboard" {
		t.Errorf("tab = %q, want Dashboard", a.CurrentTab())
	}

	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a = m.(App)
	if a.CurrentTab() != "Keywords" {
		t.Errorf("tab = %q, want Keywords", a.CurrentTab())
	}
}

func TestLogoutWorksWhileTyping(t *testing.T) {
	a := loggedInApp()
	if !a.typing {
		t.Fatal("fresh session should focus the query inputs")
	}

	m, _ := a.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	updated := m.(App)

	if updated.CurrentView() != "login" {
		t.Errorf("view = %q, want login", updated.CurrentView())
	}
	if updated.Session() != nil {
		t.Error("session must be discarded on logout")
	}
}

func TestStaleSearchResponseIgnored(t *testing.T) {
	a := loggedInApp()
	a.lastKeyword = "rust"
	a.lastSubreddit = "all"

	model, _ := a.Update(SearchComplete{Keyword: "go", Subreddit: "all", Posts: testPosts()})
	updated := model.(App)

	if updated.Results().Len() != 0 {
		t.Error("a response for a superseded query must not land")
	}
}

func TestStaleSearchResponseKeepsIndicator(t *testing.T) {
	a := loggedInApp()
	a.searching = true
	a.lastKeyword = "rust"
	a.lastSubreddit = "all"

	// The late response for the superseded query arrives first.
	m, _ := a.Update(SearchComplete{Keyword: "go", Subreddit: "all", Posts: testPosts()})
	updated := m.(App)

	if !updated.searching {
		t.Error("the current query is still in flight, indicator must stay on")
	}
}

func TestNewSearchClearsEnrichmentFlight(t *testing.T) {
	a := withResults(t, loggedInApp(), testPosts())
	a.Results().Begin("p1")

	a = withResults(t, a, testPosts()[:1])

	if a.Results().InFlightCount() != 0 {
		t.Error("replacing results must clear the flight table")
	}
}

func TestSummarizeClaimsOnce(t *testing.T) {
	a := withResults(t, loggedInApp(), testPosts())

	model, cmd := a.Update(key('s'))
	a = model.(App)
	if cmd == nil {
		t.Fatal("first s should issue a summarize command")
	}
	if !a.Results().InFlight("p1") {
		t.Error("p1 should be in flight")
	}

	_, cmd = a.Update(key('s'))
	if cmd != nil {
		t.Error("second s for the same post must not issue a command")
	}
}

func TestSummaryCompletePatchesPost(t *testing.T) {
	a := withResults(t, loggedInApp(), testPosts())
	a.Results().Begin("p2")

	model, _ := a.Update(SummaryComplete{PostID: "p2", Summary: "tl;dr"})
	a = model.(App)

	if a.Visible()[1].Summary != "tl;dr" {
		t.Errorf("summary not patched: %+v", a.Visible()[1])
	}
	if a.Results().InFlight("p2") {
		t.Error("flight entry should be cleared")
	}
}

func TestStaleSummaryIsNoOp(t *testing.T) {
	a := withResults(t, loggedInApp(), testPosts())

	model, _ := a.Update(SummaryComplete{PostID: "gone", Summary: "tl;dr"})
	a = model.(App)

	for _, p := range a.Visible() {
		if p.Summary != "" {
			t.Errorf("no post should have been patched, got %+v", p)
		}
	}
}

func TestSummaryFailureAllowsRetry(t *testing.T) {
	a := withResults(t, loggedInApp(), testPosts())
	a.Results().Begin("p1")

	model, _ := a.Update(SummaryComplete{PostID: "p1", Err: errors.New("boom")})
	a = model.(App)

	if a.Results().InFlight("p1") {
		t.Error("failed enrichment must release the flight entry")
	}
	if !a.Results().Begin("p1") {
		t.Error("retry should be allowed after a failure")
	}
}

func TestAuthExpiredDropsToLogin(t *testing.T) {
	a := withResults(t, loggedInApp(), testPosts())
	a.keywords = []model.SavedKeyword{{ID: "k1", Keyword: "go"}}

	model, _ := a.Update(SearchComplete{Keyword: "go", Subreddit: "all", Err: api.ErrAuthExpired})
	updated := model.(App)

	if updated.CurrentView() != "login" {
		t.Fatalf("view = %q, want login", updated.CurrentView())
	}
	if updated.Session() != nil {
		t.Error("session must be discarded")
	}
	if updated.Results().Len() != 0 {
		t.Error("result set must be emptied")
	}
	if len(updated.keywords) != 0 {
		t.Error("session-scoped lists must be discarded")
	}
}

func TestSessionExpiredMessage(t *testing.T) {
	a := withResults(t, loggedInApp(), testPosts())

	model, _ := a.Update(SessionExpired{})
	updated := model.(App)

	if updated.CurrentView() != "login" {
		t.Errorf("view = %q, want login", updated.CurrentView())
	}
}

func TestFilterKeystrokeNarrowsResults(t *testing.T) {
	a := withResults(t, loggedInApp(), testPosts())
	a.showFilters = true

	// Focused input is min upvotes; typing 5 should drop the 3-upvote post.
	model, _ := a.Update(key('5'))
	updated := model.(App)

	if len(updated.Visible()) != 2 {
		t.Fatalf("visible = %d, want 2", len(updated.Visible()))
	}
	for _, p := range updated.Visible() {
		if p.Upvotes < 5 {
			t.Errorf("post %s should be filtered out", p.ID)
		}
	}
	if updated.Results().Len() != 3 {
		t.Error("filtering must not mutate the result set")
	}
}

func TestClearFiltersRestoresAll(t *testing.T) {
	a := withResults(t, loggedInApp(), testPosts())
	a.showFilters = true

	model, _ := a.Update(key('5'))
	a = model.(App)
	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	a = model.(App)

	if len(a.Visible()) != 3 {
		t.Errorf("visible = %d after clear, want 3", len(a.Visible()))
	}
}

func TestDashboardErrorFallsBackToEmpty(t *testing.T) {
	a := loggedInApp()
	a.dashboard = analytics.Dashboard{SummaryStats: analytics.Summary{TotalSearches: 9}}

	model, _ := a.Update(DashboardLoaded{Err: errors.New("boom")})
	updated := model.(App)

	if updated.dashboard.SummaryStats.TotalSearches != 0 {
		t.Error("dashboard should fall back to the zero payload")
	}
	if updated.dashboard.RecentSearches == nil {
		t.Error("fallback lists must be renderable")
	}
	if updated.err == nil {
		t.Error("the error should surface in the error bar")
	}
}

func TestNavigationBounds(t *testing.T) {
	a := withResults(t, loggedInApp(), testPosts())

	model, _ := a.Update(key('k'))
	a = model.(App)
	if a.Cursor() != 0 {
		t.Errorf("k at top should keep cursor at 0, got %d", a.Cursor())
	}

	model, _ = a.Update(key('G'))
	a = model.(App)
	if a.Cursor() != 2 {
		t.Errorf("G should move cursor to 2, got %d", a.Cursor())
	}

	model, _ = a.Update(key('j'))
	a = model.(App)
	if a.Cursor() != 2 {
		t.Errorf("j at bottom should keep cursor at 2, got %d", a.Cursor())
	}
}

func TestQuit(t *testing.T) {
	a := loggedInApp()

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should return tea.Quit")
	}
}

func TestStatusBarShowsFilteredCount(t *testing.T) {
	a := withResults(t, loggedInApp(), testPosts())
	a.ready = true
	a.width = 120
	a.height = 40
	a.showFilters = true

	model, _ := a.Update(key('5'))
	a = model.(App)

	if !strings.Contains(a.View(), "Showing 2 of 3 posts") {
		t.Error("status bar should report the filtered count")
	}
}
