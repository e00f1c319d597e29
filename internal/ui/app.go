package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwhitford/redlens/internal/analytics"
	"github.com/mwhitford/redlens/internal/api"
	"github.com/mwhitford/redlens/internal/auth"
	"github.com/mwhitford/redlens/internal/filter"
	"github.com/mwhitford/redlens/internal/model"
	"github.com/mwhitford/redlens/internal/results"
)

// Backend is the slice of the API client the UI needs. *api.Client satisfies
// it; tests substitute a stub.
type Backend interface {
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	Register(ctx context.Context, email, password, fullName string) (*auth.Session, error)
	Logout() error
	SearchPosts(ctx context.Context, keyword, subreddit string) ([]model.Post, error)
	Summarize(ctx context.Context, content string) (string, error)
	SavedKeywords(ctx context.Context) ([]model.SavedKeyword, error)
	SaveKeyword(ctx context.Context, keyword, subreddit string) (model.SavedKeyword, error)
	DeleteKeyword(ctx context.Context, id string) error
	SearchHistory(ctx context.Context) ([]model.SearchRecord, error)
	Dashboard(ctx context.Context) (analytics.Dashboard, error)
	ExportCSV(ctx context.Context, keyword, startDate, endDate string) (api.Export, error)
}

type view int

const (
	viewLogin view = iota
	viewMain
)

type tab int

const (
	tabSearch tab = iota
	tabDashboard
	tabKeywords
	tabHistory
	tabCount
)

var tabNames = [tabCount]string{"Search", "Dashboard", "Keywords", "History"}

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT talk to the backend synchronously. Every call runs
// in a tea.Cmd and comes back as a typed message; state changes only in
// Update.
type App struct {
	backend Backend
	session *auth.Session

	view view
	tab  tab

	login loginForm

	// Search tab. typing selects between the query inputs capturing keys
	// and the result list owning navigation.
	keywordInput   textinput.Model
	subredditInput textinput.Model
	searchFocus    int
	typing         bool
	searching      bool
	lastKeyword    string
	lastSubreddit  string

	set      *results.Set
	criteria filter.Criteria
	visible  []model.Post
	cursor   int

	filters     filterPanel
	showFilters bool

	spin spinner.Model

	dashboard analytics.Dashboard
	keywords  []model.SavedKeyword
	kwCursor  int
	history   []model.SearchRecord
	hiCursor  int

	status string
	err    error
	width  int
	height int
	ready  bool
}

// NewApp creates the root model. A non-nil session (restored from the
// credential store) skips the login screen.
func NewApp(backend Backend, session *auth.Session, defaultSubreddit string) App {
	keyword := textinput.New()
	keyword.Placeholder = "keyword"
	keyword.CharLimit = 128
	keyword.Focus()

	subreddit := textinput.New()
	subreddit.Placeholder = defaultSubreddit
	subreddit.CharLimit = 64

	a := App{
		backend:        backend,
		session:        session,
		login:          newLoginForm(),
		keywordInput:   keyword,
		subredditInput: subreddit,
		typing:         true,
		set:            &results.Set{},
		visible:        []model.Post{},
		filters:        newFilterPanel(),
		spin:           spinner.New(spinner.WithSpinner(spinner.Dot)),
		dashboard:      analytics.Empty(),
	}
	if session != nil {
		a.view = viewMain
	}
	return a
}

// Init loads the session-scoped lists when a session was restored.
func (a App) Init() tea.Cmd {
	if a.view == viewMain {
		return tea.Batch(textinput.Blink, a.loadDashboard(), a.loadKeywords(), a.loadHistory())
	}
	return textinput.Blink
}

// Commands. Each wraps one backend call and delivers a typed message.

func (a App) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		sess, err := a.backend.Login(context.Background(), email, password)
		return LoggedIn{Session: sess, Err: err}
	}
}

func (a App) registerCmd(email, password, fullName string) tea.Cmd {
	return func() tea.Msg {
		sess, err := a.backend.Register(context.Background(), email, password, fullName)
		return LoggedIn{Session: sess, Err: err}
	}
}

func (a App) searchCmd(keyword, subreddit string) tea.Cmd {
	return func() tea.Msg {
		posts, err := a.backend.SearchPosts(context.Background(), keyword, subreddit)
		return SearchComplete{Keyword: keyword, Subreddit: subreddit, Posts: posts, Err: err}
	}
}

func (a App) summarizeCmd(p model.Post) tea.Cmd {
	content := p.Title
	if p.Body != "" {
		content += "\n\n" + p.Body
	}
	return func() tea.Msg {
		summary, err := a.backend.Summarize(context.Background(), content)
		return SummaryComplete{PostID: p.ID, Summary: summary, Err: err}
	}
}

func (a App) loadKeywords() tea.Cmd {
	return func() tea.Msg {
		keywords, err := a.backend.SavedKeywords(context.Background())
		return KeywordsLoaded{Keywords: keywords, Err: err}
	}
}

func (a App) saveKeywordCmd(keyword, subreddit string) tea.Cmd {
	return func() tea.Msg {
		saved, err := a.backend.SaveKeyword(context.Background(), keyword, subreddit)
		return KeywordSaved{Keyword: saved, Err: err}
	}
}

func (a App) deleteKeywordCmd(id string) tea.Cmd {
	return func() tea.Msg {
		err := a.backend.DeleteKeyword(context.Background(), id)
		return KeywordDeleted{ID: id, Err: err}
	}
}

func (a App) loadHistory() tea.Cmd {
	return func() tea.Msg {
		records, err := a.backend.SearchHistory(context.Background())
		return HistoryLoaded{Records: records, Err: err}
	}
}

func (a App) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		d, err := a.backend.Dashboard(context.Background())
		return DashboardLoaded{Dashboard: d, Err: err}
	}
}

func (a App) exportCmd(keyword, startDate, endDate string) tea.Cmd {
	return func() tea.Msg {
		export, err := a.backend.ExportCSV(context.Background(), keyword, startDate, endDate)
		if err != nil {
			return ExportComplete{Err: err}
		}
		name := export.Filename
		if name == "" {
			name = "redlens-export.csv"
		}
		if err := os.WriteFile(name, []byte(export.Content), 0o644); err != nil {
			return ExportComplete{Err: fmt.Errorf("write export: %w", err)}
		}
		return ExportComplete{Path: name}
	}
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		if a.searching || a.set.InFlightCount() > 0 {
			return a, cmd
		}
		return a, nil

	case SessionExpired:
		return a.dropToLogin("session expired, sign in again"), nil

	case LoggedIn:
		a.login.submitting = false
		if msg.Err != nil {
			a.login.errMsg = userMessage(msg.Err)
			return a, nil
		}
		a.session = msg.Session
		a.login.reset()
		a.view = viewMain
		a.tab = tabSearch
		a.typing = true
		a.keywordInput.Focus()
		return a, tea.Batch(a.loadDashboard(), a.loadKeywords(), a.loadHistory())

	case SearchComplete:
		// A response for a superseded query must not disturb the current
		// one, including its searching indicator. An auth failure still
		// tears the session down.
		if msg.Keyword != a.lastKeyword || msg.Subreddit != a.lastSubreddit {
			if done, cmd := a.authGate(msg.Err); done {
				return a, cmd
			}
			return a, nil
		}
		a.searching = false
		if msg.Err != nil {
			return a.fail(msg.Err)
		}
		a.set.Replace(msg.Posts)
		a.refreshVisible()
		a.cursor = 0
		a.typing = false
		a.keywordInput.Blur()
		a.subredditInput.Blur()
		a.status = fmt.Sprintf("found %d posts for %q", a.set.Len(), msg.Keyword)
		return a, a.loadHistory()

	case SummaryComplete:
		if msg.Err != nil {
			a.set.Fail(msg.PostID)
			if done, cmd := a.authGate(msg.Err); done {
				return a, cmd
			}
			a.err = msg.Err
			return a, nil
		}
		a.set.Complete(msg.PostID, msg.Summary)
		a.refreshVisible()
		return a, nil

	case KeywordsLoaded:
		if msg.Err != nil {
			return a.fail(msg.Err)
		}
		a.keywords = msg.Keywords
		if a.kwCursor >= len(a.keywords) && len(a.keywords) > 0 {
			a.kwCursor = len(a.keywords) - 1
		}
		return a, nil

	case KeywordSaved:
		if msg.Err != nil {
			return a.fail(msg.Err)
		}
		a.status = fmt.Sprintf("saved %q", msg.Keyword.Keyword)
		return a, a.loadKeywords()

	case KeywordDeleted:
		if msg.Err != nil {
			return a.fail(msg.Err)
		}
		a.status = "keyword deleted"
		return a, a.loadKeywords()

	case HistoryLoaded:
		if msg.Err != nil {
			return a.fail(msg.Err)
		}
		a.history = msg.Records
		if a.hiCursor >= len(a.history) && len(a.history) > 0 {
			a.hiCursor = len(a.history) - 1
		}
		return a, nil

	case DashboardLoaded:
		if msg.Err != nil {
			// The dashboard is always renderable: fall back to the
			// zero payload and surface the error separately.
			a.dashboard = analytics.Empty()
			return a.fail(msg.Err)
		}
		a.dashboard = msg.Dashboard.Normalize()
		return a, nil

	case ExportComplete:
		if msg.Err != nil {
			return a.fail(msg.Err)
		}
		a.status = "exported to " + msg.Path
		return a, nil
	}

	return a, nil
}

// fail routes an async error: auth failures drop to login, everything else
// shows in the error bar.
func (a App) fail(err error) (tea.Model, tea.Cmd) {
	if done, cmd := a.authGate(err); done {
		return a, cmd
	}
	a.err = err
	return a, nil
}

// authGate reports whether err is an auth failure. The bool result doubles as
// "already handled"; callers must not keep processing when it is true.
func (a *App) authGate(err error) (bool, tea.Cmd) {
	if errors.Is(err, api.ErrAuthExpired) || errors.Is(err, api.ErrNotAuthenticated) {
		*a = a.dropToLogin("session expired, sign in again")
		return true, nil
	}
	return false, nil
}

// dropToLogin discards all session-scoped state and returns to the login
// view. Late async responses after this are harmless: the result set is
// empty, so completions fall through as no-ops.
func (a App) dropToLogin(reason string) App {
	a.session = nil
	a.view = viewLogin
	a.login = newLoginForm()
	a.login.errMsg = reason

	a.set.Clear()
	a.visible = []model.Post{}
	a.cursor = 0
	a.keywords = nil
	a.history = nil
	a.dashboard = analytics.Empty()
	a.keywordInput.SetValue("")
	a.subredditInput.SetValue("")
	a.searching = false
	a.typing = true
	a.showFilters = false
	a.status = ""
	a.err = nil
	return a
}

// refreshVisible recomputes the filtered projection of the result set.
func (a *App) refreshVisible() {
	a.criteria = a.filters.criteria()
	a.visible = filter.Apply(a.set.Posts(), a.criteria)
	if a.cursor >= len(a.visible) && len(a.visible) > 0 {
		a.cursor = len(a.visible) - 1
	}
	if len(a.visible) == 0 {
		a.cursor = 0
	}
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.err != nil {
		a.err = nil
	}

	if a.view == viewLogin {
		return a.handleLoginKey(msg)
	}
	return a.handleMainKey(msg)
}

func (a App) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		a.login.cycleFocus(1)
		return a, nil
	case "shift+tab", "up":
		a.login.cycleFocus(-1)
		return a, nil
	case "ctrl+r":
		a.login.toggleMode()
		return a, nil
	case "enter":
		if a.login.submitting {
			return a, nil
		}
		if msg := a.login.validate(); msg != "" {
			a.login.errMsg = msg
			return a, nil
		}
		a.login.submitting = true
		a.login.errMsg = ""
		email := strings.TrimSpace(a.login.email.Value())
		password := a.login.password.Value()
		if a.login.register {
			return a, a.registerCmd(email, password, strings.TrimSpace(a.login.fullName.Value()))
		}
		return a, a.loginCmd(email, password)
	}

	var cmd tea.Cmd
	a.login, cmd = a.login.updateInputs(msg)
	return a, cmd
}

func (a App) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The filter panel captures everything while open.
	if a.showFilters {
		return a.handleFilterKey(msg)
	}

	// Logout works everywhere, even while the query inputs have focus.
	if msg.String() == "ctrl+l" {
		if err := a.backend.Logout(); err != nil {
			a.err = err
			return a, nil
		}
		return a.dropToLogin("signed out"), nil
	}

	if a.tab == tabSearch && a.typing {
		return a.handleQueryKey(msg)
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "tab":
		a.tab = (a.tab + 1) % tabCount
		return a, a.tabEnterCmd()
	case "shift+tab":
		a.tab = (a.tab + tabCount - 1) % tabCount
		return a, a.tabEnterCmd()
	case "1", "2", "3", "4":
		a.tab = tab(int(msg.String()[0] - '1'))
		return a, a.tabEnterCmd()
	}

	switch a.tab {
	case tabSearch:
		return a.handleResultsKey(msg)
	case tabDashboard:
		if msg.String() == "r" {
			return a, a.loadDashboard()
		}
	case tabKeywords:
		return a.handleKeywordsKey(msg)
	case tabHistory:
		return a.handleHistoryKey(msg)
	}
	return a, nil
}

// tabEnterCmd refreshes the data behind the tab being switched to.
func (a App) tabEnterCmd() tea.Cmd {
	switch a.tab {
	case tabDashboard:
		return a.loadDashboard()
	case tabKeywords:
		return a.loadKeywords()
	case tabHistory:
		return a.loadHistory()
	}
	return nil
}

func (a App) handleQueryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		a.searchFocus = 1 - a.searchFocus
		if a.searchFocus == 0 {
			a.keywordInput.Focus()
			a.subredditInput.Blur()
		} else {
			a.keywordInput.Blur()
			a.subredditInput.Focus()
		}
		return a, textinput.Blink
	case "esc":
		// Always leaves the inputs, results or not, so the other tabs
		// stay reachable before the first search.
		a.typing = false
		a.keywordInput.Blur()
		a.subredditInput.Blur()
		return a, nil
	case "enter":
		keyword := strings.TrimSpace(a.keywordInput.Value())
		if keyword == "" {
			a.err = errors.New("enter a keyword to search")
			return a, nil
		}
		return a.startSearch(keyword, strings.TrimSpace(a.subredditInput.Value()))
	}

	var cmd tea.Cmd
	if a.searchFocus == 0 {
		a.keywordInput, cmd = a.keywordInput.Update(msg)
	} else {
		a.subredditInput, cmd = a.subredditInput.Update(msg)
	}
	return a, cmd
}

func (a App) startSearch(keyword, subreddit string) (tea.Model, tea.Cmd) {
	a.searching = true
	a.status = ""
	a.lastKeyword = keyword
	a.lastSubreddit = subreddit
	return a, tea.Batch(a.searchCmd(keyword, subreddit), a.spin.Tick)
}

func (a App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		a.typing = true
		a.searchFocus = 0
		a.keywordInput.Focus()
		a.subredditInput.Blur()
		return a, textinput.Blink

	case "j", "down":
		if a.cursor < len(a.visible)-1 {
			a.cursor++
		}
		return a, nil
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "g", "home":
		a.cursor = 0
		return a, nil
	case "G", "end":
		if len(a.visible) > 0 {
			a.cursor = len(a.visible) - 1
		}
		return a, nil

	case "s", "enter":
		if len(a.visible) == 0 || a.cursor >= len(a.visible) {
			return a, nil
		}
		p := a.visible[a.cursor]
		if p.Summary != "" {
			return a, nil
		}
		// Begin rejects duplicates; only a granted claim issues a request.
		if !a.set.Begin(p.ID) {
			return a, nil
		}
		return a, tea.Batch(a.summarizeCmd(p), a.spin.Tick)

	case "f":
		a.showFilters = true
		return a, textinput.Blink

	case "w":
		if a.lastKeyword == "" {
			a.err = errors.New("run a search before saving a keyword")
			return a, nil
		}
		return a, a.saveKeywordCmd(a.lastKeyword, a.lastSubreddit)

	case "e":
		start, end := "", ""
		if a.criteria.StartDate != nil {
			start = a.criteria.StartDate.Format("2006-01-02")
		}
		if a.criteria.EndDate != nil {
			end = a.criteria.EndDate.Format("2006-01-02")
		}
		return a, a.exportCmd(a.lastKeyword, start, end)

	case "r":
		if a.lastKeyword != "" {
			return a.startSearch(a.lastKeyword, a.lastSubreddit)
		}
		return a, nil
	}
	return a, nil
}

func (a App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.showFilters = false
		return a, nil
	case "tab", "down":
		a.filters.cycleFocus(1)
		return a, nil
	case "shift+tab", "up":
		a.filters.cycleFocus(-1)
		return a, nil
	case "ctrl+x":
		a.filters.clear()
		a.refreshVisible()
		return a, nil
	}

	var cmd tea.Cmd
	a.filters, cmd = a.filters.update(msg)
	// Filtering is pure and cheap: reapply on every keystroke.
	a.refreshVisible()
	return a, cmd
}

func (a App) handleKeywordsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if a.kwCursor < len(a.keywords)-1 {
			a.kwCursor++
		}
	case "k", "up":
		if a.kwCursor > 0 {
			a.kwCursor--
		}
	case "enter":
		if a.kwCursor < len(a.keywords) {
			k := a.keywords[a.kwCursor]
			a.tab = tabSearch
			a.keywordInput.SetValue(k.Keyword)
			a.subredditInput.SetValue(k.Subreddit)
			return a.startSearch(k.Keyword, k.Subreddit)
		}
	case "d":
		if a.kwCursor < len(a.keywords) {
			return a, a.deleteKeywordCmd(a.keywords[a.kwCursor].ID)
		}
	case "r":
		return a, a.loadKeywords()
	}
	return a, nil
}

func (a App) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if a.hiCursor < len(a.history)-1 {
			a.hiCursor++
		}
	case "k", "up":
		if a.hiCursor > 0 {
			a.hiCursor--
		}
	case "enter":
		if a.hiCursor < len(a.history) {
			r := a.history[a.hiCursor]
			a.tab = tabSearch
			a.keywordInput.SetValue(r.Keyword)
			a.subredditInput.SetValue(r.Subreddit)
			return a.startSearch(r.Keyword, r.Subreddit)
		}
	case "r":
		return a, a.loadHistory()
	}
	return a, nil
}

// userMessage flattens an error for display. Connectivity problems get a
// friendlier line than the raw transport error.
func userMessage(err error) string {
	var connErr *api.ConnectivityError
	if errors.As(err, &connErr) {
		return "cannot reach the backend, check your connection"
	}
	return err.Error()
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.view == viewLogin {
		return a.login.view(a.width, a.height)
	}

	header := a.renderHeader()
	statusBar := a.renderStatusBar()

	contentHeight := a.height - 3 // title, tabs, status bar
	errorBar := ""
	if a.err != nil {
		errorBar = ErrorStyle.Width(a.width).Render("Error: " + userMessage(a.err) + " (press any key to dismiss)")
		contentHeight--
	}

	var content string
	switch a.tab {
	case tabSearch:
		content = a.renderSearchTab(contentHeight)
	case tabDashboard:
		content = renderDashboard(a.dashboard, a.width)
	case tabKeywords:
		content = renderKeywords(a.keywords, a.kwCursor, a.width)
	case tabHistory:
		content = renderHistory(a.history, a.hiCursor, a.width)
	}

	out := header + "\n" + content
	if errorBar != "" {
		out += "\n" + errorBar
	}
	return out + "\n" + statusBar
}

func (a App) renderHeader() string {
	identity := ""
	if a.session != nil {
		identity = a.session.Email
	}
	title := TitleBar.Render("redlens") + " " + StatusBarText.Render(identity)

	var tabs []string
	for i := tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d:%s", i+1, tabNames[i])
		if i == a.tab {
			tabs = append(tabs, ActiveTab.Render(label))
		} else {
			tabs = append(tabs, InactiveTab.Render(label))
		}
	}
	return title + "\n" + strings.Join(tabs, " ")
}

func (a App) renderSearchTab(height int) string {
	query := FormLabel.Render("Keyword ") + a.keywordInput.View() +
		FormLabel.Render("   Subreddit ") + a.subredditInput.View()

	if a.searching {
		return query + "\n\n" + NormalItem.Render(a.spin.View()+" searching...")
	}

	body := renderPosts(a.visible, a.cursor, a.set.InFlight, a.spin.View(), a.width, height-2)
	if a.showFilters {
		body = a.filters.view() + "\n" + body
	}
	return query + "\n" + body
}

func (a App) renderStatusBar() string {
	var parts []string

	if a.set.Len() > 0 {
		if a.criteria.IsZero() {
			parts = append(parts, fmt.Sprintf("%d posts", a.set.Len()))
		} else {
			parts = append(parts, fmt.Sprintf("Showing %d of %d posts", len(a.visible), a.set.Len()))
		}
	}
	if n := a.set.InFlightCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d summarizing", n))
	}
	if a.status != "" {
		parts = append(parts, a.status)
	}

	help := "[/]search [s]ummarize [f]ilters [w]save [e]xport [tab]switch [ctrl+l]logout [q]uit"
	if len(parts) == 0 {
		return StatusBar.Width(a.width).Render(StatusBarText.Render(help))
	}
	return StatusBar.Width(a.width).Render(strings.Join(parts, "  •  ") + "  " + StatusBarText.Render(help))
}

// Accessors for tests.

func (a App) Cursor() int            { return a.cursor }
func (a App) Visible() []model.Post  { return a.visible }
func (a App) Results() *results.Set  { return a.set }
func (a App) Session() *auth.Session { return a.session }
func (a App) CurrentView() string    { return [...]string{"login", "main"}[a.view] }
func (a App) CurrentTab() string     { return tabNames[a.tab] }
