// Package api implements the authenticated request channel to the redlens
// backend. Every authenticated call attaches the current bearer token; a 401
// from any route tears the session down exactly once and blocks further
// authenticated calls until the user logs in again.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mwhitford/redlens/internal/analytics"
	"github.com/mwhitford/redlens/internal/auth"
	"github.com/mwhitford/redlens/internal/logging"
	"github.com/mwhitford/redlens/internal/model"
)

// searchLimit is the fixed batch size for a search. The backend caps at 100.
const searchLimit = 50

// maxResponseBytes caps how much of a response body we read.
const maxResponseBytes = 10 << 20

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the authenticated channel. All backend traffic goes through it.
type Client struct {
	baseURL string
	http    HTTPClient
	creds   *auth.Store

	// limiter paces summarize calls; the model behind /api/summarize is slow
	// and rate limited upstream.
	limiter *rate.Limiter

	mu         sync.Mutex
	onTeardown func()
}

// New creates a Client for the backend at baseURL using the given credential
// store.
func New(baseURL string, creds *auth.Store) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
		creds:   creds,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// NewWithHTTPClient allows injecting a custom transport (for testing).
func NewWithHTTPClient(baseURL string, creds *auth.Store, hc HTTPClient) *Client {
	c := New(baseURL, creds)
	c.http = hc
	return c
}

// OnTeardown registers the callback invoked after a 401 has cleared the
// credential store. The callback must reset all session-scoped state.
func (c *Client) OnTeardown(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTeardown = fn
}

// Logout clears the persisted session without contacting the backend.
func (c *Client) Logout() error {
	return c.creds.Clear()
}

// loginResponse is the body of a successful login or register call.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
	} `json:"user"`
}

// Login authenticates with the backend and persists the returned session.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/api/login", body)
}

// Register creates an account and persists the returned session.
func (c *Client) Register(ctx context.Context, email, password, fullName string) (*auth.Session, error) {
	body := map[string]string{"email": email, "password": password, "full_name": fullName}
	return c.authenticate(ctx, "/api/register", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*auth.Session, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp, false); err != nil {
		return nil, err
	}

	sess := &auth.Session{
		Token:    resp.AccessToken,
		FullName: resp.User.FullName,
		Email:    resp.User.Email,
	}
	if err := c.creds.Set(sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	logging.Info("session established", "email", sess.Email)
	return sess, nil
}

// SearchPosts runs a keyword search. The result replaces the caller's result
// set wholesale.
func (c *Client) SearchPosts(ctx context.Context, keyword, subreddit string) ([]model.Post, error) {
	if subreddit == "" {
		subreddit = "all"
	}
	body := map[string]any{
		"keyword":   keyword,
		"subreddit": subreddit,
		"limit":     searchLimit,
	}

	var posts []model.Post
	if err := c.do(ctx, http.MethodPost, "/api/search-posts", body, &posts, true); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}

// Summarize asks the backend to generate a summary for the given content.
// Calls are paced by an internal rate limiter.
func (c *Client) Summarize(ctx context.Context, content string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	var resp struct {
		Summary string `json:"summary"`
	}
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/api/summarize", body, &resp, true); err != nil {
		return "", err
	}
	return resp.Summary, nil
}

// SavedKeywords fetches the user's saved keywords.
func (c *Client) SavedKeywords(ctx context.Context) ([]model.SavedKeyword, error) {
	var keywords []model.SavedKeyword
	if err := c.do(ctx, http.MethodGet, "/api/saved-keywords", nil, &keywords, true); err != nil {
		return nil, err
	}
	if keywords == nil {
		keywords = []model.SavedKeyword{}
	}
	return keywords, nil
}

// SaveKeyword stores a keyword/subreddit pair on the backend.
func (c *Client) SaveKeyword(ctx context.Context, keyword, subreddit string) (model.SavedKeyword, error) {
	if subreddit == "" {
		subreddit = "all"
	}
	body := map[string]string{"keyword": keyword, "subreddit": subreddit}

	var saved model.SavedKeyword
	if err := c.do(ctx, http.MethodPost, "/api/save-keyword", body, &saved, true); err != nil {
		return model.SavedKeyword{}, err
	}
	return saved, nil
}

// DeleteKeyword removes a saved keyword by ID.
func (c *Client) DeleteKeyword(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/saved-keywords/"+url.PathEscape(id), nil, nil, true)
}

// SearchHistory fetches the user's search history, newest first.
func (c *Client) SearchHistory(ctx context.Context) ([]model.SearchRecord, error) {
	var records []model.SearchRecord
	if err := c.do(ctx, http.MethodGet, "/api/search-history", nil, &records, true); err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.SearchRecord{}
	}
	return records, nil
}

// Dashboard fetches the aggregate analytics payload.
func (c *Client) Dashboard(ctx context.Context) (analytics.Dashboard, error) {
	var d analytics.Dashboard
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &d, true); err != nil {
		return analytics.Dashboard{}, err
	}
	return d, nil
}

// Export is the backend's CSV export payload.
type Export struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// ExportCSV fetches a CSV export of stored posts, optionally narrowed by
// keyword and date range (YYYY-MM-DD).
func (c *Client) ExportCSV(ctx context.Context, keyword, startDate, endDate string) (Export, error) {
	params := url.Values{}
	if keyword != "" {
		params.Set("keyword", keyword)
	}
	if startDate != "" {
		params.Set("start_date", startDate)
	}
	if endDate != "" {
		params.Set("end_date", endDate)
	}

	path := "/api/export/csv"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var export Export
	if err := c.do(ctx, http.MethodGet, path, nil, &export, true); err != nil {
		return Export{}, err
	}
	return export, nil
}

// do performs one request against the backend. Authenticated calls attach
// the current token and run the teardown path on a 401 before surfacing
// anything to the caller.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authenticated bool) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var token string
	if authenticated {
		sess, err := c.creds.Load()
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		if sess == nil {
			return ErrNotAuthenticated
		}
		token = sess.Token
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logging.Warn("request failed", "method", method, "path", path, "error", err)
		return &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &ConnectivityError{Err: err}
	}

	if authenticated && resp.StatusCode == http.StatusUnauthorized {
		c.teardown(token)
		return ErrAuthExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeDetail(respBody)
		logging.Warn("backend rejected request",
			"method", method, "path", path, "status", resp.StatusCode, "detail", detail)
		return &APIError{Status: resp.StatusCode, Detail: detail}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// teardown clears the credential store and resets session-scoped state.
// Runs at most once per failure: concurrent 401s for the same token find the
// store already cleared and do nothing.
func (c *Client) teardown(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.creds.Load()
	if err == nil && (sess == nil || sess.Token != token) {
		return // already torn down, or a newer session took over
	}

	logging.Info("session rejected by backend, tearing down")
	if err := c.creds.Clear(); err != nil {
		logging.Error("failed to clear credentials", "error", err)
	}
	if c.onTeardown != nil {
		c.onTeardown()
	}
}

// decodeDetail extracts the backend's {detail} message, if any.
func decodeDetail(body []byte) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Detail
}
