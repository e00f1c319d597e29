package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/mwhitford/redlens/internal/auth"
)

// seedSession persists a session under the test home directory so the binary
// starts on the main view instead of the login screen.
func seedSession(homeDir string) error {
	dataDir := filepath.Join(homeDir, ".redlens")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	store, err := auth.Open(filepath.Join(dataDir, "redlens.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Set(&auth.Session{
		Token:    "e2e-token",
		FullName: "E2E User",
		Email:    "e2e@example.com",
	})
}

// startStubBackend serves deterministic responses for the routes the UI hits
// on startup and during a search.
func startStubBackend() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/search-posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{
			{
				"id":              "fix-1",
				"title":           "Fixture Post One",
				"author":          "tester",
				"subreddit":       "golang",
				"upvotes":         42,
				"comments":        7,
				"created_utc":     float64(time.Now().Add(-10*time.Minute).Unix()),
				"sentiment_score": 8.0,
				"permalink":       "https://reddit.com/r/golang/fix-1",
				"url":             "https://example.com/fix-1",
			},
		})
	})
	mux.HandleFunc("/api/saved-keywords", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []any{})
	})
	mux.HandleFunc("/api/search-history", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []any{})
	})
	mux.HandleFunc("/api/dashboard", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"recent_searches":  []any{},
			"sentiment_trends": []any{},
			"keyword_stats":    []any{},
			"summary_stats":    map[string]any{"total_searches": 0, "total_posts": 0},
		})
	})

	return httptest.NewServer(mux)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
