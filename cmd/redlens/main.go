// redlens - Reddit social listening from the terminal
//
// Architecture overview:
//   internal/api      - authenticated channel to the backend
//   internal/results  - result set + enrichment bookkeeping
//   internal/filter   - pure display filters
//   internal/ui       - Bubble Tea UI
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/mwhitford/redlens/internal/api"
	"github.com/mwhitford/redlens/internal/auth"
	"github.com/mwhitford/redlens/internal/config"
	"github.com/mwhitford/redlens/internal/logging"
	"github.com/mwhitford/redlens/internal/ui"
)

func main() {
	// A .env in the working directory can override the backend URL.
	_ = godotenv.Load()

	if err := logging.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		fatal("Failed to load config: %v", err)
	}
	logging.Info("redlens starting", "backend", cfg.BackendURL)

	if err := os.MkdirAll(config.DataDir(), 0o755); err != nil {
		fatal("Failed to create data directory: %v", err)
	}

	creds, err := auth.Open(filepath.Join(config.DataDir(), "redlens.db"))
	if err != nil {
		fatal("Failed to open credential store: %v", err)
	}
	defer creds.Close()

	client := api.New(cfg.BackendURL, creds)

	// A persisted session skips the login screen. Its token may have
	// expired since the last run; the first 401 drops back to login.
	session, err := creds.Load()
	if err != nil {
		logging.Warn("Failed to restore session", "error", err)
	}

	app := ui.NewApp(client, session, cfg.DefaultSubreddit)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// A rejected token can surface from any in-flight command; the
	// program message keeps the UI and the credential store in step.
	client.OnTeardown(func() {
		p.Send(ui.SessionExpired{})
	})

	if _, err := p.Run(); err != nil {
		logging.Error("Application error", "error", err)
		fatal("Error: %v", err)
	}

	logging.Info("redlens exiting normally")
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
