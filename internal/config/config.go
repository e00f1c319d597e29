// Package config handles the persistent application configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration.
type Config struct {
	// BackendURL is the base URL of the redlens backend.
	BackendURL string `json:"backend_url"`

	// DefaultSubreddit pre-fills the subreddit field on the search form.
	DefaultSubreddit string `json:"default_subreddit"`
}

// Default returns sensible defaults.
func Default() *Config {
	return &Config{
		BackendURL:       "http://localhost:8001",
		DefaultSubreddit: "all",
	}
}

// DataDir returns the directory holding the config file, session database,
// and logs.
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".redlens")
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(DataDir(), "config.json")
}

// Load reads config from disk, or returns defaults. The REDLENS_BACKEND_URL
// environment variable overrides the file in either case.
func Load() (*Config, error) {
	cfg, err := loadFile(Path())
	if err != nil {
		return nil, err
	}

	if url := os.Getenv("REDLENS_BACKEND_URL"); url != "" {
		cfg.BackendURL = url
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		// An unreadable config should not brick the app.
		return Default(), nil
	}
	return cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
