// Package auth provides durable storage for the active session.
package auth

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Session is the authenticated identity: the bearer token plus the profile
// returned at login. The token is opaque to the client.
type Session struct {
	Token    string
	FullName string
	Email    string
}

// Store persists at most one session in SQLite. It is the sole source of
// truth for whether a session is active; other components only read from it.
type Store struct {
	db *sql.DB
}

// Open creates a Store backed by the database at the given path, creating
// the schema if needed. Uses WAL mode for file-based databases.
func Open(path string) (*Store, error) {
	connStr := path
	if path == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// The fixed id=1 row enforces the at-most-one-session invariant.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load restores the persisted session, or returns (nil, nil) when none is
// stored.
func (s *Store) Load() (*Session, error) {
	row := s.db.QueryRow("SELECT token, full_name, email FROM session WHERE id = 1")

	var sess Session
	err := row.Scan(&sess.Token, &sess.FullName, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &sess, nil
}

// Set persists and activates a session, replacing any previous one.
func (s *Store) Set(sess *Session) error {
	_, err := s.db.Exec(`
		INSERT INTO session (id, token, full_name, email) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token,
			full_name = excluded.full_name, email = excluded.email
	`, sess.Token, sess.FullName, sess.Email)
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Clear deletes the persisted session. Idempotent: clearing an empty store
// is not an error.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM session WHERE id = 1"); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
