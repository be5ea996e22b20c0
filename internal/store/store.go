// Package store keeps the reading and reset history of a litmus device in
// SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// The frame loop writes while the HTTP API reads, so file databases run in
// WAL mode and wait on a locked database instead of failing.
var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// Store is the history database.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the history database at dbPath and brings its
// schema up to date. ":memory:" gives a private in-process database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	memory := dbPath == ":memory:" || strings.Contains(dbPath, "mode=memory")
	if memory {
		// Every connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	if !memory {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Prune deletes readings and resets recorded before cutoff, then sessions
// older than cutoff that no longer own any history. It returns the number
// of readings removed.
func (s *Store) Prune(cutoff time.Time) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM readings WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune readings: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(`DELETE FROM resets WHERE created_at < ?`, cutoff); err != nil {
		return 0, fmt.Errorf("failed to prune resets: %w", err)
	}
	if _, err := tx.Exec(
		`DELETE FROM sessions
		 WHERE started_at < ?
		   AND NOT EXISTS (SELECT 1 FROM readings WHERE readings.session_id = sessions.id)
		   AND NOT EXISTS (SELECT 1 FROM resets WHERE resets.session_id = sessions.id)`,
		cutoff,
	); err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}

	return removed, tx.Commit()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}
