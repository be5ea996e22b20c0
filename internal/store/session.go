package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is one run of the frame loop.
type Session struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	StartedAt time.Time `json:"started_at"`
}

// SessionRepository provides access to sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Start inserts a new session for the given frame source.
func (r *SessionRepository) Start(source string) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		Source:    source,
		StartedAt: time.Now(),
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, source, started_at) VALUES (?, ?, ?)`,
		sess.ID, sess.Source, sess.StartedAt,
	)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	err := r.db.QueryRow(
		`SELECT id, source, started_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.Source, &sess.StartedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return sess, nil
}
