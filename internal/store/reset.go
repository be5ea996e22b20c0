package store

import (
	"database/sql"
	"time"
)

// ResetReason is why the camera was reset.
type ResetReason string

const (
	// ResetLowFPS is a reset requested by the throughput watchdog.
	ResetLowFPS ResetReason = "low_fps"
	// ResetAcquisition is a reset after a failed frame read.
	ResetAcquisition ResetReason = "acquisition"
)

// Reset is a stored camera reset.
type Reset struct {
	ID        int64       `json:"id"`
	SessionID string      `json:"session_id"`
	Reason    ResetReason `json:"reason"`
	FPS       float64     `json:"fps"`
	CreatedAt time.Time   `json:"created_at"`
}

// ResetRepository provides access to resets.
type ResetRepository struct {
	db *sql.DB
}

// Resets returns the reset repository for this store.
func (s *Store) Resets() *ResetRepository {
	return &ResetRepository{db: s.db}
}

// Create inserts a reset and sets its ID.
func (r *ResetRepository) Create(rs *Reset) error {
	if rs.CreatedAt.IsZero() {
		rs.CreatedAt = time.Now()
	}

	result, err := r.db.Exec(
		`INSERT INTO resets (session_id, reason, fps, created_at) VALUES (?, ?, ?, ?)`,
		rs.SessionID, string(rs.Reason), rs.FPS, rs.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rs.ID = id
	return nil
}

// List returns the most recent resets first; limit <= 0 returns everything.
func (r *ResetRepository) List(limit int) ([]*Reset, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, reason, fps, created_at
		 FROM resets ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resets []*Reset
	for rows.Next() {
		rs := &Reset{}
		var reason string
		if err := rows.Scan(&rs.ID, &rs.SessionID, &reason, &rs.FPS, &rs.CreatedAt); err != nil {
			return nil, err
		}
		rs.Reason = ResetReason(reason)
		resets = append(resets, rs)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return resets, nil
}
