package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Reading is a stored change of the stable class.
type Reading struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	ClassID   string    `json:"class_id"`
	ClassName string    `json:"class_name"`
	CX        int       `json:"cx"`
	CY        int       `json:"cy"`
	Area      int       `json:"area"`
	CreatedAt time.Time `json:"created_at"`
}

// ReadingRepository provides access to readings.
type ReadingRepository struct {
	db *sql.DB
}

// Readings returns the reading repository for this store.
func (s *Store) Readings() *ReadingRepository {
	return &ReadingRepository{db: s.db}
}

// Create inserts a reading. ID and CreatedAt are filled in when empty.
func (r *ReadingRepository) Create(rd *Reading) error {
	if rd.ID == "" {
		rd.ID = uuid.NewString()
	}
	if rd.CreatedAt.IsZero() {
		rd.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO readings (id, session_id, class_id, class_name, cx, cy, area, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rd.ID, rd.SessionID, rd.ClassID, rd.ClassName, rd.CX, rd.CY, rd.Area, rd.CreatedAt,
	)
	return err
}

// GetByID retrieves a reading by its ID.
func (r *ReadingRepository) GetByID(id string) (*Reading, error) {
	rd := &Reading{}
	err := r.db.QueryRow(
		`SELECT id, session_id, class_id, class_name, cx, cy, area, created_at
		 FROM readings WHERE id = ?`,
		id,
	).Scan(&rd.ID, &rd.SessionID, &rd.ClassID, &rd.ClassName, &rd.CX, &rd.CY, &rd.Area, &rd.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return rd, nil
}

// List returns the most recent readings first. A non-empty classID
// filters by class; limit <= 0 returns everything.
func (r *ReadingRepository) List(classID string, limit int) ([]*Reading, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, class_id, class_name, cx, cy, area, created_at
		 FROM readings
		 WHERE (? = '' OR class_id = ?)
		 ORDER BY rowid DESC
		 LIMIT ?`,
		classID, classID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []*Reading
	for rows.Next() {
		rd := &Reading{}
		if err := rows.Scan(&rd.ID, &rd.SessionID, &rd.ClassID, &rd.ClassName, &rd.CX, &rd.CY, &rd.Area, &rd.CreatedAt); err != nil {
			return nil, err
		}
		readings = append(readings, rd)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return readings, nil
}

// CountByClass returns how many readings each class has.
func (r *ReadingRepository) CountByClass() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT class_id, COUNT(*) FROM readings GROUP BY class_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}

	return counts, rows.Err()
}
