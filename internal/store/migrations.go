package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per process run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Readings table - every change of the stable class
		`CREATE TABLE IF NOT EXISTS readings (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			class_id TEXT NOT NULL,
			class_name TEXT NOT NULL,
			cx INTEGER NOT NULL DEFAULT 0,
			cy INTEGER NOT NULL DEFAULT 0,
			area INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Resets table - every camera reset and its cause
		`CREATE TABLE IF NOT EXISTS resets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			reason TEXT NOT NULL CHECK(reason IN ('low_fps', 'acquisition')),
			fps REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_readings_session_id ON readings(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_readings_class_id ON readings(class_id)`,
		`CREATE INDEX IF NOT EXISTS idx_resets_session_id ON resets(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
