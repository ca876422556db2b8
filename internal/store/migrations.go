package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Runs table - one row per benchmark invocation
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL CHECK(mode IN ('image', 'dir', 'tree')),
			input TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			csv_path TEXT NOT NULL,
			cascade TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			finished_at DATETIME,
			processed INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0
		)`,

		// Results table - one row per processed image, mirrors the CSV
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			file TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			detected_count INTEGER NOT NULL,
			time_ns INTEGER NOT NULL,
			first_x INTEGER NOT NULL DEFAULT 0,
			first_y INTEGER NOT NULL DEFAULT 0,
			first_w INTEGER NOT NULL DEFAULT 0,
			first_h INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
