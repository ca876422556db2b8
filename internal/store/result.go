package store

import (
	"database/sql"
)

// Result represents one processed image of a run stored in the database.
type Result struct {
	ID            int64
	RunID         string
	Seq           int
	File          string
	Type          string
	DetectedCount int
	TimeNs        int64
	FirstX        int
	FirstY        int
	FirstW        int
	FirstH        int
}

// ResultRepository provides operations for per-image results.
type ResultRepository struct {
	db *sql.DB
}

// Results returns the result repository for this store.
func (s *Store) Results() *ResultRepository {
	return &ResultRepository{db: s.db}
}

// Add appends a result to its run and sets res.ID.
func (r *ResultRepository) Add(res *Result) error {
	result, err := r.db.Exec(
		`INSERT INTO results (run_id, seq, file, type, detected_count, time_ns, first_x, first_y, first_w, first_h)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, res.Seq, res.File, res.Type, res.DetectedCount, res.TimeNs,
		res.FirstX, res.FirstY, res.FirstW, res.FirstH,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = id

	return nil
}

// ListByRun retrieves all results for a run in processing order.
func (r *ResultRepository) ListByRun(runID string) ([]Result, error) {
	rows, err := r.db.Query(
		`SELECT id, run_id, seq, file, type, detected_count, time_ns, first_x, first_y, first_w, first_h
		 FROM results
		 WHERE run_id = ?
		 ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var res Result
		if err := rows.Scan(&res.ID, &res.RunID, &res.Seq, &res.File, &res.Type, &res.DetectedCount,
			&res.TimeNs, &res.FirstX, &res.FirstY, &res.FirstW, &res.FirstH); err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// CountByRun returns the number of results stored for a run.
func (r *ResultRepository) CountByRun(runID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM results WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}
