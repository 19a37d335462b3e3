package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RunRecord is one row of the runs table.
type RunRecord struct {
	ID             string     `json:"id"`
	Left           string     `json:"left"`
	Right          string     `json:"right"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	Status         string     `json:"status"`
	Error          string     `json:"error,omitempty"`
	Matched        int64      `json:"matched"`
	LeftUnmatched  int64      `json:"left_unmatched"`
	RightUnmatched int64      `json:"right_unmatched"`
	Emitted        int64      `json:"emitted"`
}

// ListRuns returns all runs, oldest first.
//
// Returns an empty slice (not nil) if the ledger is empty.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, left_input, right_input, started_at, finished_at, status, error,
		       matched, left_unmatched, right_unmatched, emitted
		FROM runs
		ORDER BY started_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		var (
			rec      RunRecord
			started  string
			finished sql.NullString
			errText  sql.NullString
		)
		if err := rows.Scan(
			&rec.ID, &rec.Left, &rec.Right, &started, &finished, &rec.Status, &errText,
			&rec.Matched, &rec.LeftUnmatched, &rec.RightUnmatched, &rec.Emitted,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at of run %s: %w", rec.ID, err)
		}
		if finished.Valid {
			t, err := time.Parse(time.RFC3339Nano, finished.String)
			if err != nil {
				return nil, fmt.Errorf("parse finished_at of run %s: %w", rec.ID, err)
			}
			rec.FinishedAt = &t
		}
		rec.Error = errText.String
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Lines returns the output lines recorded for a run, in output order.
func (s *Store) Lines(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT line FROM run_rows WHERE run_id = ? ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	lines := []string{}
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return lines, nil
}
