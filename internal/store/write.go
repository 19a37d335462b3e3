package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Summary holds the row counts recorded when a run finishes.
type Summary struct {
	Matched        int64
	LeftUnmatched  int64
	RightUnmatched int64
	Emitted        int64
}

// Run is an open ledger entry. Lines appended to it are buffered in a
// transaction until Finish.
type Run struct {
	ID string

	store *Store
	ctx   context.Context
	tx    *sql.Tx
	stmt  *sql.Stmt
	seq   int64
}

// Begin records the start of a run over the named inputs and opens the
// transaction its rows are written in.
func (s *Store) Begin(ctx context.Context, left, right string) (*Run, error) {
	id := s.ids.Generate()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, left_input, right_input, started_at, status)
		VALUES (?, ?, ?, ?, ?)
	`, id, left, right, formatTime(s.clock.Now()), StatusRunning)
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin run: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_rows (run_id, seq, line) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("begin run: prepare: %w", err)
	}

	return &Run{ID: id, store: s, ctx: ctx, tx: tx, stmt: stmt}, nil
}

// Append records one output line.
func (r *Run) Append(line string) error {
	r.seq++
	if _, err := r.stmt.ExecContext(r.ctx, r.ID, r.seq, line); err != nil {
		return fmt.Errorf("append row %d: %w", r.seq, err)
	}
	return nil
}

// Tee returns a line sink that records each line and then passes it on to
// next.
func (r *Run) Tee(next func(string) error) func(string) error {
	return func(line string) error {
		if err := r.Append(line); err != nil {
			return err
		}
		return next(line)
	}
}

// Finish commits the run's rows and records its outcome. A non-nil runErr
// marks the run failed; rows written before the failure are kept.
func (r *Run) Finish(sum Summary, runErr error) error {
	r.stmt.Close()
	if err := r.tx.Commit(); err != nil {
		return fmt.Errorf("finish run: commit rows: %w", err)
	}

	status := StatusSucceeded
	var errText sql.NullString
	if runErr != nil {
		status = StatusFailed
		errText = sql.NullString{String: runErr.Error(), Valid: true}
	}

	_, err := r.store.db.ExecContext(r.ctx, `
		UPDATE runs
		SET finished_at = ?, status = ?, error = ?,
		    matched = ?, left_unmatched = ?, right_unmatched = ?, emitted = ?
		WHERE id = ?
	`,
		formatTime(r.store.clock.Now()),
		status,
		errText,
		sum.Matched,
		sum.LeftUnmatched,
		sum.RightUnmatched,
		sum.Emitted,
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
