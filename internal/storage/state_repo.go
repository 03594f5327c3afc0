package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_run_state_store.go -package=mocks librarian/internal/storage RunStateStore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

const (
	keyInProgress = "librarian-ops-indexingInProgress"
	keyTotal      = "librarian-ops-bookmarksLength"
	keyCompleted  = "librarian-ops-bookmarksCounter"
)

// RunStateStore persists the progress counters of a sync run.
type RunStateStore interface {
	// StartRun marks a run as in progress with total bookmarks and zero completed.
	StartRun(ctx context.Context, total int) error
	// SetCompleted records how many bookmarks have settled.
	SetCompleted(ctx context.Context, completed int) error
	// FinishRun clears the in-progress flag. Counters are left as they are.
	FinishRun(ctx context.Context) error
	// GetRunState returns the persisted state. A fresh database yields the zero state.
	GetRunState(ctx context.Context) (RunState, error)
}

// RunStateRepo stores RunState as rows of the ops_state key/value table.
// It implements the RunStateStore interface.
type RunStateRepo struct {
	db *sql.DB
}

// NewRunStateRepo creates a new RunStateRepo.
func NewRunStateRepo(db *sql.DB) *RunStateRepo {
	return &RunStateRepo{db: db}
}

// StartRun writes all three counters in one transaction.
func (r *RunStateRepo) StartRun(ctx context.Context, total int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	values := map[string]string{
		keyInProgress: strconv.FormatBool(true),
		keyTotal:      strconv.Itoa(total),
		keyCompleted:  "0",
	}
	for key, value := range values {
		if err := putValue(ctx, tx, key, value); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run start: %w", err)
	}
	return nil
}

// SetCompleted records the completed counter.
func (r *RunStateRepo) SetCompleted(ctx context.Context, completed int) error {
	return putValue(ctx, r.db, keyCompleted, strconv.Itoa(completed))
}

// FinishRun clears the in-progress flag.
func (r *RunStateRepo) FinishRun(ctx context.Context) error {
	return putValue(ctx, r.db, keyInProgress, strconv.FormatBool(false))
}

// GetRunState reads the counters back. Missing keys are treated as zero.
func (r *RunStateRepo) GetRunState(ctx context.Context) (RunState, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT key, value, updated_at FROM ops_state WHERE key IN (?, ?, ?)",
		keyInProgress, keyTotal, keyCompleted,
	)
	if err != nil {
		return RunState{}, fmt.Errorf("failed to query run state: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var state RunState
	for rows.Next() {
		var key, value string
		var updatedAt time.Time
		if err := rows.Scan(&key, &value, &updatedAt); err != nil {
			return RunState{}, fmt.Errorf("failed to scan run state: %w", err)
		}
		if updatedAt.After(state.UpdatedAt) {
			state.UpdatedAt = updatedAt
		}

		switch key {
		case keyInProgress:
			state.InProgress, err = strconv.ParseBool(value)
		case keyTotal:
			state.Total, err = strconv.Atoi(value)
		case keyCompleted:
			state.Completed, err = strconv.Atoi(value)
		}
		if err != nil {
			return RunState{}, fmt.Errorf("invalid value %q for %s: %w", value, key, err)
		}
	}

	if err := rows.Err(); err != nil {
		return RunState{}, fmt.Errorf("row iteration error: %w", err)
	}

	return state, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putValue(ctx context.Context, db execer, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO ops_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
