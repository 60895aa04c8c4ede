package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema for the maneuver log.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createManeuversQuery := `
	CREATE TABLE IF NOT EXISTS maneuvers (
		maneuver_id TEXT PRIMARY KEY,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ,
		start_x DOUBLE PRECISION NOT NULL,
		start_y DOUBLE PRECISION NOT NULL,
		start_orientation TEXT NOT NULL,
		destination_x DOUBLE PRECISION NOT NULL,
		destination_y DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL
	);
	`

	createStepsQuery := `
	CREATE TABLE IF NOT EXISTS maneuver_steps (
		maneuver_id TEXT NOT NULL REFERENCES maneuvers(maneuver_id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		distance DOUBLE PRECISION,
		direction TEXT,
		after_x DOUBLE PRECISION NOT NULL,
		after_y DOUBLE PRECISION NOT NULL,
		after_orientation TEXT NOT NULL,
		PRIMARY KEY (maneuver_id, seq)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_maneuvers_started_at
	ON maneuvers(started_at DESC);
	`

	statements := []string{
		createManeuversQuery,
		createStepsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
