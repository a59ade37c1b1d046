package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"lottolab/internal/errors"
)

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createDrawsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create lotto_draws table")
	}

	if err := r.createSnapshotsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create analysis_snapshots table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createDrawsTable(ctx context.Context, db *sqlx.DB) error {
	query := `CREATE TABLE IF NOT EXISTS lotto_draws (
		draw_no INTEGER PRIMARY KEY,
		draw_date DATE NOT NULL,
		numbers INTEGER[] NOT NULL,
		bonus INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
	_, err := db.ExecContext(ctx, query)
	return err
}

func (r *MigrationRunner) createSnapshotsTable(ctx context.Context, db *sqlx.DB) error {
	query := `CREATE TABLE IF NOT EXISTS analysis_snapshots (
		id UUID PRIMARY KEY,
		scope_name TEXT NOT NULL,
		max_draw_no_covered INTEGER NOT NULL,
		computed_at TIMESTAMPTZ NOT NULL,
		results JSONB NOT NULL,
		UNIQUE (scope_name, max_draw_no_covered)
	)`
	_, err := db.ExecContext(ctx, query)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	queries := []string{
		`CREATE INDEX IF NOT EXISTS idx_lotto_draws_draw_date ON lotto_draws(draw_date)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_snapshots_scope ON analysis_snapshots(scope_name, max_draw_no_covered DESC)`,
	}
	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}
