package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"lottolab/domain/analysis"
	apperrors "lottolab/internal/errors"
	"lottolab/ports"
)

// snapshotRepository implements ports.SnapshotStore on postgres. Results are
// stored as a JSON document per snapshot; snapshots are whole-document
// replacements keyed by (scope_name, max_draw_no_covered).
type snapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a postgres-backed snapshot store.
func NewSnapshotRepository(db *sqlx.DB) ports.SnapshotStore {
	return &snapshotRepository{db: db}
}

// Save persists a snapshot, replacing any existing one for the same key.
func (r *snapshotRepository) Save(ctx context.Context, snapshot *analysis.Snapshot) error {
	resultsJSON, err := json.Marshal(snapshot.Results)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal snapshot results")
	}

	query := `INSERT INTO analysis_snapshots (id, scope_name, max_draw_no_covered, computed_at, results)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (scope_name, max_draw_no_covered)
		DO UPDATE SET id = EXCLUDED.id, computed_at = EXCLUDED.computed_at, results = EXCLUDED.results`

	_, err = r.db.ExecContext(ctx, query,
		snapshot.ID, snapshot.ScopeName, snapshot.MaxDrawNoCovered, snapshot.ComputedAt, resultsJSON)
	if err != nil {
		return apperrors.DatabaseError("failed to save snapshot", err)
	}
	return nil
}

// Find returns the snapshot for the exact key.
func (r *snapshotRepository) Find(ctx context.Context, scopeName string, maxDrawNo int) (*analysis.Snapshot, error) {
	query := `SELECT id, scope_name, max_draw_no_covered, computed_at, results
		FROM analysis_snapshots WHERE scope_name = $1 AND max_draw_no_covered = $2`

	var snapshot analysis.Snapshot
	var resultsJSON []byte

	err := r.db.QueryRowContext(ctx, query, scopeName, maxDrawNo).
		Scan(&snapshot.ID, &snapshot.ScopeName, &snapshot.MaxDrawNoCovered, &snapshot.ComputedAt, &resultsJSON)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("snapshot")
	}
	if err != nil {
		return nil, apperrors.DatabaseError("failed to scan snapshot", err)
	}

	if err := json.Unmarshal(resultsJSON, &snapshot.Results); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal snapshot results")
	}
	return &snapshot, nil
}
