package ports

import (
	"context"

	"lottolab/domain/analysis"
)

// SnapshotStore persists analysis snapshots keyed by
// (scope_name, max_draw_no_covered). Stores hold whole documents; a newer
// snapshot supersedes rather than merges.
type SnapshotStore interface {
	// Save persists a snapshot.
	Save(ctx context.Context, snapshot *analysis.Snapshot) error

	// Find returns the snapshot for the exact key, or a NOT_FOUND error.
	Find(ctx context.Context, scopeName string, maxDrawNo int) (*analysis.Snapshot, error)
}
