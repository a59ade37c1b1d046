package ports

import (
	"context"

	"lottolab/domain/draw"
)

// DrawRepository supplies the ordered draw history to the analysis engine
// and persists newly crawled draws. Implementations must return histories
// deduplicated and sorted ascending by draw_no.
type DrawRepository interface {
	// ListDraws returns the full stored history, ascending by draw_no.
	ListDraws(ctx context.Context) (draw.History, error)

	// LatestDrawNo returns the highest stored draw number, 0 when empty.
	LatestDrawNo(ctx context.Context) (int, error)

	// LatestDraw returns the record with the highest draw number, or a
	// NOT_FOUND error when the store is empty.
	LatestDraw(ctx context.Context) (draw.Record, error)

	// SaveDraws inserts the given records, skipping draw numbers already
	// stored, and reports how many were inserted.
	SaveDraws(ctx context.Context, records []draw.Record) (int, error)
}
