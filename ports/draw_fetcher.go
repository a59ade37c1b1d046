package ports

import (
	"context"

	"lottolab/domain/draw"
)

// DrawFetcher retrieves official draw results from an upstream source.
type DrawFetcher interface {
	// FetchDraw returns the record for one draw number. A draw that does
	// not exist yet yields a NOT_FOUND error.
	FetchDraw(ctx context.Context, drawNo int) (draw.Record, error)
}
