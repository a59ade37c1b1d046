package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottolab/domain/draw"
	apperrors "lottolab/internal/errors"
	"lottolab/internal/testkit"
)

// fakeRepo is an in-memory ports.DrawRepository.
type fakeRepo struct {
	history draw.History
	failing bool
}

func (r *fakeRepo) ListDraws(ctx context.Context) (draw.History, error) {
	if r.failing {
		return nil, apperrors.DatabaseError("repo down", nil)
	}
	return r.history, nil
}

func (r *fakeRepo) LatestDrawNo(ctx context.Context) (int, error) {
	if r.failing {
		return 0, apperrors.DatabaseError("repo down", nil)
	}
	return r.history.MaxDrawNo(), nil
}

func (r *fakeRepo) LatestDraw(ctx context.Context) (draw.Record, error) {
	if r.failing {
		return draw.Record{}, apperrors.DatabaseError("repo down", nil)
	}
	var latest draw.Record
	for _, rec := range r.history {
		if rec.DrawNo > latest.DrawNo {
			latest = rec
		}
	}
	if latest.DrawNo == 0 {
		return draw.Record{}, apperrors.NotFound("latest draw")
	}
	return latest, nil
}

func (r *fakeRepo) SaveDraws(ctx context.Context, records []draw.Record) (int, error) {
	if r.failing {
		return 0, apperrors.DatabaseError("repo down", nil)
	}
	known := make(map[int]bool, len(r.history))
	for _, rec := range r.history {
		known[rec.DrawNo] = true
	}
	inserted := 0
	for _, rec := range records {
		if known[rec.DrawNo] {
			continue
		}
		r.history = append(r.history, rec)
		inserted++
	}
	return inserted, nil
}

// fakeFetcher serves a fixed upstream history.
type fakeFetcher struct {
	upstream draw.History
	calls    int
}

func (f *fakeFetcher) FetchDraw(ctx context.Context, drawNo int) (draw.Record, error) {
	f.calls++
	for _, rec := range f.upstream {
		if rec.DrawNo == drawNo {
			return rec, nil
		}
	}
	return draw.Record{}, apperrors.NotFound(fmt.Sprintf("draw %d", drawNo))
}

func TestSyncFetchesMissingDraws(t *testing.T) {
	upstream := testkit.NewDrawGenerator(3).History(10)
	repo := &fakeRepo{history: append(draw.History(nil), upstream[:6]...)}
	fetcher := &fakeFetcher{upstream: upstream}

	svc := NewSyncService(fetcher, repo, nil)
	result, err := svc.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Inserted)
	assert.Equal(t, 10, result.LatestDrawNo)
	assert.Len(t, repo.history, 10)
	// Draws 7..10 plus the probe that found nothing at 11.
	assert.Equal(t, 5, fetcher.calls)
}

func TestSyncFromEmptyRepository(t *testing.T) {
	upstream := testkit.NewDrawGenerator(5).History(3)
	repo := &fakeRepo{}
	fetcher := &fakeFetcher{upstream: upstream}

	svc := NewSyncService(fetcher, repo, nil)
	result, err := svc.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Inserted)
	assert.Equal(t, 3, result.LatestDrawNo)
}

func TestSyncNothingNew(t *testing.T) {
	upstream := testkit.NewDrawGenerator(5).History(3)
	repo := &fakeRepo{history: append(draw.History(nil), upstream...)}
	fetcher := &fakeFetcher{upstream: upstream}

	svc := NewSyncService(fetcher, repo, nil)
	result, err := svc.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 3, result.LatestDrawNo)
	assert.Equal(t, 1, fetcher.calls)
}

func TestSyncPropagatesRepositoryFailure(t *testing.T) {
	svc := NewSyncService(&fakeFetcher{}, &fakeRepo{failing: true}, nil)
	_, err := svc.Sync(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDatabaseError, apperrors.GetCode(err))
}
