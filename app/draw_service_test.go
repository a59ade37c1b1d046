package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottolab/domain/draw"
	apperrors "lottolab/internal/errors"
	"lottolab/internal/testkit"
)

// listCountingRepo counts full-history loads.
type listCountingRepo struct {
	fakeRepo
	listCalls int
}

func (r *listCountingRepo) ListDraws(ctx context.Context) (draw.History, error) {
	r.listCalls++
	return r.fakeRepo.ListDraws(ctx)
}

func TestLatestDrawFetchesSingleRecord(t *testing.T) {
	repo := &listCountingRepo{fakeRepo: fakeRepo{history: testkit.NewDrawGenerator(11).History(10)}}
	svc := NewDrawService(repo)

	rec, err := svc.LatestDraw(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, rec.DrawNo)
	assert.Equal(t, 0, repo.listCalls, "latest draw must not load the full history")
}

func TestLatestDrawEmptyRepository(t *testing.T) {
	svc := NewDrawService(&fakeRepo{})

	_, err := svc.LatestDraw(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}

func TestListDrawsReturnsFullHistory(t *testing.T) {
	svc := NewDrawService(&fakeRepo{history: testkit.NewDrawGenerator(11).History(5)})

	history, err := svc.ListDraws(context.Background())
	require.NoError(t, err)
	assert.Len(t, history, 5)
}
