package app

import (
	"context"

	"lottolab/domain/draw"
	"lottolab/internal"
	apperrors "lottolab/internal/errors"
	"lottolab/ports"
)

// maxProbeAhead bounds one sync run so a misbehaving upstream cannot keep
// the loop alive forever. Weekly draws mean a normal catch-up is tiny.
const maxProbeAhead = 5000

// SyncService pulls missing draws from the upstream source into the
// repository, probing forward from the highest stored draw number until the
// upstream reports a draw that does not exist yet.
type SyncService struct {
	fetcher ports.DrawFetcher
	repo    ports.DrawRepository
	log     *internal.Logger
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Inserted     int `json:"inserted"`
	LatestDrawNo int `json:"latest_draw_no"`
}

// NewSyncService creates a sync service.
func NewSyncService(fetcher ports.DrawFetcher, repo ports.DrawRepository, logger *internal.Logger) *SyncService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SyncService{fetcher: fetcher, repo: repo, log: logger}
}

// Sync fetches every draw after the latest stored one and persists the batch.
func (s *SyncService) Sync(ctx context.Context) (*SyncResult, error) {
	latest, err := s.repo.LatestDrawNo(ctx)
	if err != nil {
		return nil, err
	}

	var fetched []draw.Record
	next := latest + 1
	for ; next <= latest+maxProbeAhead; next++ {
		rec, err := s.fetcher.FetchDraw(ctx, next)
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		fetched = append(fetched, rec)
	}

	inserted := 0
	if len(fetched) > 0 {
		inserted, err = s.repo.SaveDraws(ctx, fetched)
		if err != nil {
			return nil, err
		}
		latest = fetched[len(fetched)-1].DrawNo
	}

	s.log.Info("sync complete: %d new draws, latest draw %d", inserted, latest)
	return &SyncResult{Inserted: inserted, LatestDrawNo: latest}, nil
}
