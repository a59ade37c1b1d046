package app

import (
	"context"

	"lottolab/domain/draw"
	"lottolab/ports"
)

// DrawService exposes read access to the stored draw history.
type DrawService struct {
	repo ports.DrawRepository
}

// NewDrawService creates a draw service.
func NewDrawService(repo ports.DrawRepository) *DrawService {
	return &DrawService{repo: repo}
}

// ListDraws returns the full history, ascending by draw_no.
func (s *DrawService) ListDraws(ctx context.Context) (draw.History, error) {
	return s.repo.ListDraws(ctx)
}

// LatestDraw returns the most recent stored draw without materializing the
// full history.
func (s *DrawService) LatestDraw(ctx context.Context) (draw.Record, error) {
	return s.repo.LatestDraw(ctx)
}
