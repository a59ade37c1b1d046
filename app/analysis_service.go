package app

import (
	"context"
	"sort"
	"strings"

	domain "lottolab/domain/analysis"
	"lottolab/internal"
	"lottolab/internal/analysis"
	"lottolab/internal/report"
	"lottolab/internal/snapshot"
	"lottolab/ports"
)

// AnalysisService fronts the aggregator with the snapshot cache: repeated
// requests over an unchanged history are served from memory, and concurrent
// requests for the same key coalesce onto one computation.
type AnalysisService struct {
	repo       ports.DrawRepository
	aggregator *analysis.Aggregator
	cache      *snapshot.Cache
	log        *internal.Logger
}

// NewAnalysisService creates an analysis service.
func NewAnalysisService(repo ports.DrawRepository, aggregator *analysis.Aggregator, cache *snapshot.Cache, logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{repo: repo, aggregator: aggregator, cache: cache, log: logger}
}

// CheapAnalysis returns the always-on suite over the full stored history,
// cached per (scope, max draw number).
func (s *AnalysisService) CheapAnalysis(ctx context.Context) (*domain.Snapshot, error) {
	history, err := s.repo.ListDraws(ctx)
	if err != nil {
		return nil, err
	}

	key := snapshot.Key{Scope: analysis.ScopeCheap, MaxDrawNo: history.MaxDrawNo()}
	return s.cache.GetOrCompute(ctx, key, func() (*domain.Snapshot, error) {
		s.log.Info("computing cheap suite over %d draws", len(history))
		return s.aggregator.RunCheapSuite(history)
	})
}

// ExpensiveAnalysis runs the selected costly modules. Each distinct
// selection caches under its own scope so a distribution-only request never
// shadows a full expensive snapshot.
func (s *AnalysisService) ExpensiveAnalysis(ctx context.Context, which []string) (*domain.Snapshot, error) {
	history, err := s.repo.ListDraws(ctx)
	if err != nil {
		return nil, err
	}

	key := snapshot.Key{Scope: expensiveScope(which), MaxDrawNo: history.MaxDrawNo()}
	return s.cache.GetOrCompute(ctx, key, func() (*domain.Snapshot, error) {
		s.log.Info("computing expensive suite %v over %d draws", which, len(history))
		return s.aggregator.RunExpensiveSuite(history, which)
	})
}

// Report renders the cheap suite snapshot as markdown or an HTML fragment.
func (s *AnalysisService) Report(ctx context.Context, asHTML bool) ([]byte, error) {
	snap, err := s.CheapAnalysis(ctx)
	if err != nil {
		return nil, err
	}
	if asHTML {
		return report.RenderHTML(snap), nil
	}
	return report.RenderMarkdown(snap), nil
}

func expensiveScope(which []string) string {
	if len(which) == 0 {
		return analysis.ScopeExpensive
	}
	names := append([]string(nil), which...)
	sort.Strings(names)
	return analysis.ScopeExpensive + ":" + strings.Join(names, ",")
}
