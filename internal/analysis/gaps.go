package analysis

import (
	mstats "github.com/montanaflynn/stats"

	domain "lottolab/domain/analysis"
	"lottolab/domain/draw"
	"lottolab/internal/errors"
)

// NumberGapSummary describes the appearance gaps of one number: the draw
// index distance between successive appearances, not draw_no distance, so
// non-contiguous histories stay well defined.
type NumberGapSummary struct {
	Number      int     `json:"number"`
	Appearances int     `json:"appearances"`
	Gaps        []int   `json:"gaps"`
	MeanGap     float64 `json:"mean_gap"`
	MaxGap      int     `json:"max_gap"`
}

// GapHistogram computes per-number appearance gaps and summary statistics.
// Purely descriptive: no hypothesis is tested, so the result carries a unit
// p-value and a descriptive marker instead of a statistic.
func GapHistogram(history draw.History) (domain.TestResult, error) {
	if len(history) == 0 {
		return domain.TestResult{}, errors.InsufficientSamples("gap histogram requires at least one draw")
	}

	lastSeen := make(map[int]int, draw.TotalBalls)
	gaps := make(map[int][]int, draw.TotalBalls)
	appearances := make(map[int]int, draw.TotalBalls)

	for idx, rec := range history {
		for _, n := range rec.Numbers {
			if prev, seen := lastSeen[n]; seen {
				gaps[n] = append(gaps[n], idx-prev)
			}
			lastSeen[n] = idx
			appearances[n]++
		}
	}

	summaries := make([]NumberGapSummary, 0, draw.TotalBalls)
	for n := 1; n <= draw.TotalBalls; n++ {
		summary := NumberGapSummary{Number: n, Appearances: appearances[n], Gaps: gaps[n]}
		if len(summary.Gaps) > 0 {
			asFloats := make([]float64, len(summary.Gaps))
			for i, g := range summary.Gaps {
				asFloats[i] = float64(g)
				if g > summary.MaxGap {
					summary.MaxGap = g
				}
			}
			summary.MeanGap, _ = mstats.Mean(asFloats)
		}
		summaries = append(summaries, summary)
	}

	return domain.TestResult{
		TestName:   TestGapHistogram,
		Statistic:  0,
		PValue:     1,
		SampleSize: len(history),
		Detail: map[string]any{
			"descriptive": true,
			"numbers":     summaries,
		},
	}, nil
}
