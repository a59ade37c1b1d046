package analysis

import (
	mstats "github.com/montanaflynn/stats"

	domain "lottolab/domain/analysis"
	"lottolab/domain/draw"
	"lottolab/internal/errors"
	"lottolab/internal/stats"
)

// SumRunsTest binarizes the per-draw sum sequence around its median and
// applies the runs test. Sums exactly equal to the median are excluded from
// the binary sequence, reducing n accordingly. Too few runs mean
// streakiness, too many mean excessive alternation; the two-sided p-value
// covers both.
func SumRunsTest(history draw.History) (domain.TestResult, error) {
	if len(history) < 2 {
		return domain.TestResult{}, errors.InsufficientSamples("sum runs test requires at least two draws")
	}

	sums := history.Sums()
	median, err := mstats.Median(sums)
	if err != nil {
		return domain.TestResult{}, errors.Wrap(err, "median of draw sums")
	}

	bits := make([]int, 0, len(sums))
	excluded := 0
	for _, s := range sums {
		switch {
		case s > median:
			bits = append(bits, 1)
		case s < median:
			bits = append(bits, 0)
		default:
			excluded++
		}
	}

	outcome, err := stats.BinaryRunsTest(bits)
	if err != nil {
		return domain.TestResult{}, err
	}

	direction := "streaky" // too few runs
	if outcome.ZScore > 0 {
		direction = "alternating" // too many runs
	}

	return domain.TestResult{
		TestName:   TestSumRuns,
		Statistic:  outcome.ZScore,
		PValue:     outcome.PValue,
		SampleSize: len(bits),
		Detail: map[string]any{
			"runs":               outcome.Runs,
			"expected_runs":      outcome.ExpectedRuns,
			"median_threshold":   median,
			"excluded_ties":      excluded,
			"direction":          direction,
			"low_sample_warning": outcome.LowSample,
		},
	}, nil
}
