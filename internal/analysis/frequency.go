package analysis

import (
	domain "lottolab/domain/analysis"
	"lottolab/domain/draw"
	"lottolab/internal/errors"
	"lottolab/internal/stats"
)

// Test names as they appear in snapshots and API responses.
const (
	TestFrequency        = "frequency_uniformity"
	TestParityPattern    = "pattern_parity"
	TestLowHighPattern   = "pattern_low_high"
	TestLastDigitPattern = "pattern_last_digit"
	TestSumRuns          = "sum_runs"
	TestSumAutocorr      = "dependency_autocorrelation"
	TestRepeatDist       = "dependency_repeat"
	TestGapHistogram     = "gap_histogram"
	TestSumDistribution  = "distribution_sum"
	TestGapDistribution  = "distribution_intra_gap"
)

// NumberFrequencies counts how many times each number 1..45 appears across
// the main numbers of all draws.
func NumberFrequencies(history draw.History) map[int]int {
	counts := make(map[int]int, draw.TotalBalls)
	for n := 1; n <= draw.TotalBalls; n++ {
		counts[n] = 0
	}
	for _, rec := range history {
		for _, n := range rec.Numbers {
			counts[n]++
		}
	}
	return counts
}

// FrequencyTest compares the empirical frequency of each of the 45 numbers
// against the uniform expectation via chi-square with 44 degrees of freedom.
func FrequencyTest(history draw.History) (domain.TestResult, error) {
	if len(history) == 0 {
		return domain.TestResult{}, errors.InsufficientSamples("frequency test requires at least one draw")
	}

	counts := NumberFrequencies(history)
	observed := make([]float64, draw.TotalBalls)
	for n := 1; n <= draw.TotalBalls; n++ {
		observed[n-1] = float64(counts[n])
	}

	totalNumbers := len(history) * draw.BallsPerDraw
	expectedPerNumber := float64(totalNumbers) / float64(draw.TotalBalls)
	expected := make([]float64, draw.TotalBalls)
	for i := range expected {
		expected[i] = expectedPerNumber
	}

	statistic, df, pValue, err := stats.ChiSquareTest(observed, expected, 0)
	if err != nil {
		return domain.TestResult{}, err
	}

	return domain.TestResult{
		TestName:   TestFrequency,
		Statistic:  statistic,
		PValue:     pValue,
		SampleSize: totalNumbers,
		Detail: map[string]any{
			"observed":            counts,
			"expected_per_number": expectedPerNumber,
		},
	}.WithDF(df), nil
}
