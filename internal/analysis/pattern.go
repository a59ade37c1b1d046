package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"

	domain "lottolab/domain/analysis"
	"lottolab/domain/draw"
	"lottolab/internal/errors"
	"lottolab/internal/stats"
)

// totalCombinations is C(45,6), the size of the draw space.
var totalCombinations = float64(combin.Binomial(draw.TotalBalls, draw.BallsPerDraw))

// ParityPatternTest buckets each draw by its odd-number count (0..6) and
// compares against the exact multinomial expectation from choosing 6 of the
// 23 odd / 22 even balls.
func ParityPatternTest(history draw.History) (domain.TestResult, error) {
	return splitPatternTest(history, TestParityPattern, draw.OddBalls, draw.EvenBalls, func(rec draw.Record) int {
		odd := 0
		for _, n := range rec.Numbers {
			if n%2 == 1 {
				odd++
			}
		}
		return odd
	})
}

// LowHighPatternTest buckets each draw by its low-number count (numbers in
// 1..22) against the exact expectation for the 22|23 split.
func LowHighPatternTest(history draw.History) (domain.TestResult, error) {
	return splitPatternTest(history, TestLowHighPattern, draw.LowBalls, draw.HighBalls, func(rec draw.Record) int {
		low := 0
		for _, n := range rec.Numbers {
			if n <= draw.LowBalls {
				low++
			}
		}
		return low
	})
}

// splitPatternTest is the shared two-class pattern machinery: a draw is
// classified by how many of its numbers fall in a marked class of the ball
// pool, and the observed distribution over 0..6 is tested against the
// hypergeometric expectation. Sparse bins are merged per the chi-square
// validity rule, reducing degrees of freedom accordingly.
func splitPatternTest(history draw.History, name string, markedBalls, otherBalls int, classify func(draw.Record) int) (domain.TestResult, error) {
	if len(history) == 0 {
		return domain.TestResult{}, errors.InsufficientSamples(name + " requires at least one draw")
	}

	observedCounts := make([]float64, draw.BallsPerDraw+1)
	for _, rec := range history {
		observedCounts[classify(rec)]++
	}

	labels := make([]string, draw.BallsPerDraw+1)
	expected := make([]float64, draw.BallsPerDraw+1)
	for k := 0; k <= draw.BallsPerDraw; k++ {
		labels[k] = fmt.Sprintf("%d:%d", k, draw.BallsPerDraw-k)
		ways := float64(combin.Binomial(markedBalls, k)) * float64(combin.Binomial(otherBalls, draw.BallsPerDraw-k))
		expected[k] = ways / totalCombinations * float64(len(history))
	}

	mergedLabels, mergedObserved, mergedExpected := stats.MergeSparseBins(labels, observedCounts, expected, stats.MinExpectedPerBin)
	statistic, df, pValue, err := stats.ChiSquareTest(mergedObserved, mergedExpected, 0)
	if err != nil {
		return domain.TestResult{}, err
	}

	return domain.TestResult{
		TestName:   name,
		Statistic:  statistic,
		PValue:     pValue,
		SampleSize: len(history),
		Detail: map[string]any{
			"bins":        mergedLabels,
			"observed":    mergedObserved,
			"expected":    mergedExpected,
			"merged_from": len(labels),
		},
	}.WithDF(df), nil
}

// LastDigitTest compares the last-digit distribution (0..9) of all drawn
// numbers against the exact digit populations of 1..45: digits 1..5 label
// five balls each, digits 6..9 and 0 label four.
func LastDigitTest(history draw.History) (domain.TestResult, error) {
	if len(history) == 0 {
		return domain.TestResult{}, errors.InsufficientSamples("last-digit test requires at least one draw")
	}

	digitPopulation := make([]float64, 10)
	for n := 1; n <= draw.TotalBalls; n++ {
		digitPopulation[n%10]++
	}

	observed := make([]float64, 10)
	for _, rec := range history {
		for _, n := range rec.Numbers {
			observed[n%10]++
		}
	}

	totalNumbers := float64(len(history) * draw.BallsPerDraw)
	labels := make([]string, 10)
	expected := make([]float64, 10)
	for d := 0; d < 10; d++ {
		labels[d] = fmt.Sprintf("%d", d)
		expected[d] = digitPopulation[d] / float64(draw.TotalBalls) * totalNumbers
	}

	mergedLabels, mergedObserved, mergedExpected := stats.MergeSparseBins(labels, observed, expected, stats.MinExpectedPerBin)
	statistic, df, pValue, err := stats.ChiSquareTest(mergedObserved, mergedExpected, 0)
	if err != nil {
		return domain.TestResult{}, err
	}

	return domain.TestResult{
		TestName:   TestLastDigitPattern,
		Statistic:  statistic,
		PValue:     pValue,
		SampleSize: int(totalNumbers),
		Detail: map[string]any{
			"bins":     mergedLabels,
			"observed": mergedObserved,
			"expected": mergedExpected,
		},
	}.WithDF(df), nil
}
