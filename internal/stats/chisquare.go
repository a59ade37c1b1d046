package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"lottolab/internal/errors"
)

// MinExpectedPerBin is the standard chi-square validity rule: bins with a
// smaller expected count are merged with an adjacent bin before the
// statistic is computed.
const MinExpectedPerBin = 5.0

// ChiSquareStatistic computes the Pearson goodness-of-fit statistic
// Σ(o−e)²/e. Every expected value must be strictly positive; callers must
// have merged or excluded zero-expectation bins beforehand.
func ChiSquareStatistic(observed, expected []float64) (float64, error) {
	if len(observed) != len(expected) {
		return 0, errors.ValidationError(fmt.Sprintf("observed/expected length mismatch: %d vs %d", len(observed), len(expected)))
	}
	if len(observed) == 0 {
		return 0, errors.InsufficientSamples("chi-square requires at least one bin")
	}
	statistic := 0.0
	for i := range observed {
		if expected[i] <= 0 {
			return 0, errors.DegenerateExpectation(fmt.Sprintf("bin %d has non-positive expected count %g", i, expected[i]))
		}
		diff := observed[i] - expected[i]
		statistic += diff * diff / expected[i]
	}
	return statistic, nil
}

// ChiSquarePValue is the survival function of the chi-squared distribution
// with the given degrees of freedom.
func ChiSquarePValue(statistic float64, degreesOfFreedom int) (float64, error) {
	if degreesOfFreedom < 1 {
		return 0, errors.InvalidDegreesOfFreedom(fmt.Sprintf("degrees of freedom must be >= 1, got %d", degreesOfFreedom))
	}
	if statistic < 0 {
		return 0, errors.ValidationError(fmt.Sprintf("chi-square statistic must be non-negative, got %g", statistic))
	}
	dist := distuv.ChiSquared{K: float64(degreesOfFreedom)}
	return dist.Survival(statistic), nil
}

// ChiSquareTest runs statistic + p-value in one step. Degrees of freedom are
// len(observed) - 1 - estimatedParams, with the parameter count supplied by
// the caller per test.
func ChiSquareTest(observed, expected []float64, estimatedParams int) (statistic float64, df int, pValue float64, err error) {
	statistic, err = ChiSquareStatistic(observed, expected)
	if err != nil {
		return 0, 0, 0, err
	}
	df = len(observed) - 1 - estimatedParams
	pValue, err = ChiSquarePValue(statistic, df)
	if err != nil {
		return 0, 0, 0, err
	}
	return statistic, df, pValue, nil
}

// MergeSparseBins collapses adjacent bins until every expected count reaches
// minExpected. Labels travel with their bins so test detail payloads can
// report which categories were merged. The trailing bin is folded backwards
// when it ends up below the threshold.
func MergeSparseBins(labels []string, observed, expected []float64, minExpected float64) (mergedLabels []string, mergedObserved, mergedExpected []float64) {
	for i := range labels {
		if len(mergedExpected) > 0 && mergedExpected[len(mergedExpected)-1] < minExpected {
			last := len(mergedExpected) - 1
			mergedLabels[last] = mergedLabels[last] + "+" + labels[i]
			mergedObserved[last] += observed[i]
			mergedExpected[last] += expected[i]
			continue
		}
		mergedLabels = append(mergedLabels, labels[i])
		mergedObserved = append(mergedObserved, observed[i])
		mergedExpected = append(mergedExpected, expected[i])
	}
	// Fold an undersized trailing bin into its predecessor.
	for len(mergedExpected) > 1 && mergedExpected[len(mergedExpected)-1] < minExpected {
		last := len(mergedExpected) - 1
		mergedLabels[last-1] = mergedLabels[last-1] + "+" + mergedLabels[last]
		mergedObserved[last-1] += mergedObserved[last]
		mergedExpected[last-1] += mergedExpected[last]
		mergedLabels = mergedLabels[:last]
		mergedObserved = mergedObserved[:last]
		mergedExpected = mergedExpected[:last]
	}
	return mergedLabels, mergedObserved, mergedExpected
}
