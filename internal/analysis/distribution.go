package analysis

import (
	"fmt"
	"sort"

	domain "lottolab/domain/analysis"
	"lottolab/domain/draw"
	"lottolab/internal/errors"
	"lottolab/internal/stats"
)

// SumDistributionTest compares the observed draw-sum distribution against
// the reference distribution via chi-square over merged bins, with the KS
// statistic and p-value reported alongside in the detail payload.
func SumDistributionTest(history draw.History, ref *ReferenceDistribution) (domain.TestResult, error) {
	if len(history) == 0 {
		return domain.TestResult{}, errors.InsufficientSamples("sum distribution test requires at least one draw")
	}

	observedValues := make([]float64, len(history))
	observedCounts := make(map[int]float64, len(history))
	for i, rec := range history {
		sum := rec.Sum()
		observedValues[i] = float64(sum)
		observedCounts[sum]++
	}

	return compareDistributions(TestSumDistribution, observedValues, observedCounts, ref.SumProb, ref.SumCDF(), ref)
}

// GapDistributionTest compares the observed intra-draw consecutive-number
// gaps (between sorted neighbours within one draw) against the reference.
func GapDistributionTest(history draw.History, ref *ReferenceDistribution) (domain.TestResult, error) {
	if len(history) == 0 {
		return domain.TestResult{}, errors.InsufficientSamples("gap distribution test requires at least one draw")
	}

	var observedValues []float64
	observedCounts := make(map[int]float64)
	sorted := make([]int, draw.BallsPerDraw)
	for _, rec := range history {
		copy(sorted, rec.Numbers)
		sort.Ints(sorted)
		for i := 1; i < len(sorted); i++ {
			gap := sorted[i] - sorted[i-1]
			observedValues = append(observedValues, float64(gap))
			observedCounts[gap]++
		}
	}

	return compareDistributions(TestGapDistribution, observedValues, observedCounts, ref.GapProb, ref.GapCDF(), ref)
}

// compareDistributions runs the shared chi-square + KS machinery: expected
// counts are the reference probabilities scaled to the observed total, bins
// are merged per the chi-square validity rule, and the empirical CDF is
// compared to the reference CDF for the KS side.
func compareDistributions(name string, observedValues []float64, observedCounts map[int]float64, refProb map[int]float64, refCDF func(float64) float64, ref *ReferenceDistribution) (domain.TestResult, error) {
	keys := make(map[int]bool, len(observedCounts)+len(refProb))
	for k := range observedCounts {
		keys[k] = true
	}
	for k := range refProb {
		keys[k] = true
	}
	sortedKeys := make([]int, 0, len(keys))
	for k := range keys {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Ints(sortedKeys)

	total := float64(len(observedValues))
	labels := make([]string, len(sortedKeys))
	observed := make([]float64, len(sortedKeys))
	expected := make([]float64, len(sortedKeys))
	for i, k := range sortedKeys {
		labels[i] = fmt.Sprintf("%d", k)
		observed[i] = observedCounts[k]
		expected[i] = refProb[k] * total
	}

	mergedLabels, mergedObserved, mergedExpected := stats.MergeSparseBins(labels, observed, expected, stats.MinExpectedPerBin)
	statistic, df, pValue, err := stats.ChiSquareTest(mergedObserved, mergedExpected, 0)
	if err != nil {
		return domain.TestResult{}, err
	}

	ksStat, ksP, err := stats.KSAgainstCDF(observedValues, refCDF)
	if err != nil {
		return domain.TestResult{}, err
	}

	return domain.TestResult{
		TestName:   name,
		Statistic:  statistic,
		PValue:     pValue,
		SampleSize: len(observedValues),
		Detail: map[string]any{
			"bins":              mergedLabels,
			"observed":          mergedObserved,
			"expected":          mergedExpected,
			"ks_statistic":      ksStat,
			"ks_p_value":        ksP,
			"estimator_samples": ref.Samples,
		},
	}.WithDF(df), nil
}
