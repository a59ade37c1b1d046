package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"

	domain "lottolab/domain/analysis"
	"lottolab/domain/draw"
	"lottolab/internal/errors"
	"lottolab/internal/stats"
)

// LagResult is one entry of the sum-autocorrelation sub-test.
type LagResult struct {
	Lag         int     `json:"lag"`
	Coefficient float64 `json:"coefficient"`
	ZScore      float64 `json:"z_score"`
	PValue      float64 `json:"p_value"`
	SampleSize  int     `json:"sample_size"`
}

// SumAutocorrelationTest examines lag-1..maxLag autocorrelation of the
// per-draw sums. Each lag gets its own approximate z-score and p-value
// under the null of no dependency; the Ljung–Box Q across all lags is the
// headline statistic.
func SumAutocorrelationTest(history draw.History, maxLag int) (domain.TestResult, error) {
	if maxLag < 1 {
		return domain.TestResult{}, errors.ValidationError(fmt.Sprintf("maxLag must be at least 1, got %d", maxLag))
	}
	if len(history) < 2 {
		return domain.TestResult{}, errors.InsufficientSamples("autocorrelation requires at least two draws")
	}

	sums := history.Sums()
	n := len(sums)

	var lags []LagResult
	var coefficients []float64
	for lag := 1; lag <= maxLag && lag < n; lag++ {
		r, err := stats.Autocorrelation(sums, lag)
		if err != nil {
			return domain.TestResult{}, err
		}
		z, p := stats.AutocorrelationZ(r, n-lag)
		lags = append(lags, LagResult{Lag: lag, Coefficient: r, ZScore: z, PValue: p, SampleSize: n - lag})
		coefficients = append(coefficients, r)
	}
	if len(lags) == 0 {
		return domain.TestResult{}, errors.InsufficientSamples(fmt.Sprintf("history of %d draws supports no lag up to %d", n, maxLag))
	}

	q, pValue, err := stats.LjungBox(n, coefficients)
	if err != nil {
		return domain.TestResult{}, err
	}

	return domain.TestResult{
		TestName:   TestSumAutocorr,
		Statistic:  q,
		PValue:     pValue,
		SampleSize: n,
		Detail: map[string]any{
			"lags":       lags,
			"ljung_box_q": q,
		},
	}.WithDF(len(coefficients)), nil
}

// RepeatProbabilities returns the closed-form hypergeometric distribution of
// the repeat count between consecutive draws: drawing 6 of 45 where 6 were
// marked by the prior draw, P(k) = C(6,k)·C(39,6−k)/C(45,6) for k in 0..6.
func RepeatProbabilities() []float64 {
	probs := make([]float64, draw.BallsPerDraw+1)
	unmarked := draw.TotalBalls - draw.BallsPerDraw
	for k := 0; k <= draw.BallsPerDraw; k++ {
		ways := float64(combin.Binomial(draw.BallsPerDraw, k)) * float64(combin.Binomial(unmarked, draw.BallsPerDraw-k))
		probs[k] = ways / totalCombinations
	}
	return probs
}

// RepeatDistributionTest counts, for each draw after the first, how many of
// its numbers repeated from the previous draw, and tests the observed
// distribution against the hypergeometric expectation via chi-square with
// sparse-bin merging.
func RepeatDistributionTest(history draw.History) (domain.TestResult, error) {
	if len(history) < 2 {
		return domain.TestResult{}, errors.InsufficientSamples("repeat test requires at least two draws")
	}

	observed := make([]float64, draw.BallsPerDraw+1)
	for i := 1; i < len(history); i++ {
		prev := history[i-1].NumberSet()
		repeats := 0
		for _, n := range history[i].Numbers {
			if prev[n] {
				repeats++
			}
		}
		observed[repeats]++
	}

	pairs := len(history) - 1
	probs := RepeatProbabilities()
	labels := make([]string, len(probs))
	expected := make([]float64, len(probs))
	for k, p := range probs {
		labels[k] = fmt.Sprintf("%d", k)
		expected[k] = p * float64(pairs)
	}

	mergedLabels, mergedObserved, mergedExpected := stats.MergeSparseBins(labels, observed, expected, stats.MinExpectedPerBin)
	statistic, df, pValue, err := stats.ChiSquareTest(mergedObserved, mergedExpected, 0)
	if err != nil {
		return domain.TestResult{}, err
	}

	return domain.TestResult{
		TestName:   TestRepeatDist,
		Statistic:  statistic,
		PValue:     pValue,
		SampleSize: pairs,
		Detail: map[string]any{
			"bins":          mergedLabels,
			"observed":      mergedObserved,
			"expected":      mergedExpected,
			"probabilities": probs,
		},
	}.WithDF(df), nil
}
