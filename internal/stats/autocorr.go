package stats

import (
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"lottolab/internal/errors"
)

// Autocorrelation computes the standard biased sample-autocorrelation
// estimator at the given lag:
//
//	r_k = Σ_{i<n-k} (x_i - x̄)(x_{i+k} - x̄) / Σ_i (x_i - x̄)²
//
// A zero-variance series autocorrelates to 0 by convention.
func Autocorrelation(series []float64, lag int) (float64, error) {
	if lag < 0 {
		return 0, errors.ValidationError(fmt.Sprintf("lag must be non-negative, got %d", lag))
	}
	if len(series) <= lag {
		return 0, errors.InsufficientSamples(fmt.Sprintf("autocorrelation at lag %d requires more than %d samples, got %d", lag, lag, len(series)))
	}
	if lag == 0 {
		return 1.0, nil
	}

	mean, _ := mstats.Mean(series)
	numerator := 0.0
	for i := 0; i < len(series)-lag; i++ {
		numerator += (series[i] - mean) * (series[i+lag] - mean)
	}
	denominator := 0.0
	for _, v := range series {
		diff := v - mean
		denominator += diff * diff
	}
	if denominator == 0 {
		return 0, nil
	}
	return numerator / denominator, nil
}

// AutocorrelationZ converts a lag coefficient to an approximate z-score and
// two-sided p-value under the null of no dependency, where Var(r) ≈ 1/n.
func AutocorrelationZ(coefficient float64, n int) (zScore, pValue float64) {
	if n <= 0 {
		return 0, 1.0
	}
	zScore = coefficient * math.Sqrt(float64(n))
	pValue = 2 * distuv.UnitNormal.Survival(math.Abs(zScore))
	if pValue > 1 {
		pValue = 1
	}
	return zScore, pValue
}

// LjungBox aggregates lag-1..k coefficients into the portmanteau Q statistic
// with k degrees of freedom.
func LjungBox(n int, coefficients []float64) (q, pValue float64, err error) {
	if len(coefficients) == 0 {
		return 0, 0, errors.InsufficientSamples("Ljung-Box requires at least one lag coefficient")
	}
	fn := float64(n)
	for lag, r := range coefficients {
		denom := fn - float64(lag+1)
		if denom <= 0 {
			return 0, 0, errors.InsufficientSamples(fmt.Sprintf("Ljung-Box lag %d exceeds series length %d", lag+1, n))
		}
		q += r * r / denom
	}
	q *= fn * (fn + 2)
	pValue, err = ChiSquarePValue(q, len(coefficients))
	if err != nil {
		return 0, 0, err
	}
	return q, pValue, nil
}
