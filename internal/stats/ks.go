package stats

import (
	"math"
	"sort"

	"lottolab/internal/errors"
)

// KolmogorovPValue approximates P(D_n >= d) with the asymptotic Kolmogorov
// distribution, using the Stephens small-sample adjustment of the effective
// lambda. The asymptotic approximation is accepted knowingly for small
// samples; no exact tables are consulted.
func KolmogorovPValue(d float64, n float64) float64 {
	if d <= 0 || n <= 0 {
		return 1.0
	}
	sqrtN := math.Sqrt(n)
	lambda := (sqrtN + 0.12 + 0.11/sqrtN) * d
	if lambda < 1e-3 {
		return 1.0
	}
	sum := 0.0
	sign := 1.0
	for k := 1; k <= 100; k++ {
		term := sign * math.Exp(-2*lambda*lambda*float64(k*k))
		sum += term
		if math.Abs(term) < 1e-12 {
			break
		}
		sign = -sign
	}
	p := 2 * sum
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// KSTwoSample computes the two-sample Kolmogorov–Smirnov statistic (maximum
// gap between the two empirical CDFs) and its asymptotic p-value.
func KSTwoSample(a, b []float64) (statistic, pValue float64, err error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, errors.InsufficientSamples("KS test requires non-empty samples on both sides")
	}
	sa := append([]float64(nil), a...)
	sb := append([]float64(nil), b...)
	sort.Float64s(sa)
	sort.Float64s(sb)

	var i, j int
	d := 0.0
	for i < len(sa) && j < len(sb) {
		if sa[i] <= sb[j] {
			i++
		} else {
			j++
		}
		gap := math.Abs(float64(i)/float64(len(sa)) - float64(j)/float64(len(sb)))
		if gap > d {
			d = gap
		}
	}

	n1 := float64(len(sa))
	n2 := float64(len(sb))
	effectiveN := n1 * n2 / (n1 + n2)
	return d, KolmogorovPValue(d, effectiveN), nil
}

// KSAgainstCDF computes the one-sample statistic of an empirical sample
// against a reference CDF and its asymptotic p-value.
func KSAgainstCDF(sample []float64, cdf func(float64) float64) (statistic, pValue float64, err error) {
	if len(sample) == 0 {
		return 0, 0, errors.InsufficientSamples("KS test requires a non-empty sample")
	}
	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	d := 0.0
	for i, x := range sorted {
		ref := cdf(x)
		upper := math.Abs(float64(i+1)/n - ref)
		lower := math.Abs(ref - float64(i)/n)
		if upper > d {
			d = upper
		}
		if lower > d {
			d = lower
		}
	}
	return d, KolmogorovPValue(d, n), nil
}
