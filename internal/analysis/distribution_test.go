package analysis

import (
	"math"
	"testing"

	"lottolab/internal/errors"
	"lottolab/internal/testkit"
)

func TestChooseEstimatorUnderCap(t *testing.T) {
	// C(45,6) = 8,145,060, so a default-size cap selects Monte Carlo.
	if got := ChooseEstimator(200_000, 1); got.Name() != "monte_carlo" {
		t.Errorf("expected monte_carlo under a 200k cap, got %s", got.Name())
	}
	if got := ChooseEstimator(9_000_000, 1); got.Name() != "exact_enumeration" {
		t.Errorf("expected exact_enumeration when the draw space fits, got %s", got.Name())
	}
}

func TestExactEnumerationRefusesCap(t *testing.T) {
	_, err := (&ExactEnumeration{Cap: 1000}).Estimate()
	if !errors.HasCode(err, errors.CodeEnumerationCapExceeded) {
		t.Errorf("expected ENUMERATION_CAP_EXCEEDED, got %v", err)
	}
}

func TestMonteCarloEstimate(t *testing.T) {
	ref, err := (&MonteCarlo{Samples: 5000, Seed: 99}).Estimate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Samples != 5000 {
		t.Errorf("expected 5000 recorded samples, got %d", ref.Samples)
	}

	sumTotal := 0.0
	for sum, p := range ref.SumProb {
		if sum < 21 || sum > 255 {
			t.Errorf("impossible draw sum %d in reference", sum)
		}
		sumTotal += p
	}
	if math.Abs(sumTotal-1) > 1e-9 {
		t.Errorf("sum probabilities must total 1, got %.12f", sumTotal)
	}

	gapTotal := 0.0
	for gap, p := range ref.GapProb {
		if gap < 1 || gap > 40 {
			t.Errorf("impossible intra-draw gap %d in reference", gap)
		}
		gapTotal += p
	}
	if math.Abs(gapTotal-1) > 1e-9 {
		t.Errorf("gap probabilities must total 1, got %.12f", gapTotal)
	}
}

func TestMonteCarloIsDeterministicPerSeed(t *testing.T) {
	a, err := (&MonteCarlo{Samples: 1000, Seed: 5}).Estimate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := (&MonteCarlo{Samples: 1000, Seed: 5}).Estimate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.SumProb) != len(b.SumProb) {
		t.Fatalf("same seed must reproduce the distribution: %d vs %d sums", len(a.SumProb), len(b.SumProb))
	}
	for sum, p := range a.SumProb {
		if b.SumProb[sum] != p {
			t.Fatalf("same seed diverged at sum %d", sum)
		}
	}
}

func TestMonteCarloRejectsBadSampleCount(t *testing.T) {
	_, err := (&MonteCarlo{Samples: 0}).Estimate()
	if !errors.HasCode(err, errors.CodeValidationError) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestReferenceDistributionCDF(t *testing.T) {
	ref := &ReferenceDistribution{SumProb: map[int]float64{10: 0.5, 20: 0.5}}
	cdf := ref.SumCDF()

	cases := []struct {
		x    float64
		want float64
	}{
		{9, 0},
		{10, 0.5},
		{15, 0.5},
		{20, 1},
		{25, 1},
	}
	for _, c := range cases {
		if got := cdf(c.x); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("cdf(%g): expected %g, got %g", c.x, c.want, got)
		}
	}
}

func TestSumDistributionTestSampledHistory(t *testing.T) {
	ref, err := (&MonteCarlo{Samples: 20000, Seed: 7}).Estimate()
	if err != nil {
		t.Fatalf("estimator error: %v", err)
	}

	history := testkit.NewDrawGenerator(31).History(300)
	result, err := SumDistributionTest(history, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TestName != TestSumDistribution {
		t.Errorf("expected test name %q, got %q", TestSumDistribution, result.TestName)
	}
	if result.PValue < 0 || result.PValue > 1 {
		t.Errorf("p-value %g out of range", result.PValue)
	}
	if _, ok := result.Detail["ks_p_value"]; !ok {
		t.Error("expected KS p-value in detail")
	}
	if result.Detail["estimator_samples"] != 20000 {
		t.Errorf("expected estimator sample count in detail, got %v", result.Detail["estimator_samples"])
	}
}

func TestGapDistributionTestSkewedHistoryRejected(t *testing.T) {
	ref, err := (&MonteCarlo{Samples: 20000, Seed: 7}).Estimate()
	if err != nil {
		t.Fatalf("estimator error: %v", err)
	}

	// Consecutive numbers mean every intra-draw gap is exactly 1, far from
	// the reference gap distribution.
	history := testkit.RepeatingHistoryWith(300, []int{20, 21, 22, 23, 24, 25}, 1)
	result, err := GapDistributionTest(history, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PValue > 1e-10 {
		t.Errorf("all-1 gaps must be rejected, got p=%g", result.PValue)
	}
	if result.SampleSize != 1500 {
		t.Errorf("expected 5 gaps per draw over 300 draws, got %d", result.SampleSize)
	}
}

func TestDistributionTestsEmptyHistory(t *testing.T) {
	ref := &ReferenceDistribution{SumProb: map[int]float64{21: 1}, GapProb: map[int]float64{1: 1}}
	if _, err := SumDistributionTest(nil, ref); !errors.HasCode(err, errors.CodeInsufficientSamples) {
		t.Errorf("sum: expected INSUFFICIENT_SAMPLES, got %v", err)
	}
	if _, err := GapDistributionTest(nil, ref); !errors.HasCode(err, errors.CodeInsufficientSamples) {
		t.Errorf("gap: expected INSUFFICIENT_SAMPLES, got %v", err)
	}
}
