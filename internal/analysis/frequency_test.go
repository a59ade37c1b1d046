package analysis

import (
	"math"
	"testing"

	"lottolab/internal/errors"
	"lottolab/internal/testkit"
)

func TestNumberFrequenciesCountsEveryNumber(t *testing.T) {
	history := testkit.UniformHistory(15)
	counts := NumberFrequencies(history)

	if len(counts) != 45 {
		t.Fatalf("expected counts for all 45 numbers, got %d", len(counts))
	}
	for n := 1; n <= 45; n++ {
		if counts[n] != 2 {
			t.Errorf("number %d: expected 2 appearances in a balanced 15-draw history, got %d", n, counts[n])
		}
	}
}

func TestFrequencyTestBalancedHistory(t *testing.T) {
	result, err := FrequencyTest(testkit.UniformHistory(15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TestName != TestFrequency {
		t.Errorf("expected test name %q, got %q", TestFrequency, result.TestName)
	}
	if result.Statistic != 0 {
		t.Errorf("perfectly balanced history must give statistic 0, got %g", result.Statistic)
	}
	if result.PValue != 1 {
		t.Errorf("expected p-value 1, got %g", result.PValue)
	}
	if result.DegreesOfFreedom == nil || *result.DegreesOfFreedom != 44 {
		t.Errorf("expected 44 degrees of freedom, got %v", result.DegreesOfFreedom)
	}
	if result.SampleSize != 90 {
		t.Errorf("expected sample size 90, got %d", result.SampleSize)
	}
}

func TestFrequencyTestSkewedHistoryRejected(t *testing.T) {
	result, err := FrequencyTest(testkit.RepeatingHistory(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PValue > 1e-10 {
		t.Errorf("six numbers drawn 100 times each must be rejected, got p=%g", result.PValue)
	}
}

func TestFrequencyTestSampledHistoryInRange(t *testing.T) {
	history := testkit.NewDrawGenerator(11).History(500)
	result, err := FrequencyTest(history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.IsNaN(result.Statistic) || result.PValue < 0 || result.PValue > 1 {
		t.Errorf("invalid result for sampled history: stat=%g p=%g", result.Statistic, result.PValue)
	}
}

func TestFrequencyTestEmptyHistory(t *testing.T) {
	_, err := FrequencyTest(nil)
	if !errors.HasCode(err, errors.CodeInsufficientSamples) {
		t.Errorf("expected INSUFFICIENT_SAMPLES, got %v", err)
	}
}
