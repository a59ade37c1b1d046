package analysis

import (
	"testing"

	"lottolab/internal/errors"
	"lottolab/internal/testkit"
)

func TestParityPatternTestSampledHistory(t *testing.T) {
	history := testkit.NewDrawGenerator(3).History(400)
	result, err := ParityPatternTest(history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TestName != TestParityPattern {
		t.Errorf("expected test name %q, got %q", TestParityPattern, result.TestName)
	}
	if result.PValue < 0 || result.PValue > 1 {
		t.Errorf("p-value %g out of range", result.PValue)
	}
	if result.SampleSize != 400 {
		t.Errorf("expected sample size 400, got %d", result.SampleSize)
	}
	if result.DegreesOfFreedom == nil || *result.DegreesOfFreedom < 1 {
		t.Errorf("expected at least 1 degree of freedom, got %v", result.DegreesOfFreedom)
	}
}

func TestParityPatternTestMergesSparseBins(t *testing.T) {
	// 30 draws leave the all-odd and all-even tails under the minimum
	// expected count, so the 7 raw bins must shrink.
	history := testkit.NewDrawGenerator(5).History(30)
	result, err := ParityPatternTest(history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bins, ok := result.Detail["bins"].([]string)
	if !ok {
		t.Fatalf("expected bins detail, got %T", result.Detail["bins"])
	}
	if len(bins) >= 7 {
		t.Errorf("expected sparse bins merged below 7, got %d: %v", len(bins), bins)
	}
	if result.DegreesOfFreedom == nil || *result.DegreesOfFreedom != len(bins)-1 {
		t.Errorf("df must track merged bin count: bins=%d df=%v", len(bins), result.DegreesOfFreedom)
	}
}

func TestLowHighPatternTestAllLowDrawsRejected(t *testing.T) {
	// Every draw uses only numbers 1..6, so the low-count bin 6 holds
	// everything against a tiny expectation.
	history := testkit.RepeatingHistoryWith(200, []int{1, 2, 3, 4, 5, 6}, 10)
	result, err := LowHighPatternTest(history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PValue > 1e-10 {
		t.Errorf("all-low history must be rejected, got p=%g", result.PValue)
	}
}

func TestLastDigitTestBalancedHistory(t *testing.T) {
	result, err := LastDigitTest(testkit.UniformHistory(15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Statistic != 0 {
		t.Errorf("balanced history matches the digit populations exactly, got statistic %g", result.Statistic)
	}
	if result.PValue != 1 {
		t.Errorf("expected p-value 1, got %g", result.PValue)
	}
	if result.DegreesOfFreedom == nil || *result.DegreesOfFreedom != 9 {
		t.Errorf("expected 9 degrees of freedom for 10 digit bins, got %v", result.DegreesOfFreedom)
	}
}

func TestPatternTestsEmptyHistory(t *testing.T) {
	for name, run := range map[string]func() error{
		"parity":     func() error { _, err := ParityPatternTest(nil); return err },
		"low_high":   func() error { _, err := LowHighPatternTest(nil); return err },
		"last_digit": func() error { _, err := LastDigitTest(nil); return err },
	} {
		if err := run(); !errors.HasCode(err, errors.CodeInsufficientSamples) {
			t.Errorf("%s: expected INSUFFICIENT_SAMPLES, got %v", name, err)
		}
	}
}
