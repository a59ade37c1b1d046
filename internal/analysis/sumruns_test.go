package analysis

import (
	"testing"
	"time"

	"lottolab/domain/draw"
	"lottolab/internal/errors"
	"lottolab/internal/testkit"
)

// alternatingSumHistory alternates a low-sum draw with a high-sum draw so
// the binarized sum sequence flips on every step.
func alternatingSumHistory(n int) draw.History {
	low := []int{1, 2, 3, 4, 5, 6}        // sum 21
	high := []int{40, 41, 42, 43, 44, 45} // sum 255
	date := time.Date(2002, 12, 7, 0, 0, 0, 0, time.UTC)

	history := make(draw.History, n)
	for i := range history {
		numbers := low
		bonus := 10
		if i%2 == 1 {
			numbers = high
			bonus = 10
		}
		history[i] = draw.Record{
			DrawNo:   i + 1,
			DrawDate: date,
			Numbers:  append([]int(nil), numbers...),
			Bonus:    bonus,
		}
		date = date.AddDate(0, 0, 7)
	}
	return history
}

func TestSumRunsTestPerfectAlternationRejected(t *testing.T) {
	result, err := SumRunsTest(alternatingSumHistory(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Statistic <= 0 {
		t.Errorf("alternation means too many runs, expected positive z, got %g", result.Statistic)
	}
	if result.PValue > 1e-6 {
		t.Errorf("expected tiny p-value for perfect alternation, got %g", result.PValue)
	}
	if result.Detail["direction"] != "alternating" {
		t.Errorf("expected direction alternating, got %v", result.Detail["direction"])
	}
	if result.Detail["runs"] != 100 {
		t.Errorf("expected 100 runs, got %v", result.Detail["runs"])
	}
	if result.Detail["excluded_ties"] != 0 {
		t.Errorf("no sum equals the median of a two-point sequence, got %v excluded", result.Detail["excluded_ties"])
	}
}

func TestSumRunsTestSampledHistory(t *testing.T) {
	history := testkit.NewDrawGenerator(41).History(300)
	result, err := SumRunsTest(history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PValue < 0 || result.PValue > 1 {
		t.Errorf("p-value %g out of range", result.PValue)
	}
	if result.SampleSize > 300 {
		t.Errorf("sample size cannot exceed the history length, got %d", result.SampleSize)
	}
}

func TestSumRunsTestConstantSumsDegrades(t *testing.T) {
	// Every sum ties with the median, leaving no binary sequence at all.
	_, err := SumRunsTest(testkit.RepeatingHistory(50))
	if !errors.HasCode(err, errors.CodeInsufficientSamples) {
		t.Errorf("expected INSUFFICIENT_SAMPLES, got %v", err)
	}
}

func TestSumRunsTestNeedsTwoDraws(t *testing.T) {
	_, err := SumRunsTest(testkit.RepeatingHistory(1))
	if !errors.HasCode(err, errors.CodeInsufficientSamples) {
		t.Errorf("expected INSUFFICIENT_SAMPLES, got %v", err)
	}
}
