package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"lottolab/internal/errors"
)

// LowSampleRunsThreshold is the side count below which the normal
// approximation to the runs test is unreliable. Results are still reported,
// flagged rather than suppressed.
const LowSampleRunsThreshold = 10

// RunsTestOutcome carries the normal-approximation runs test output.
type RunsTestOutcome struct {
	Runs         int
	ExpectedRuns float64
	Variance     float64
	ZScore       float64
	PValue       float64
	// LowSample is set when either side has fewer than 10 observations.
	LowSample bool
}

// RunLengths returns the lengths of maximal constant runs in a binary
// sequence, in order of appearance.
func RunLengths(bits []int) []int {
	if len(bits) == 0 {
		return nil
	}
	var lengths []int
	current := 1
	for i := 1; i < len(bits); i++ {
		if bits[i] == bits[i-1] {
			current++
			continue
		}
		lengths = append(lengths, current)
		current = 1
	}
	return append(lengths, current)
}

// CountRuns counts maximal constant runs in a binary sequence.
func CountRuns(bits []int) int {
	return len(RunLengths(bits))
}

// RunsTest applies the Wald–Wolfowitz normal approximation given the side
// counts and the observed number of runs. The two-sided p-value rejects both
// excessive streakiness (too few runs) and excessive alternation (too many).
func RunsTest(nPlus, nMinus, observedRuns int) (RunsTestOutcome, error) {
	if nPlus <= 0 || nMinus <= 0 {
		return RunsTestOutcome{}, errors.InsufficientSamples(fmt.Sprintf("runs test requires observations on both sides, got %d/%d", nPlus, nMinus))
	}
	if observedRuns < 1 {
		return RunsTestOutcome{}, errors.ValidationError(fmt.Sprintf("observed run count must be positive, got %d", observedRuns))
	}

	n1 := float64(nPlus)
	n0 := float64(nMinus)
	total := n1 + n0

	expected := (2*n1*n0)/total + 1
	variance := (2 * n1 * n0 * (2*n1*n0 - total)) / (total * total * (total - 1))
	if variance <= 0 {
		return RunsTestOutcome{}, errors.InsufficientSamples("runs test variance degenerates for this sequence")
	}

	z := (float64(observedRuns) - expected) / math.Sqrt(variance)
	p := 2 * distuv.UnitNormal.Survival(math.Abs(z))
	if p > 1 {
		p = 1
	}

	return RunsTestOutcome{
		Runs:         observedRuns,
		ExpectedRuns: expected,
		Variance:     variance,
		ZScore:       z,
		PValue:       p,
		LowSample:    nPlus < LowSampleRunsThreshold || nMinus < LowSampleRunsThreshold,
	}, nil
}

// BinaryRunsTest is the common path: count sides and runs of a binary
// sequence and apply RunsTest.
func BinaryRunsTest(bits []int) (RunsTestOutcome, error) {
	if len(bits) < 2 {
		return RunsTestOutcome{}, errors.InsufficientSamples(fmt.Sprintf("runs test requires at least 2 observations, got %d", len(bits)))
	}
	ones := 0
	for _, b := range bits {
		if b != 0 {
			ones++
		}
	}
	return RunsTest(ones, len(bits)-ones, CountRuns(bits))
}
