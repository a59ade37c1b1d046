package analysis

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "lottolab/domain/analysis"
	"lottolab/domain/draw"
	"lottolab/internal"
	"lottolab/internal/config"
	"lottolab/internal/errors"
)

// Suite scope names used as snapshot keys.
const (
	ScopeCheap     = "cheap"
	ScopeExpensive = "expensive"
)

// Expensive test selectors accepted by RunExpensiveSuite.
const (
	SelectDistribution = "distribution"
	SelectRandomness   = "randomness"
)

// Aggregator orchestrates the test modules into snapshots. It holds no
// mutable state between invocations; each call operates on the history view
// it is given and produces a fresh snapshot.
type Aggregator struct {
	cfg config.AnalysisConfig
	log *internal.Logger
}

// NewAggregator creates an aggregator with the given analysis knobs.
func NewAggregator(cfg config.AnalysisConfig, logger *internal.Logger) *Aggregator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Aggregator{cfg: cfg, log: logger}
}

// RunCheapSuite runs the always-on battery: frequency, the three pattern
// sub-tests, the sum runs test, both dependency sub-tests and the gap
// histogram. The suite never partially fails: a failing module is recorded
// as a degraded result and the rest still run. Only malformed input aborts.
func (a *Aggregator) RunCheapSuite(history draw.History) (*domain.Snapshot, error) {
	if err := history.Validate(); err != nil {
		return nil, err
	}

	snapshot := a.newSnapshot(ScopeCheap, history)
	a.safeRun(snapshot, history, TestFrequency, func() (domain.TestResult, error) { return FrequencyTest(history) })
	a.safeRun(snapshot, history, TestParityPattern, func() (domain.TestResult, error) { return ParityPatternTest(history) })
	a.safeRun(snapshot, history, TestLowHighPattern, func() (domain.TestResult, error) { return LowHighPatternTest(history) })
	a.safeRun(snapshot, history, TestLastDigitPattern, func() (domain.TestResult, error) { return LastDigitTest(history) })
	a.safeRun(snapshot, history, TestSumRuns, func() (domain.TestResult, error) { return SumRunsTest(history) })
	a.safeRun(snapshot, history, TestSumAutocorr, func() (domain.TestResult, error) {
		return SumAutocorrelationTest(history, a.cfg.DependencyLagMax)
	})
	a.safeRun(snapshot, history, TestRepeatDist, func() (domain.TestResult, error) { return RepeatDistributionTest(history) })
	a.safeRun(snapshot, history, TestGapHistogram, func() (domain.TestResult, error) { return GapHistogram(history) })
	return snapshot, nil
}

// RunExpensiveSuite runs the requested subset of the costly modules:
// distribution comparison and/or the randomness suite. An empty selection
// runs both.
func (a *Aggregator) RunExpensiveSuite(history draw.History, which []string) (*domain.Snapshot, error) {
	if err := history.Validate(); err != nil {
		return nil, err
	}

	selected := map[string]bool{}
	if len(which) == 0 {
		selected[SelectDistribution] = true
		selected[SelectRandomness] = true
	}
	for _, name := range which {
		switch name {
		case SelectDistribution, SelectRandomness:
			selected[name] = true
		default:
			return nil, errors.ValidationError(fmt.Sprintf("unknown expensive test %q (want %s or %s)", name, SelectDistribution, SelectRandomness))
		}
	}

	snapshot := a.newSnapshot(ScopeExpensive, history)

	if selected[SelectDistribution] {
		estimator := ChooseEstimator(a.cfg.DistributionSampleCap, time.Now().UnixNano())
		a.log.Info("distribution comparison using %s estimator (cap %d)", estimator.Name(), a.cfg.DistributionSampleCap)
		ref, err := estimator.Estimate()
		if err != nil {
			// The estimator choice already respects the cap, so a failure
			// here degrades both comparison results rather than aborting.
			snapshot.Results[TestSumDistribution] = domain.Degraded(TestSumDistribution, len(history), err)
			snapshot.Results[TestGapDistribution] = domain.Degraded(TestGapDistribution, len(history), err)
		} else {
			a.safeRun(snapshot, history, TestSumDistribution, func() (domain.TestResult, error) { return SumDistributionTest(history, ref) })
			a.safeRun(snapshot, history, TestGapDistribution, func() (domain.TestResult, error) { return GapDistributionTest(history, ref) })
			for _, name := range []string{TestSumDistribution, TestGapDistribution} {
				if r, ok := snapshot.Results[name]; ok && r.Detail != nil {
					r.Detail["estimator"] = estimator.Name()
				}
			}
		}
	}

	if selected[SelectRandomness] {
		results, err := RandomnessSuite(history, RandomnessConfig{
			Encoding:    a.cfg.BitEncoding,
			BlockSize:   a.cfg.BlockSize,
			SerialBlock: 2,
			Alpha:       a.cfg.PValueThreshold,
		})
		if err != nil {
			snapshot.Results[TestRandomnessMeta] = domain.Degraded(TestRandomnessMeta, len(history), err)
		} else {
			for _, r := range results {
				snapshot.Results[r.TestName] = r
			}
		}
	}

	return snapshot, nil
}

func (a *Aggregator) newSnapshot(scope string, history draw.History) *domain.Snapshot {
	return &domain.Snapshot{
		ID:               uuid.NewString(),
		ScopeName:        scope,
		MaxDrawNoCovered: history.MaxDrawNo(),
		ComputedAt:       time.Now().UTC(),
		Results:          make(map[string]domain.TestResult),
	}
}

// safeRun executes one test module under the failure-isolation contract:
// an error or panic becomes a degraded result, never a missing entry.
func (a *Aggregator) safeRun(snapshot *domain.Snapshot, history draw.History, name string, run func() (domain.TestResult, error)) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("test %s panicked: %v", name, r)
			snapshot.Results[name] = domain.Degraded(name, len(history), errors.InternalError(fmt.Sprintf("test panicked: %v", r)))
		}
	}()

	result, err := run()
	if err != nil {
		a.log.Warn("test %s degraded: %v", name, err)
		snapshot.Results[name] = domain.Degraded(name, len(history), err)
		return
	}
	snapshot.Results[name] = result
}
