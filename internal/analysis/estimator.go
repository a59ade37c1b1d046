package analysis

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat/combin"

	"lottolab/domain/draw"
	"lottolab/internal/errors"
)

// ReferenceDistribution is the theoretical distribution of draw sums and
// intra-draw consecutive-number gaps under uniform drawing.
type ReferenceDistribution struct {
	// SumProb maps a draw sum to its probability.
	SumProb map[int]float64
	// GapProb maps an intra-draw gap (between sorted neighbours) to its
	// probability over all gaps.
	GapProb map[int]float64
	// Samples is the number of enumerated or simulated draws behind the
	// probabilities.
	Samples int
}

// SumCDF returns the cumulative distribution function over draw sums.
func (r *ReferenceDistribution) SumCDF() func(float64) float64 {
	return cdfFromProb(r.SumProb)
}

// GapCDF returns the cumulative distribution function over intra-draw gaps.
func (r *ReferenceDistribution) GapCDF() func(float64) float64 {
	return cdfFromProb(r.GapProb)
}

func cdfFromProb(prob map[int]float64) func(float64) float64 {
	keys := make([]int, 0, len(prob))
	for k := range prob {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	cumulative := make([]float64, len(keys))
	running := 0.0
	for i, k := range keys {
		running += prob[k]
		cumulative[i] = running
	}
	return func(x float64) float64 {
		idx := sort.Search(len(keys), func(i int) bool { return float64(keys[i]) > x })
		if idx == 0 {
			return 0
		}
		return cumulative[idx-1]
	}
}

// DistributionEstimator builds the theoretical sum/gap distribution. The
// exact-vs-Monte-Carlo choice is a strategy selected once by the fixed
// sample cap, not a silent runtime fallback.
type DistributionEstimator interface {
	Name() string
	Estimate() (*ReferenceDistribution, error)
}

// ExactEnumeration walks every C(45,6) combination. Expensive but exact;
// refuses to run past its cap.
type ExactEnumeration struct {
	Cap int
}

func (e *ExactEnumeration) Name() string { return "exact_enumeration" }

func (e *ExactEnumeration) Estimate() (*ReferenceDistribution, error) {
	total := combin.Binomial(draw.TotalBalls, draw.BallsPerDraw)
	if e.Cap > 0 && total > e.Cap {
		return nil, errors.EnumerationCapExceeded(fmt.Sprintf("C(%d,%d)=%d exceeds cap %d", draw.TotalBalls, draw.BallsPerDraw, total, e.Cap))
	}

	sumCounts := make(map[int]int)
	gapCounts := make(map[int]int)
	gapTotal := 0

	gen := combin.NewCombinationGenerator(draw.TotalBalls, draw.BallsPerDraw)
	comb := make([]int, draw.BallsPerDraw)
	for gen.Next() {
		gen.Combination(comb) // ascending 0-based indexes
		sum := 0
		for _, v := range comb {
			sum += v + 1
		}
		sumCounts[sum]++
		for i := 1; i < len(comb); i++ {
			gapCounts[comb[i]-comb[i-1]]++
			gapTotal++
		}
	}

	ref := &ReferenceDistribution{
		SumProb: make(map[int]float64, len(sumCounts)),
		GapProb: make(map[int]float64, len(gapCounts)),
		Samples: total,
	}
	for sum, count := range sumCounts {
		ref.SumProb[sum] = float64(count) / float64(total)
	}
	for gap, count := range gapCounts {
		ref.GapProb[gap] = float64(count) / float64(gapTotal)
	}
	return ref, nil
}

// MonteCarlo simulates a fixed number of uniform draws.
type MonteCarlo struct {
	Samples int
	Seed    int64
}

func (m *MonteCarlo) Name() string { return "monte_carlo" }

func (m *MonteCarlo) Estimate() (*ReferenceDistribution, error) {
	if m.Samples < 1 {
		return nil, errors.ValidationError(fmt.Sprintf("Monte Carlo sample size must be positive, got %d", m.Samples))
	}

	rng := rand.New(rand.NewSource(m.Seed))
	sumCounts := make(map[int]int)
	gapCounts := make(map[int]int)
	gapTotal := 0

	numbers := make([]int, draw.BallsPerDraw)
	for i := 0; i < m.Samples; i++ {
		sampleDraw(rng, numbers)
		sum := 0
		for _, v := range numbers {
			sum += v
		}
		sumCounts[sum]++
		for j := 1; j < len(numbers); j++ {
			gapCounts[numbers[j]-numbers[j-1]]++
			gapTotal++
		}
	}

	ref := &ReferenceDistribution{
		SumProb: make(map[int]float64, len(sumCounts)),
		GapProb: make(map[int]float64, len(gapCounts)),
		Samples: m.Samples,
	}
	for sum, count := range sumCounts {
		ref.SumProb[sum] = float64(count) / float64(m.Samples)
	}
	for gap, count := range gapCounts {
		ref.GapProb[gap] = float64(count) / float64(gapTotal)
	}
	return ref, nil
}

// sampleDraw fills dst with a sorted uniform 6-of-45 sample.
func sampleDraw(rng *rand.Rand, dst []int) {
	perm := rng.Perm(draw.TotalBalls)
	for i := 0; i < len(dst); i++ {
		dst[i] = perm[i] + 1
	}
	sort.Ints(dst)
}

// ChooseEstimator selects the strategy under the fixed cap: exact
// enumeration when the full draw space fits, Monte Carlo with cap samples
// otherwise. The cap bounds work in both branches, so worst-case latency
// does not grow with history size.
func ChooseEstimator(sampleCap int, seed int64) DistributionEstimator {
	if combin.Binomial(draw.TotalBalls, draw.BallsPerDraw) <= sampleCap {
		return &ExactEnumeration{Cap: sampleCap}
	}
	return &MonteCarlo{Samples: sampleCap, Seed: seed}
}
