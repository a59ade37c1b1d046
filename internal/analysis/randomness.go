package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	domain "lottolab/domain/analysis"
	"lottolab/domain/draw"
	"lottolab/internal/errors"
)

// Randomness sub-test names.
const (
	TestMonobit        = "randomness_monobit"
	TestBlockFrequency = "randomness_block_frequency"
	TestBitstreamRuns  = "randomness_runs"
	TestLongestRun     = "randomness_longest_run"
	TestSerial         = "randomness_serial"
	TestCusum          = "randomness_cusum"
	TestRandomnessMeta = "randomness_summary"
)

// randomnessStandardNote is carried in every suite output: this is a
// reduced, uncertified subset of the sub-tests described in NIST SP 800-22,
// with simplified p-value approximations.
const randomnessStandardNote = "reduced subset inspired by NIST SP 800-22; not a certified implementation"

// minSuiteBits is the minimum bitstream length accepted by the suite.
const minSuiteBits = 100

// RandomnessConfig holds the suite knobs.
type RandomnessConfig struct {
	Encoding    string
	BlockSize   int
	SerialBlock int
	// Alpha is the significance threshold deciding pass/fail labels.
	Alpha float64
}

// RandomnessSuite encodes the history and runs the reduced battery. Each
// sub-test yields its own result; the summary result carries pass/fail
// counts against the configured threshold plus the standard disclaimer.
func RandomnessSuite(history draw.History, cfg RandomnessConfig) ([]domain.TestResult, error) {
	if cfg.SerialBlock < 2 {
		cfg.SerialBlock = 2
	}
	bits, err := BitSequence(history, cfg.Encoding)
	if err != nil {
		return nil, err
	}
	if len(bits) < minSuiteBits {
		return nil, errors.InsufficientSamples(fmt.Sprintf("randomness suite requires at least %d bits, got %d", minSuiteBits, len(bits)))
	}

	results := []domain.TestResult{
		monobitTest(bits),
		blockFrequencyTest(bits, cfg.BlockSize),
		bitstreamRunsTest(bits),
		longestRunTest(bits),
		serialTest(bits, cfg.SerialBlock),
		cumulativeSumsTest(bits),
	}

	passed, failed := 0, 0
	for i := range results {
		results[i].Detail["passed"] = !results[i].Failed() && results[i].PValue >= cfg.Alpha
		if results[i].Detail["passed"] == true {
			passed++
		} else {
			failed++
		}
	}

	summary := domain.TestResult{
		TestName:   TestRandomnessMeta,
		Statistic:  float64(passed),
		PValue:     1,
		SampleSize: len(bits),
		Detail: map[string]any{
			"encoding":  cfg.Encoding,
			"alpha":     cfg.Alpha,
			"passed":    passed,
			"failed":    failed,
			"total":     len(results),
			"standard":  randomnessStandardNote,
			"bit_count": len(bits),
		},
	}
	return append(results, summary), nil
}

// monobitTest checks the overall balance of ones and zeros.
func monobitTest(bits []int) domain.TestResult {
	n := len(bits)
	s := 0
	for _, b := range bits {
		if b != 0 {
			s++
		} else {
			s--
		}
	}
	sObs := math.Abs(float64(s)) / math.Sqrt(float64(n))
	p := math.Erfc(sObs / math.Sqrt2)
	return domain.TestResult{
		TestName:   TestMonobit,
		Statistic:  sObs,
		PValue:     p,
		SampleSize: n,
		Detail:     map[string]any{"partial_sum": s},
	}
}

// blockFrequencyTest checks the ones proportion within fixed-size blocks.
func blockFrequencyTest(bits []int, blockSize int) domain.TestResult {
	n := len(bits)
	if blockSize < 1 || n/blockSize == 0 {
		return domain.Degraded(TestBlockFrequency, n, errors.InsufficientSamples(fmt.Sprintf("bitstream of %d bits cannot fill a block of %d", n, blockSize)))
	}
	numBlocks := n / blockSize

	chiSquare := 0.0
	for b := 0; b < numBlocks; b++ {
		ones := 0
		for _, bit := range bits[b*blockSize : (b+1)*blockSize] {
			ones += bit
		}
		pi := float64(ones) / float64(blockSize)
		chiSquare += (pi - 0.5) * (pi - 0.5)
	}
	chiSquare *= 4 * float64(blockSize)

	p := distuv.ChiSquared{K: float64(numBlocks)}.Survival(chiSquare)
	return domain.TestResult{
		TestName:   TestBlockFrequency,
		Statistic:  chiSquare,
		PValue:     p,
		SampleSize: n,
		Detail:     map[string]any{"block_size": blockSize, "num_blocks": numBlocks},
	}.WithDF(numBlocks)
}

// bitstreamRunsTest applies the runs test with the frequency precondition:
// when the ones proportion strays too far from 1/2 the test short-circuits
// to p = 0, as the monobit failure dominates.
func bitstreamRunsTest(bits []int) domain.TestResult {
	n := len(bits)
	ones := 0
	for _, b := range bits {
		ones += b
	}
	pi := float64(ones) / float64(n)
	tau := 2 / math.Sqrt(float64(n))
	if math.Abs(pi-0.5) >= tau {
		return domain.TestResult{
			TestName:   TestBitstreamRuns,
			Statistic:  0,
			PValue:     0,
			SampleSize: n,
			Detail:     map[string]any{"pi": pi, "tau": tau, "precondition_failed": true},
		}
	}

	vn := 1
	for i := 1; i < n; i++ {
		if bits[i] != bits[i-1] {
			vn++
		}
	}
	numerator := math.Abs(float64(vn) - 2*float64(n)*pi*(1-pi))
	denominator := 2 * math.Sqrt(2*float64(n)) * pi * (1 - pi)
	p := math.Erfc(numerator / denominator)

	return domain.TestResult{
		TestName:   TestBitstreamRuns,
		Statistic:  float64(vn),
		PValue:     p,
		SampleSize: n,
		Detail:     map[string]any{"pi": pi, "tau": tau},
	}
}

// longestRunTest examines the longest run of ones within 8-bit blocks using
// the SP 800-22 category probabilities for M=8.
func longestRunTest(bits []int) domain.TestResult {
	const blockSize = 8
	n := len(bits)
	numBlocks := n / blockSize
	if numBlocks < 16 {
		return domain.Degraded(TestLongestRun, n, errors.InsufficientSamples(fmt.Sprintf("longest-run test requires at least 128 bits, got %d", n)))
	}

	// Category probabilities for longest run in an 8-bit block: <=1, 2, 3, >=4.
	probs := []float64{0.2148, 0.3672, 0.2305, 0.1875}
	observed := make([]float64, 4)

	for b := 0; b < numBlocks; b++ {
		longest, current := 0, 0
		for _, bit := range bits[b*blockSize : (b+1)*blockSize] {
			if bit == 1 {
				current++
				if current > longest {
					longest = current
				}
			} else {
				current = 0
			}
		}
		switch {
		case longest <= 1:
			observed[0]++
		case longest == 2:
			observed[1]++
		case longest == 3:
			observed[2]++
		default:
			observed[3]++
		}
	}

	chiSquare := 0.0
	for i, p := range probs {
		expected := p * float64(numBlocks)
		diff := observed[i] - expected
		chiSquare += diff * diff / expected
	}
	df := len(probs) - 1
	p := distuv.ChiSquared{K: float64(df)}.Survival(chiSquare)

	return domain.TestResult{
		TestName:   TestLongestRun,
		Statistic:  chiSquare,
		PValue:     p,
		SampleSize: n,
		Detail:     map[string]any{"block_size": blockSize, "num_blocks": numBlocks, "observed": observed},
	}.WithDF(df)
}

// psi2 is the overlapping m-block frequency functional of the serial test.
func psi2(bits []int, m int) float64 {
	n := len(bits)
	if m <= 0 || n == 0 {
		return 0
	}
	counts := make(map[int]int)
	for i := 0; i < n; i++ {
		block := 0
		for j := 0; j < m; j++ {
			block = block<<1 | bits[(i+j)%n]
		}
		counts[block]++
	}
	total := 0.0
	for _, c := range counts {
		total += float64(c) * float64(c)
	}
	return total*math.Pow(2, float64(m))/float64(n) - float64(n)
}

// serialTest checks the uniformity of overlapping m-bit patterns.
func serialTest(bits []int, m int) domain.TestResult {
	n := len(bits)
	if n < m {
		return domain.Degraded(TestSerial, n, errors.InsufficientSamples(fmt.Sprintf("serial test needs at least %d bits, got %d", m, n)))
	}

	psiM := psi2(bits, m)
	psiM1 := psi2(bits, m-1)
	psiM2 := psi2(bits, m-2)
	delta1 := psiM - psiM1
	delta2 := psiM - 2*psiM1 + psiM2

	df1 := 1 << (m - 1)
	p1 := distuv.ChiSquared{K: float64(df1)}.Survival(delta1)
	p2 := 1.0
	if m >= 2 {
		p2 = distuv.ChiSquared{K: float64(int(1) << (m - 2))}.Survival(delta2)
	}

	return domain.TestResult{
		TestName:   TestSerial,
		Statistic:  delta1,
		PValue:     p1,
		SampleSize: n,
		Detail:     map[string]any{"m": m, "delta2": delta2, "p_value2": p2},
	}.WithDF(df1)
}

// cumulativeSumsTest checks the maximum excursion of the random walk built
// from ±1-adjusted bits, in both directions.
func cumulativeSumsTest(bits []int) domain.TestResult {
	n := len(bits)
	forward := make([]int, n)
	backward := make([]int, n)
	running := 0
	for i, b := range bits {
		running += 2*b - 1
		forward[i] = running
	}
	running = 0
	for i := n - 1; i >= 0; i-- {
		running += 2*bits[i] - 1
		backward[n-1-i] = running
	}

	pForward := cusumPValue(forward)
	pBackward := cusumPValue(backward)

	maxExcursion := 0
	for _, v := range forward {
		if abs := int(math.Abs(float64(v))); abs > maxExcursion {
			maxExcursion = abs
		}
	}

	p := pForward
	if pBackward < p {
		p = pBackward
	}
	return domain.TestResult{
		TestName:   TestCusum,
		Statistic:  float64(maxExcursion),
		PValue:     p,
		SampleSize: n,
		Detail:     map[string]any{"p_value_forward": pForward, "p_value_backward": pBackward},
	}
}

func cusumPValue(partialSums []int) float64 {
	n := len(partialSums)
	if n == 0 {
		return 1
	}
	z := 0.0
	for _, v := range partialSums {
		if abs := math.Abs(float64(v)); abs > z {
			z = abs
		}
	}
	if z == 0 {
		return 1
	}

	fn := float64(n)
	sqrtN := math.Sqrt(fn)
	normal := distuv.UnitNormal

	rangeSum := func(start, end int, offset float64) float64 {
		total := 0.0
		for k := start; k <= end; k++ {
			term1 := ((4*float64(k) + offset) * z) / sqrtN
			term2 := ((4*float64(k) + offset - 2) * z) / sqrtN
			total += normal.CDF(term1) - normal.CDF(term2)
		}
		return total
	}

	start1 := int(((-fn/z)+1) / 4)
	end1 := int(((fn/z)-1) / 4)
	sum1 := 0.0
	if start1 <= end1 {
		sum1 = rangeSum(start1, end1, 1)
	}

	start2 := int(((-fn/z)-3) / 4)
	end2 := int(((fn/z)-1) / 4)
	sum2 := 0.0
	if start2 <= end2 {
		sum2 = rangeSum(start2, end2, 3)
	}

	p := 1 - sum1 + sum2
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
