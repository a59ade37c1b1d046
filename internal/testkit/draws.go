package testkit

import (
	"math/rand"
	"sort"
	"time"

	"lottolab/domain/draw"
)

// DrawGenerator produces deterministic draw fixtures from a seed.
type DrawGenerator struct {
	rng  *rand.Rand
	next int
	date time.Time
}

// NewDrawGenerator creates a generator whose output is fully determined by
// the seed. Draw numbers start at 1 and dates advance weekly.
func NewDrawGenerator(seed int64) *DrawGenerator {
	return &DrawGenerator{
		rng:  rand.New(rand.NewSource(seed)),
		next: 1,
		date: time.Date(2002, 12, 7, 0, 0, 0, 0, time.UTC),
	}
}

// Next returns one uniformly sampled draw.
func (g *DrawGenerator) Next() draw.Record {
	perm := g.rng.Perm(draw.TotalBalls)
	numbers := make([]int, draw.BallsPerDraw)
	for i := range numbers {
		numbers[i] = perm[i] + 1
	}
	sort.Ints(numbers)
	bonus := perm[draw.BallsPerDraw] + 1

	rec := draw.Record{
		DrawNo:   g.next,
		DrawDate: g.date,
		Numbers:  numbers,
		Bonus:    bonus,
	}
	g.next++
	g.date = g.date.AddDate(0, 0, 7)
	return rec
}

// History returns n uniformly sampled draws.
func (g *DrawGenerator) History(n int) draw.History {
	history := make(draw.History, n)
	for i := range history {
		history[i] = g.Next()
	}
	return history
}

// UniformHistory returns a perfectly balanced deterministic history: the
// numbers 1..45 dealt round-robin six at a time. Every number appears
// exactly the same count when n is a multiple of 15, which makes the
// frequency chi-square statistic exactly zero.
func UniformHistory(n int) draw.History {
	history := make(draw.History, n)
	value := 0
	date := time.Date(2002, 12, 7, 0, 0, 0, 0, time.UTC)
	for i := range history {
		numbers := make([]int, draw.BallsPerDraw)
		for j := range numbers {
			numbers[j] = value%draw.TotalBalls + 1
			value++
		}
		sort.Ints(numbers)
		bonus := 1
		for contains(numbers, bonus) {
			bonus++
		}
		history[i] = draw.Record{
			DrawNo:   i + 1,
			DrawDate: date,
			Numbers:  numbers,
			Bonus:    bonus,
		}
		date = date.AddDate(0, 0, 7)
	}
	return history
}

// RepeatingHistory returns n draws that all share the exact same numbers,
// the strongest possible violation of draw independence.
func RepeatingHistory(n int) draw.History {
	return RepeatingHistoryWith(n, []int{3, 11, 18, 24, 33, 42}, 7)
}

// RepeatingHistoryWith is RepeatingHistory with a caller-chosen number set.
func RepeatingHistoryWith(n int, numbers []int, bonus int) draw.History {
	history := make(draw.History, n)
	date := time.Date(2002, 12, 7, 0, 0, 0, 0, time.UTC)
	for i := range history {
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

func contains(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
