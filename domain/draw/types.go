package draw

import (
	"fmt"
	"time"

	"lottolab/internal/errors"
)

// Ball-pool constants for the 6/45 lottery format.
const (
	TotalBalls   = 45
	BallsPerDraw = 6
	OddBalls     = 23 // 1,3,...,45
	EvenBalls    = 22
	LowBalls     = 22 // 1..22; high side is 23..45
	HighBalls    = 23
)

// Record holds the essential facts for one lottery drawing.
// Records are immutable once stored.
type Record struct {
	DrawNo   int       `json:"draw_no" db:"draw_no"`
	DrawDate time.Time `json:"draw_date" db:"draw_date"`
	Numbers  []int     `json:"numbers"`
	Bonus    int       `json:"bonus" db:"bonus"`
}

// Validate enforces the structural invariants of a draw: exactly six
// distinct main numbers in [1,45] and a bonus in [1,45] outside the main
// set. A violation is a fatal precondition failure, never masked.
func (r Record) Validate() error {
	if r.DrawNo <= 0 {
		return errors.ValidationError(fmt.Sprintf("draw_no must be positive, got %d", r.DrawNo))
	}
	if len(r.Numbers) != BallsPerDraw {
		return errors.ValidationError(fmt.Sprintf("draw %d: expected %d numbers, got %d", r.DrawNo, BallsPerDraw, len(r.Numbers)))
	}
	seen := make(map[int]bool, BallsPerDraw)
	for _, n := range r.Numbers {
		if n < 1 || n > TotalBalls {
			return errors.ValidationError(fmt.Sprintf("draw %d: number %d out of range [1,%d]", r.DrawNo, n, TotalBalls))
		}
		if seen[n] {
			return errors.ValidationError(fmt.Sprintf("draw %d: duplicate number %d", r.DrawNo, n))
		}
		seen[n] = true
	}
	if r.Bonus < 1 || r.Bonus > TotalBalls {
		return errors.ValidationError(fmt.Sprintf("draw %d: bonus %d out of range [1,%d]", r.DrawNo, r.Bonus, TotalBalls))
	}
	if seen[r.Bonus] {
		return errors.ValidationError(fmt.Sprintf("draw %d: bonus %d collides with main numbers", r.DrawNo, r.Bonus))
	}
	return nil
}

// Sum returns the sum of the six main numbers.
func (r Record) Sum() int {
	total := 0
	for _, n := range r.Numbers {
		total += n
	}
	return total
}

// NumberSet returns the main numbers as a membership set.
func (r Record) NumberSet() map[int]bool {
	set := make(map[int]bool, len(r.Numbers))
	for _, n := range r.Numbers {
		set[n] = true
	}
	return set
}

// History is the ordered draw sequence handed to the analysis engine.
// It is append-only from the engine's point of view; all tests index by
// position and never assume draw_no values are contiguous.
type History []Record

// Validate checks every record and the ascending-unique draw_no invariant.
func (h History) Validate() error {
	prev := 0
	for i, rec := range h {
		if err := rec.Validate(); err != nil {
			return err
		}
		if rec.DrawNo <= prev {
			return errors.ValidationError(fmt.Sprintf("history position %d: draw_no %d not strictly ascending", i, rec.DrawNo))
		}
		prev = rec.DrawNo
	}
	return nil
}

// MaxDrawNo returns the highest draw number covered, 0 for an empty history.
func (h History) MaxDrawNo() int {
	if len(h) == 0 {
		return 0
	}
	return h[len(h)-1].DrawNo
}

// Sums returns the per-draw sums as floats, in history order.
func (h History) Sums() []float64 {
	sums := make([]float64, len(h))
	for i, rec := range h {
		sums[i] = float64(rec.Sum())
	}
	return sums
}
