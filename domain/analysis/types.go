package analysis

import (
	"encoding/json"
	"math"
	"time"

	"lottolab/internal/errors"
)

// TestResult is the uniform output shape for every statistical test.
// A degraded result (a test module that failed) carries NaN statistic and
// p-value plus an error detail; callers check Failed() before interpreting.
type TestResult struct {
	TestName         string         `json:"test_name"`
	Statistic        float64        `json:"statistic"`
	DegreesOfFreedom *int           `json:"degrees_of_freedom,omitempty"`
	PValue           float64        `json:"p_value"`
	SampleSize       int            `json:"sample_size"`
	Detail           map[string]any `json:"detail,omitempty"`
}

// Failed reports whether this result is a degraded placeholder.
func (r TestResult) Failed() bool {
	return math.IsNaN(r.Statistic) && math.IsNaN(r.PValue)
}

// MarshalJSON renders NaN and infinities as null so degraded results stay
// serializable to standard JSON.
func (r TestResult) MarshalJSON() ([]byte, error) {
	type payload struct {
		TestName         string         `json:"test_name"`
		Statistic        *float64       `json:"statistic"`
		DegreesOfFreedom *int           `json:"degrees_of_freedom,omitempty"`
		PValue           *float64       `json:"p_value"`
		SampleSize       int            `json:"sample_size"`
		Detail           map[string]any `json:"detail,omitempty"`
	}
	return json.Marshal(payload{
		TestName:         r.TestName,
		Statistic:        jsonFloat(r.Statistic),
		DegreesOfFreedom: r.DegreesOfFreedom,
		PValue:           jsonFloat(r.PValue),
		SampleSize:       r.SampleSize,
		Detail:           r.Detail,
	})
}

// UnmarshalJSON restores null statistic and p-value fields to NaN so a
// persisted degraded result still reports Failed() after a round trip.
func (r *TestResult) UnmarshalJSON(data []byte) error {
	type payload struct {
		TestName         string         `json:"test_name"`
		Statistic        *float64       `json:"statistic"`
		DegreesOfFreedom *int           `json:"degrees_of_freedom,omitempty"`
		PValue           *float64       `json:"p_value"`
		SampleSize       int            `json:"sample_size"`
		Detail           map[string]any `json:"detail,omitempty"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	r.TestName = p.TestName
	r.Statistic = floatOrNaN(p.Statistic)
	r.DegreesOfFreedom = p.DegreesOfFreedom
	r.PValue = floatOrNaN(p.PValue)
	r.SampleSize = p.SampleSize
	r.Detail = p.Detail
	return nil
}

func floatOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func jsonFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Degraded builds the placeholder result recorded when a test module fails.
func Degraded(name string, sampleSize int, err error) TestResult {
	return TestResult{
		TestName:   name,
		Statistic:  math.NaN(),
		PValue:     math.NaN(),
		SampleSize: sampleSize,
		Detail: map[string]any{
			"error":      err.Error(),
			"error_code": errors.GetCode(err),
		},
	}
}

// WithDF attaches degrees of freedom to a result.
func (r TestResult) WithDF(df int) TestResult {
	r.DegreesOfFreedom = &df
	return r
}

// Snapshot is the aggregator output persisted by the snapshot store.
// Snapshots are superseded, never merged: a newer max covered draw number
// produces a fresh snapshot under a fresh key.
type Snapshot struct {
	ID               string                `json:"id"`
	ScopeName        string                `json:"scope_name"`
	MaxDrawNoCovered int                   `json:"max_draw_no_covered"`
	ComputedAt       time.Time             `json:"computed_at"`
	Results          map[string]TestResult `json:"results"`
}

// FailedCount returns how many results in the snapshot are degraded.
func (s *Snapshot) FailedCount() int {
	n := 0
	for _, r := range s.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}
