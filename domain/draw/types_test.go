package draw

import (
	"testing"
	"time"

	"lottolab/internal/errors"
)

func validRecord() Record {
	return Record{
		DrawNo:   1,
		DrawDate: time.Date(2002, 12, 7, 0, 0, 0, 0, time.UTC),
		Numbers:  []int{10, 23, 29, 33, 37, 40},
		Bonus:    16,
	}
}

func TestRecordValidate(t *testing.T) {
	if err := validRecord().Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}
}

func TestRecordValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Record)
	}{
		{"zero draw_no", func(r *Record) { r.DrawNo = 0 }},
		{"too few numbers", func(r *Record) { r.Numbers = []int{1, 2, 3} }},
		{"number below range", func(r *Record) { r.Numbers[0] = 0 }},
		{"number above range", func(r *Record) { r.Numbers[5] = 46 }},
		{"duplicate number", func(r *Record) { r.Numbers[1] = r.Numbers[0] }},
		{"bonus out of range", func(r *Record) { r.Bonus = 46 }},
		{"bonus collides", func(r *Record) { r.Bonus = r.Numbers[2] }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := validRecord()
			rec.Numbers = append([]int(nil), rec.Numbers...)
			c.mutate(&rec)
			err := rec.Validate()
			if !errors.HasCode(err, errors.CodeValidationError) {
				t.Errorf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestRecordSum(t *testing.T) {
	if got := validRecord().Sum(); got != 172 {
		t.Errorf("expected sum 172, got %d", got)
	}
}

func TestRecordNumberSet(t *testing.T) {
	set := validRecord().NumberSet()
	if len(set) != 6 {
		t.Fatalf("expected 6 members, got %d", len(set))
	}
	if !set[29] || set[30] {
		t.Error("membership mismatch")
	}
}

func TestHistoryValidateOrdering(t *testing.T) {
	a := validRecord()
	b := validRecord()
	b.DrawNo = 2

	if err := (History{a, b}).Validate(); err != nil {
		t.Fatalf("ascending history rejected: %v", err)
	}
	if err := (History{b, a}).Validate(); !errors.HasCode(err, errors.CodeValidationError) {
		t.Errorf("descending history must be rejected, got %v", err)
	}
	if err := (History{a, a}).Validate(); !errors.HasCode(err, errors.CodeValidationError) {
		t.Errorf("duplicate draw_no must be rejected, got %v", err)
	}
}

func TestHistoryMaxDrawNo(t *testing.T) {
	if got := (History{}).MaxDrawNo(); got != 0 {
		t.Errorf("empty history must report 0, got %d", got)
	}
	rec := validRecord()
	rec.DrawNo = 1154
	if got := (History{rec}).MaxDrawNo(); got != 1154 {
		t.Errorf("expected 1154, got %d", got)
	}
}

func TestHistorySums(t *testing.T) {
	rec := validRecord()
	sums := History{rec}.Sums()
	if len(sums) != 1 || sums[0] != 172 {
		t.Errorf("expected [172], got %v", sums)
	}
}
