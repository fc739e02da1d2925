// Package metrics computes the scalar summary shown above the dashboard charts.
package metrics

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/KaramelBytes/staffboard/internal/dataset"
)

// Snapshot is a set of summary statistics over a table. On an empty table
// MaxSalary, AvgSalary and MedianAge are NaN.
type Snapshot struct {
	Employees   int     `json:"employees"`
	TotalSalary float64 `json:"totalSalary"`
	MaxSalary   float64 `json:"maxSalary"`
	AvgSalary   float64 `json:"avgSalary"`
	MedianAge   float64 `json:"medianAge"`
	TotalBonus  float64 `json:"totalBonus"`
	Departments int     `json:"departments"`
}

// Compute derives a Snapshot from t. It never fails.
func Compute(t *dataset.Table) Snapshot {
	s := Snapshot{
		MaxSalary: math.NaN(),
		AvgSalary: math.NaN(),
		MedianAge: math.NaN(),
	}
	n := t.Len()
	if n == 0 {
		return s
	}
	ids := make(map[string]struct{}, n)
	deps := make(map[string]struct{})
	ages := make([]float64, 0, n)
	maxSalary := math.Inf(-1)
	for _, r := range t.Rows {
		ids[r.ID] = struct{}{}
		deps[r.Department] = struct{}{}
		s.TotalSalary += r.AnnualSalary
		s.TotalBonus += r.Bonus
		if r.AnnualSalary > maxSalary {
			maxSalary = r.AnnualSalary
		}
		ages = append(ages, r.Age)
	}
	s.Employees = len(ids)
	s.Departments = len(deps)
	s.MaxSalary = maxSalary
	s.AvgSalary = s.TotalSalary / float64(n)
	s.MedianAge = Median(ages)
	return s
}

// Defined reports whether the extremal and central statistics carry values.
func (s Snapshot) Defined() bool {
	return !math.IsNaN(s.AvgSalary)
}

// MarshalJSON writes NaN statistics as null.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Employees   int      `json:"employees"`
		TotalSalary float64  `json:"totalSalary"`
		MaxSalary   *float64 `json:"maxSalary"`
		AvgSalary   *float64 `json:"avgSalary"`
		MedianAge   *float64 `json:"medianAge"`
		TotalBonus  float64  `json:"totalBonus"`
		Departments int      `json:"departments"`
	}{
		Employees:   s.Employees,
		TotalSalary: s.TotalSalary,
		MaxSalary:   Nullable(s.MaxSalary),
		AvgSalary:   Nullable(s.AvgSalary),
		MedianAge:   Nullable(s.MedianAge),
		TotalBonus:  s.TotalBonus,
		Departments: s.Departments,
	})
}

// Nullable maps NaN and infinities to nil so they encode as JSON null.
func Nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Median returns the middle value of vals, averaging the two middle values
// for even sizes. It returns NaN for no values. vals is not modified.
func Median(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return quantile(cp, 0.5)
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
