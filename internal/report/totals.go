// Package report shapes a filtered employee table into the projections the
// dashboard charts consume. Every function is pure and accepts empty tables.
package report

import "github.com/KaramelBytes/staffboard/internal/dataset"

// Total is a salary sum for one group key.
type Total struct {
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	Employees int     `json:"employees"`
}

// CountryTotal is a salary sum per country, labelled with the first city
// seen for that country.
type CountryTotal struct {
	Country   string  `json:"country"`
	City      string  `json:"city"`
	Value     float64 `json:"value"`
	Employees int     `json:"employees"`
}

// ByDepartment sums salary per department. Groups appear in the order their
// department first appears in t.
func ByDepartment(t *dataset.Table) []Total {
	return groupTotals(t, func(r dataset.Row) string { return r.Department })
}

// ByJobTitle sums salary per job title, first-appearance order.
func ByJobTitle(t *dataset.Table) []Total {
	return groupTotals(t, func(r dataset.Row) string { return r.JobTitle })
}

// ByCountry sums salary per country, first-appearance order.
func ByCountry(t *dataset.Table) []CountryTotal {
	index := make(map[string]int)
	out := []CountryTotal{}
	for _, r := range t.Rows {
		i, ok := index[r.Country]
		if !ok {
			i = len(out)
			index[r.Country] = i
			out = append(out, CountryTotal{Country: r.Country, City: r.City})
		}
		out[i].Value += r.AnnualSalary
		out[i].Employees++
	}
	return out
}

func groupTotals(t *dataset.Table, key func(dataset.Row) string) []Total {
	index := make(map[string]int)
	out := []Total{}
	if t == nil {
		return out
	}
	for _, r := range t.Rows {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Total{Key: k})
		}
		out[i].Value += r.AnnualSalary
		out[i].Employees++
	}
	return out
}

// Sum adds up the values of totals.
func Sum(totals []Total) float64 {
	var s float64
	for _, t := range totals {
		s += t.Value
	}
	return s
}
