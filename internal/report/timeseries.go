package report

import (
	"sort"
	"time"

	"github.com/KaramelBytes/staffboard/internal/dataset"
)

// DatePoint is the salary total of everyone hired on Date.
type DatePoint struct {
	Date      time.Time `json:"date"`
	Value     float64   `json:"value"`
	Employees int       `json:"employees"`
}

// TimeSeries groups rows by exact hire date and sums salary per date. The
// result is sorted ascending and holds each date once. A hire date that does
// not parse aborts the projection with a *dataset.FieldError.
func TimeSeries(t *dataset.Table) ([]DatePoint, error) {
	index := make(map[time.Time]int)
	out := []DatePoint{}
	for n, r := range t.Rows {
		d, err := dataset.ParseDate(r.HireDate)
		if err != nil {
			return nil, dataset.DateError(n+1, r.HireDate, err)
		}
		d = d.UTC()
		i, ok := index[d]
		if !ok {
			i = len(out)
			index[d] = i
			out = append(out, DatePoint{Date: d})
		}
		out[i].Value += r.AnnualSalary
		out[i].Employees++
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
