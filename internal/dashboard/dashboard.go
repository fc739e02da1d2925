// Package dashboard runs the full filter → metrics → projections pipeline for
// one render pass.
package dashboard

import (
	"fmt"

	"github.com/KaramelBytes/staffboard/internal/dataset"
	"github.com/KaramelBytes/staffboard/internal/metrics"
	"github.com/KaramelBytes/staffboard/internal/report"
)

// Dashboard is everything one render pass shows. It is derived from the
// table and selection and never mutated afterwards.
type Dashboard struct {
	Selection    dataset.Selection     `json:"selection"`
	Rows         int                   `json:"rows"`
	Metrics      metrics.Snapshot      `json:"metrics"`
	ByDepartment []report.Total        `json:"byDepartment"`
	Correlation  *report.Matrix        `json:"correlation"`
	ByCountry    []report.CountryTotal `json:"byCountry"`
	TimeSeries   []report.DatePoint    `json:"timeSeries"`
	Treemap      []report.Node         `json:"treemap"`
	Table        *report.Projection    `json:"table"`
}

// Options lists what the filter and column pickers can offer.
type Options struct {
	Departments   []string `json:"departments"`
	Countries     []string `json:"countries"`
	BusinessUnits []string `json:"businessUnits"`
	Columns       []string `json:"columns"`
}

// OptionsFor returns the distinct filter values and the pickable columns of t.
func OptionsFor(t *dataset.Table) Options {
	sel := dataset.DefaultSelection(t)
	return Options{
		Departments:   sel.Departments,
		Countries:     sel.Countries,
		BusinessUnits: sel.BusinessUnits,
		Columns:       report.Columns(t),
	}
}

// Build filters t by sel and computes the metrics and every projection from
// the filtered rows. An empty selection is a valid result, not an error.
// cols picks the table columns (nil for the defaults).
func Build(t *dataset.Table, sel dataset.Selection, cols []string) (*Dashboard, error) {
	filtered := dataset.Filter(t, sel)

	series, err := report.TimeSeries(filtered)
	if err != nil {
		return nil, fmt.Errorf("time series: %w", err)
	}
	proj, err := report.Project(filtered, cols)
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	return &Dashboard{
		Selection:    sel,
		Rows:         filtered.Len(),
		Metrics:      metrics.Compute(filtered),
		ByDepartment: report.ByDepartment(filtered),
		Correlation:  report.Correlation(filtered),
		ByCountry:    report.ByCountry(filtered),
		TimeSeries:   series,
		Treemap:      report.Treemap(filtered),
		Table:        proj,
	}, nil
}
