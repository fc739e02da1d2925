// Package charts renders dashboard projections as SVG images.
package charts

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/KaramelBytes/staffboard/internal/report"
)

// ErrNoData is returned when a projection has nothing to draw. The HTTP layer
// answers it with 204 No Content.
var ErrNoData = errors.New("no data to chart")

const (
	width  = 720
	height = 400
)

// Names lists the charts served by Render, in page order.
var Names = []string{"pie", "bar", "timeseries", "country", "treemap"}

// Data holds the dashboard projections the charts are drawn from.
type Data struct {
	ByDepartment []report.Total
	ByCountry    []report.CountryTotal
	TimeSeries   []report.DatePoint
	Treemap      []report.Node
}

// Render draws the named chart.
func Render(w io.Writer, name string, d Data) error {
	switch name {
	case "pie":
		return Pie(w, "Annual Salary by Department", d.ByDepartment)
	case "bar":
		return Bar(w, "Annual Salary by Department", d.ByDepartment)
	case "timeseries":
		return TimeSeries(w, "Annual Salary Over Time", d.TimeSeries)
	case "country":
		return Countries(w, "Annual Salary by Country", d.ByCountry)
	case "treemap":
		return Breakdown(w, "Employee Distribution", d.Treemap)
	default:
		return fmt.Errorf("unknown chart %q", name)
	}
}

// Pie draws each total as a slice. Totals with a non-positive value are
// skipped since they have no area.
func Pie(w io.Writer, title string, totals []report.Total) error {
	values := make([]chart.Value, 0, len(totals))
	for _, t := range totals {
		if t.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: t.Key, Value: t.Value})
	}
	if len(values) == 0 {
		return ErrNoData
	}
	pie := chart.PieChart{
		Title:  title,
		Width:  height,
		Height: height,
		Values: values,
	}
	if err := pie.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render pie: %w", err)
	}
	return nil
}

// Bar draws one bar per total.
func Bar(w io.Writer, title string, totals []report.Total) error {
	if len(totals) == 0 {
		return ErrNoData
	}
	maxV := 0.0
	bars := make([]chart.Value, 0, len(totals))
	for _, t := range totals {
		if t.Value > maxV {
			maxV = t.Value
		}
		bars = append(bars, chart.Value{Label: t.Key, Value: t.Value})
	}
	if maxV <= 0 {
		return ErrNoData
	}
	bc := chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth(len(bars)),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: maxV * 1.1},
			ValueFormatter: chart.IntValueFormatter,
		},
		Bars: bars,
	}
	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render bar: %w", err)
	}
	return nil
}

// TimeSeries draws salary against hire date. A single point is padded with a
// second one a day later so the x range is not zero.
func TimeSeries(w io.Writer, title string, points []report.DatePoint) error {
	if len(points) == 0 {
		return ErrNoData
	}
	xs := make([]time.Time, 0, len(points)+1)
	ys := make([]float64, 0, len(points)+1)
	minY, maxY := points[0].Value, points[0].Value
	for _, p := range points {
		xs = append(xs, p.Date)
		ys = append(ys, p.Value)
		if p.Value < minY {
			minY = p.Value
		}
		if p.Value > maxY {
			maxY = p.Value
		}
	}
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(24*time.Hour))
		ys = append(ys, ys[0])
	}
	if minY > 0 {
		minY = 0
	}
	if maxY <= minY {
		maxY = minY + 1
	}
	ch := chart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Hire Date", ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02")},
		YAxis: chart.YAxis{
			Name:           "Annual Salary",
			Range:          &chart.ContinuousRange{Min: minY, Max: maxY * 1.05},
			ValueFormatter: chart.IntValueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Annual Salary",
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2, DotWidth: 3, DotColor: chart.ColorBlue},
			},
		},
	}
	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render time series: %w", err)
	}
	return nil
}

// Countries draws one bar per country, labelled with its first city.
func Countries(w io.Writer, title string, totals []report.CountryTotal) error {
	bars := make([]report.Total, 0, len(totals))
	for _, c := range totals {
		bars = append(bars, report.Total{Key: c.Country + " (" + c.City + ")", Value: c.Value, Employees: c.Employees})
	}
	return Bar(w, title, bars)
}

// Breakdown draws each department as a stacked bar split by job title share
// of salary. Departments and titles without a positive total are left out.
func Breakdown(w io.Writer, title string, nodes []report.Node) error {
	bars := make([]chart.StackedBar, 0, len(nodes))
	for _, dep := range nodes {
		if dep.Value <= 0 {
			continue
		}
		values := make([]chart.Value, 0, len(dep.Children))
		for _, c := range dep.Children {
			if c.Value <= 0 {
				continue
			}
			values = append(values, chart.Value{Label: c.Label, Value: c.Value})
		}
		if len(values) == 0 {
			continue
		}
		bars = append(bars, chart.StackedBar{Name: dep.Label, Width: barWidth(len(nodes)), Values: values})
	}
	if len(bars) == 0 {
		return ErrNoData
	}
	sbc := chart.StackedBarChart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Bars:       bars,
	}
	if err := sbc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render breakdown: %w", err)
	}
	return nil
}

func barWidth(n int) int {
	bw := (width - 80) / (n * 2)
	switch {
	case bw > 60:
		return 60
	case bw < 8:
		return 8
	}
	return bw
}
