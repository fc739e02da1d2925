package dashboard

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// sampleRows caps the table section of the text report.
const sampleRows = 10

var printer = message.NewPrinter(language.English)

// Amount formats v with thousands separators and the given decimals; NaN is
// rendered as "n/a".
func Amount(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return printer.Sprint(number.Decimal(v, number.Scale(decimals)))
}

// Markdown renders a compact text report of the dashboard.
func (d *Dashboard) Markdown() string {
	var b strings.Builder
	b.WriteString("[DASHBOARD]\n")
	b.WriteString(fmt.Sprintf("Rows: %d\n", d.Rows))
	b.WriteString(fmt.Sprintf("Department: %s\n", joinSel(d.Selection.Departments)))
	b.WriteString(fmt.Sprintf("Country: %s\n", joinSel(d.Selection.Countries)))
	b.WriteString(fmt.Sprintf("Business Unit: %s\n", joinSel(d.Selection.BusinessUnits)))

	m := d.Metrics
	b.WriteString("\n[KEY METRICS]\n")
	b.WriteString(fmt.Sprintf("- Total Employees: %s\n", printer.Sprintf("%d", m.Employees)))
	b.WriteString(fmt.Sprintf("- Total Annual Salary: %s\n", Amount(m.TotalSalary, 0)))
	b.WriteString(fmt.Sprintf("- Max Salary: %s\n", Amount(m.MaxSalary, 0)))
	b.WriteString(fmt.Sprintf("- Avg. Salary: %s\n", Amount(m.AvgSalary, 2)))
	b.WriteString(fmt.Sprintf("- Median Age: %s\n", Amount(m.MedianAge, 0)))
	b.WriteString(fmt.Sprintf("- Total Bonus: %s\n", Amount(m.TotalBonus, 2)))
	b.WriteString(fmt.Sprintf("- Total Departments: %d\n", m.Departments))

	if d.Rows == 0 {
		b.WriteString("\n[NOTES]\n- No rows match the current filters.\n")
		return b.String()
	}

	b.WriteString("\n[SALARY BY DEPARTMENT]\n")
	for _, t := range d.ByDepartment {
		share := 0.0
		if m.TotalSalary != 0 {
			share = t.Value * 100 / m.TotalSalary
		}
		b.WriteString(fmt.Sprintf("- %s: %s (%.1f%%, n=%d)\n", safeVal(t.Key), Amount(t.Value, 0), share, t.Employees))
	}

	if c := d.Correlation; c != nil {
		b.WriteString("\n[CORRELATIONS]\n")
		for i := 0; i < len(c.Columns); i++ {
			for j := i + 1; j < len(c.Columns); j++ {
				r := c.Values[i][j]
				if math.IsNaN(r) {
					b.WriteString(fmt.Sprintf("- %s ~ %s: undefined\n", c.Columns[i], c.Columns[j]))
					continue
				}
				b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", c.Columns[i], c.Columns[j], r))
			}
		}
	}

	b.WriteString("\n[GEOGRAPHIC DISTRIBUTION]\n")
	for _, c := range d.ByCountry {
		b.WriteString(fmt.Sprintf("- %s (%s): %s, n=%d\n", safeVal(c.Country), safeVal(c.City), Amount(c.Value, 0), c.Employees))
	}

	if len(d.TimeSeries) > 0 {
		first, last := d.TimeSeries[0], d.TimeSeries[len(d.TimeSeries)-1]
		peak := first
		for _, p := range d.TimeSeries {
			if p.Value > peak.Value {
				peak = p
			}
		}
		b.WriteString("\n[SALARY BY HIRE DATE]\n")
		b.WriteString(fmt.Sprintf("- Range: %s .. %s (%d dates)\n", first.Date.Format("2006-01-02"), last.Date.Format("2006-01-02"), len(d.TimeSeries)))
		b.WriteString(fmt.Sprintf("- Peak: %s on %s\n", Amount(peak.Value, 0), peak.Date.Format("2006-01-02")))
	}

	b.WriteString("\n[TREEMAP]\n")
	for _, dep := range d.Treemap {
		b.WriteString(fmt.Sprintf("- %s: %s\n", safeVal(dep.Label), Amount(dep.Value, 0)))
		for _, c := range dep.Children {
			b.WriteString(fmt.Sprintf("  • %s: %s (n=%d)\n", safeVal(c.Label), Amount(c.Value, 0), c.Employees))
		}
	}

	if d.Table != nil && len(d.Table.Columns) > 0 {
		b.WriteString("\n[TABLE]\n")
		b.WriteString("| " + strings.Join(d.Table.Columns, " | ") + " |\n")
		seps := make([]string, len(d.Table.Columns))
		for i := range seps {
			seps[i] = "---"
		}
		b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
		for i, row := range d.Table.Rows {
			if i >= sampleRows {
				break
			}
			vals := make([]string, len(row))
			for j, v := range row {
				vals[j] = safeVal(v)
			}
			b.WriteString("| " + strings.Join(vals, " | ") + " |\n")
		}
		if len(d.Table.Rows) > sampleRows {
			b.WriteString(fmt.Sprintf("\n[NOTES]\n- showing %d of %d rows\n", sampleRows, len(d.Table.Rows)))
		}
	}
	return b.String()
}

func joinSel(vals []string) string {
	if len(vals) == 0 {
		return "(none)"
	}
	return strings.Join(vals, ", ")
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
