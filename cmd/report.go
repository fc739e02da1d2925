package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/staffboard/internal/config"
	"github.com/KaramelBytes/staffboard/internal/dashboard"
	"github.com/KaramelBytes/staffboard/internal/dataset"
	"github.com/KaramelBytes/staffboard/internal/utils"
)

var (
	repDepartments   []string
	repCountries     []string
	repBusinessUnits []string
	repColumns       []string
	repFormat        string
	repExport        string
	repSave          bool
	repRows          int
	repListOptions   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print dashboard metrics and breakdowns for a selection",
	Long: `Filter the dataset and print the key metrics, salary breakdowns and the
selected table columns. A filter flag that is not given selects every value;
passing it with an empty value (--department "") selects none. Repeat a flag
to select several values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		t, err := loadTable()
		if err != nil {
			return err
		}
		if repListOptions {
			return printOptions(out, dashboard.OptionsFor(t))
		}

		sel := selectionFromFlags(cmd, t)
		cols := config.SplitList(strings.Join(repColumns, ","))
		if len(cols) == 0 {
			cols = cfg.DefaultColumns
		}
		d, err := dashboard.Build(t, sel, cols)
		if err != nil {
			return err
		}

		switch strings.ToLower(repFormat) {
		case "", "table", "text":
			renderReport(out, d, repRows)
		case "md", "markdown":
			fmt.Fprint(out, d.Markdown())
		case "json":
			b, err := utils.PrettyJSON(d)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		default:
			return fmt.Errorf("unsupported --format: %s (use table|markdown|json)", repFormat)
		}

		dest := repExport
		if repSave && dest == "" {
			dest = cfg.ExportPath
		}
		if dest != "" {
			var buf bytes.Buffer
			if err := d.Table.WriteCSV(&buf); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(dest, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d rows to %s\n", len(d.Table.Rows), dest)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringArrayVar(&repDepartments, "department", nil, "department to include (repeatable)")
	reportCmd.Flags().StringArrayVar(&repCountries, "country", nil, "country to include (repeatable)")
	reportCmd.Flags().StringArrayVar(&repBusinessUnits, "business-unit", nil, "business unit to include (repeatable)")
	reportCmd.Flags().StringSliceVar(&repColumns, "columns", nil, "table columns, comma-separated (default: config default_columns or id,FullName,JobTitle,Department,AnnualSalary,Country,City)")
	reportCmd.Flags().StringVar(&repFormat, "format", "table", "output format: table|markdown|json")
	reportCmd.Flags().StringVar(&repExport, "export", "", "also write the filtered table as CSV to this path")
	reportCmd.Flags().BoolVar(&repSave, "save", false, "write the filtered table to export_path (filtered_data.csv by default)")
	reportCmd.Flags().IntVar(&repRows, "rows", 20, "max table rows to print in table format (0 = all)")
	reportCmd.Flags().BoolVar(&repListOptions, "list-options", false, "list the filter values and columns, then exit")
}

// selectionFromFlags starts from every value and narrows each column whose
// flag was given. Empty flag values are dropped, so --department "" selects
// no department.
func selectionFromFlags(cmd *cobra.Command, t *dataset.Table) dataset.Selection {
	sel := dataset.DefaultSelection(t)
	pick := func(flag string, vals, all []string) []string {
		if !cmd.Flags().Changed(flag) {
			return all
		}
		out := make([]string, 0, len(vals))
		for _, v := range vals {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		return out
	}
	sel.Departments = pick("department", repDepartments, sel.Departments)
	sel.Countries = pick("country", repCountries, sel.Countries)
	sel.BusinessUnits = pick("business-unit", repBusinessUnits, sel.BusinessUnits)
	return sel
}

func printOptions(w io.Writer, o dashboard.Options) error {
	section := func(name string, vals []string) {
		fmt.Fprintf(w, "%s (%d):\n", name, len(vals))
		for _, v := range vals {
			fmt.Fprintf(w, "  - %s\n", v)
		}
	}
	section("Departments", o.Departments)
	section("Countries", o.Countries)
	section("Business units", o.BusinessUnits)
	section("Columns", o.Columns)
	return nil
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

func renderReport(w io.Writer, d *dashboard.Dashboard, maxRows int) {
	m := d.Metrics
	kt := newTable(w, "Key metrics")
	kt.AppendHeader(table.Row{"Metric", "Value"})
	kt.AppendRows([]table.Row{
		{"Total Employees", m.Employees},
		{"Total Annual Salary", dashboard.Amount(m.TotalSalary, 0)},
		{"Max Salary", dashboard.Amount(m.MaxSalary, 0)},
		{"Avg. Salary", dashboard.Amount(m.AvgSalary, 2)},
		{"Median Age", dashboard.Amount(m.MedianAge, 0)},
		{"Total Bonus", dashboard.Amount(m.TotalBonus, 2)},
		{"Total Departments", m.Departments},
	})
	kt.Render()

	if d.Rows == 0 {
		fmt.Fprintln(w, "⚠ No rows match the current filters.")
		return
	}

	dt := newTable(w, "Annual salary by department")
	dt.AppendHeader(table.Row{"Department", "Employees", "Annual Salary"})
	for _, t := range d.ByDepartment {
		dt.AppendRow(table.Row{t.Key, t.Employees, dashboard.Amount(t.Value, 0)})
	}
	dt.AppendFooter(table.Row{"Total", m.Employees, dashboard.Amount(m.TotalSalary, 0)})
	dt.Render()

	ct := newTable(w, "By country")
	ct.AppendHeader(table.Row{"Country", "City", "Employees", "Annual Salary"})
	for _, c := range d.ByCountry {
		ct.AppendRow(table.Row{c.Country, c.City, c.Employees, dashboard.Amount(c.Value, 0)})
	}
	ct.Render()

	if c := d.Correlation; c != nil {
		rt := newTable(w, "Correlation")
		hdr := table.Row{""}
		for _, name := range c.Columns {
			hdr = append(hdr, name)
		}
		rt.AppendHeader(hdr)
		for i, name := range c.Columns {
			row := table.Row{name}
			for j := range c.Columns {
				row = append(row, dashboard.Amount(c.Values[i][j], 3))
			}
			rt.AppendRow(row)
		}
		rt.Render()
	}

	tt := newTable(w, "Employee data")
	hdr := make(table.Row, len(d.Table.Columns))
	for i, c := range d.Table.Columns {
		hdr[i] = c
	}
	tt.AppendHeader(hdr)
	for i, r := range d.Table.Rows {
		if maxRows > 0 && i >= maxRows {
			break
		}
		row := make(table.Row, len(r))
		for j, v := range r {
			row[j] = v
		}
		tt.AppendRow(row)
	}
	tt.Render()
	if maxRows > 0 && len(d.Table.Rows) > maxRows {
		fmt.Fprintf(w, "(showing %d of %d rows; use --rows 0 for all)\n", maxRows, len(d.Table.Rows))
	}
}
