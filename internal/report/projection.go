package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/staffboard/internal/dataset"
)

// DefaultColumns is the column set shown in the data table when the caller
// does not pick one. "id" resolves to the table's identifier column.
var DefaultColumns = []string{
	"id", dataset.ColFullName, dataset.ColJobTitle, dataset.ColDepartment,
	dataset.ColAnnualSalary, dataset.ColCountry, dataset.ColCity,
}

// Projection is a column subset of a table, values kept as written.
type Projection struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Project selects cols from t in the given order. Names are matched
// case-insensitively and reported with the table's own spelling. An empty
// cols uses DefaultColumns; an unknown or repeated column is an error.
func Project(t *dataset.Table, cols []string) (*Projection, error) {
	if len(cols) == 0 {
		cols = DefaultColumns
	}
	idx := make([]int, 0, len(cols))
	names := make([]string, 0, len(cols))
	seen := make(map[int]bool, len(cols))
	for _, c := range cols {
		i, ok := t.ColumnIndex(c)
		if !ok {
			return nil, fmt.Errorf("unknown column %q (available: %s)", c, strings.Join(t.Header, ", "))
		}
		if seen[i] {
			return nil, fmt.Errorf("column %q selected twice", c)
		}
		seen[i] = true
		idx = append(idx, i)
		names = append(names, t.Header[i])
	}
	p := &Projection{Columns: names, Rows: make([][]string, 0, t.Len())}
	for _, r := range t.Rows {
		out := make([]string, len(idx))
		for j, i := range idx {
			out[j] = r.Values[i]
		}
		p.Rows = append(p.Rows, out)
	}
	return p, nil
}

// WriteCSV writes the projection as comma-separated text with a header row.
// Reading it back with dataset.ReadFrame yields the same columns and rows.
// A record holding a single empty field is written as "" because csv readers
// skip blank lines.
func (p *Projection) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	write := func(rec []string) error {
		if len(rec) != 1 || rec[0] != "" {
			return cw.Write(rec)
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\"\"\n")
		return err
	}
	if err := write(p.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range p.Rows {
		if err := write(rec); err != nil {
			return fmt.Errorf("write rows: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// Columns lists the columns a caller can project, in header order.
func Columns(t *dataset.Table) []string {
	out := make([]string, len(t.Header))
	copy(out, t.Header)
	return out
}
