package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names of the employee export.
const (
	ColEEID         = "EEID"
	ColID           = "id"
	ColFullName     = "FullName"
	ColJobTitle     = "JobTitle"
	ColDepartment   = "Department"
	ColCountry      = "Country"
	ColBusinessUnit = "BusinessUnit"
	ColCity         = "City"
	ColHireDate     = "HireDate"
	ColAnnualSalary = "AnnualSalary"
	ColBonus        = "Bonus"
	ColAge          = "Age"
)

// RequiredColumns lists the columns Bind insists on, besides an identifier
// column (EEID or id).
var RequiredColumns = []string{
	ColFullName, ColJobTitle, ColDepartment, ColCountry, ColBusinessUnit,
	ColCity, ColHireDate, ColAnnualSalary, ColBonus, ColAge,
}

// Row is one employee record.
type Row struct {
	ID           string
	FullName     string
	JobTitle     string
	Department   string
	Country      string
	City         string
	BusinessUnit string
	// HireDate is kept as written; see ParseDate.
	HireDate     string
	AnnualSalary float64
	Bonus        float64
	Age          float64
	// Values holds the literal text of every column, in header order.
	Values       []string
}

// Table is an ordered collection of rows sharing one header.
type Table struct {
	Header []string
	Rows   []Row
	// IDColumn is the header name used for the identifier (EEID or id).
	IDColumn string
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex resolves a column name case-insensitively. "id" and "EEID" are
// both accepted for the identifier column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	if i, ok := headerIndex(t.Header, name); ok {
		return i, true
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "id", "eeid":
		return headerIndex(t.Header, t.IDColumn)
	}
	return -1, false
}

// Distinct returns the distinct values of a column in first-appearance order.
// The filter columns report the bound (trimmed) values Filter compares
// against; other columns report the text as written.
func (t *Table) Distinct(column string) []string {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return nil
	}
	value := func(r *Row) string { return r.Values[idx] }
	switch {
	case strings.EqualFold(t.Header[idx], ColDepartment):
		value = func(r *Row) string { return r.Department }
	case strings.EqualFold(t.Header[idx], ColCountry):
		value = func(r *Row) string { return r.Country }
	case strings.EqualFold(t.Header[idx], ColBusinessUnit):
		value = func(r *Row) string { return r.BusinessUnit }
	}
	seen := make(map[string]bool)
	var out []string
	for i := range t.Rows {
		v := value(&t.Rows[i])
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Load reads path and binds it to a Table. Missing files and missing
// required columns yield *UnavailableError; malformed cells yield *FieldError.
func Load(path string, opt ReadOptions) (*Table, error) {
	fr, err := ReadFrameFile(path, opt)
	if err != nil {
		return nil, err
	}
	t, err := Bind(fr, opt)
	if err != nil {
		var ue *UnavailableError
		if errors.As(err, &ue) && ue.Path == "" {
			ue.Path = path
		}
		return nil, err
	}
	return t, nil
}

// Bind validates the frame header once and converts every record into a
// typed Row. Empty categorical or numeric values and non-numeric numbers are
// rejected rather than carried through the aggregates.
func Bind(fr *Frame, opt ReadOptions) (*Table, error) {
	idCol := ""
	for _, name := range []string{ColEEID, ColID} {
		if i, ok := fr.Index(name); ok {
			idCol = fr.Header[i]
			break
		}
	}
	var missing []string
	if idCol == "" {
		missing = append(missing, ColEEID+"/"+ColID)
	}
	pos := make(map[string]int, len(RequiredColumns))
	for _, name := range RequiredColumns {
		i, ok := fr.Index(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		pos[name] = i
	}
	if len(missing) > 0 {
		return nil, &UnavailableError{Err: fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	idIdx, _ := fr.Index(idCol)

	t := &Table{Header: fr.Header, IDColumn: idCol, Rows: make([]Row, 0, len(fr.Records))}
	for n, rec := range fr.Records {
		rowNum := n + 1
		text := func(col string) (string, error) {
			v := strings.TrimSpace(rec[pos[col]])
			if v == "" {
				return "", &FieldError{Row: rowNum, Column: col, Err: errEmptyValue}
			}
			return v, nil
		}
		num := func(col string) (float64, error) {
			v, err := text(col)
			if err != nil {
				return 0, err
			}
			x, ok := parseNumber(v, opt.DecimalSeparator)
			if !ok {
				return 0, &FieldError{Row: rowNum, Column: col, Value: v, Err: errNotNumeric}
			}
			return x, nil
		}

		r := Row{
			ID:       strings.TrimSpace(rec[idIdx]),
			FullName: strings.TrimSpace(rec[pos[ColFullName]]),
			JobTitle: strings.TrimSpace(rec[pos[ColJobTitle]]),
			City:     strings.TrimSpace(rec[pos[ColCity]]),
			Values:   rec,
		}
		var err error
		if r.Department, err = text(ColDepartment); err != nil {
			return nil, err
		}
		if r.Country, err = text(ColCountry); err != nil {
			return nil, err
		}
		if r.BusinessUnit, err = text(ColBusinessUnit); err != nil {
			return nil, err
		}
		if r.HireDate, err = text(ColHireDate); err != nil {
			return nil, err
		}
		if r.AnnualSalary, err = num(ColAnnualSalary); err != nil {
			return nil, err
		}
		if r.Bonus, err = num(ColBonus); err != nil {
			return nil, err
		}
		if r.Age, err = num(ColAge); err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, r)
	}
	return t, nil
}

// parseNumber accepts plain numbers plus thousands separators, a leading
// currency symbol and a trailing percent sign ("$141,604", "15%").
func parseNumber(s string, dec rune) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, " ", "")
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.TrimLeft(raw, "$€£¥ ")
	if dec == 0 {
		dec = '.'
	}
	thou := ','
	if dec == ',' {
		thou = '.'
	}
	raw = strings.ReplaceAll(raw, string(thou), "")
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var dateLayouts = []string{
	"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04",
	"2006/01/02", "1/2/2006", "1/2/2006 15:04", "1/2/2006 15:04:05", "1/2/06",
	"2-Jan-2006", "Jan 2, 2006", "January 2, 2006",
}

// ParseDate parses a hire date. Slash dates are month first.
func ParseDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errNotADate
}

// DateError wraps a ParseDate failure for the given row with column context.
func DateError(row int, value string, err error) error {
	return &FieldError{Row: row, Column: ColHireDate, Value: value, Err: err}
}
