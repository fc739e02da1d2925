package dataset

// Selection holds the allowed values for the three filter columns. An empty
// set on any column admits no rows.
type Selection struct {
	Departments   []string `json:"departments"`
	Countries     []string `json:"countries"`
	BusinessUnits []string `json:"businessUnits"`
}

// DefaultSelection selects every distinct value present in t.
func DefaultSelection(t *Table) Selection {
	return Selection{
		Departments:   t.Distinct(ColDepartment),
		Countries:     t.Distinct(ColCountry),
		BusinessUnits: t.Distinct(ColBusinessUnit),
	}
}

// Filter returns the rows of t whose department, country and business unit
// are each in sel. Values within one column are OR-combined, columns are
// AND-combined. Row order is preserved and t is left untouched.
func Filter(t *Table, sel Selection) *Table {
	out := &Table{Header: t.Header, IDColumn: t.IDColumn}
	if len(sel.Departments) == 0 || len(sel.Countries) == 0 || len(sel.BusinessUnits) == 0 {
		out.Rows = []Row{}
		return out
	}
	deps := toSet(sel.Departments)
	countries := toSet(sel.Countries)
	units := toSet(sel.BusinessUnits)

	out.Rows = make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if deps[r.Department] && countries[r.Country] && units[r.BusinessUnit] {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
