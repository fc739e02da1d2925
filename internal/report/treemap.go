package report

import "github.com/KaramelBytes/staffboard/internal/dataset"

// Node is one rectangle of the department → job title treemap. A parent's
// Value is the sum of its children.
type Node struct {
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	Employees int     `json:"employees"`
	Children  []Node  `json:"children,omitempty"`
}

// Treemap nests rows by department, then job title, weighting leaves by
// salary. Only groups that contain rows are emitted.
func Treemap(t *dataset.Table) []Node {
	depIndex := make(map[string]int)
	titleIndex := make(map[string]map[string]int)
	out := []Node{}
	for _, r := range t.Rows {
		di, ok := depIndex[r.Department]
		if !ok {
			di = len(out)
			depIndex[r.Department] = di
			titleIndex[r.Department] = make(map[string]int)
			out = append(out, Node{Label: r.Department})
		}
		dep := &out[di]
		dep.Value += r.AnnualSalary
		dep.Employees++

		ti, ok := titleIndex[r.Department][r.JobTitle]
		if !ok {
			ti = len(dep.Children)
			titleIndex[r.Department][r.JobTitle] = ti
			dep.Children = append(dep.Children, Node{Label: r.JobTitle})
		}
		dep.Children[ti].Value += r.AnnualSalary
		dep.Children[ti].Employees++
	}
	return out
}
