package report

import (
	"encoding/json"
	"math"

	"github.com/KaramelBytes/staffboard/internal/dataset"
	"github.com/KaramelBytes/staffboard/internal/metrics"
)

// CorrColumns are the numeric columns correlated for the heatmap.
var CorrColumns = []string{dataset.ColAnnualSalary, dataset.ColBonus, dataset.ColAge}

// Matrix is a symmetric Pearson correlation matrix. Cells that cannot be
// computed (fewer than two rows, a constant column) hold NaN.
type Matrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// At returns the correlation between columns a and b, or NaN when either is
// unknown.
func (m *Matrix) At(a, b string) float64 {
	ia, ib := -1, -1
	for i, c := range m.Columns {
		if c == a {
			ia = i
		}
		if c == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return math.NaN()
	}
	return m.Values[ia][ib]
}

// MarshalJSON writes NaN cells as null.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	vals := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		vals[i] = make([]*float64, len(row))
		for j, v := range row {
			vals[i][j] = metrics.Nullable(v)
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, vals})
}

// Correlation computes pairwise Pearson coefficients among salary, bonus and
// age over the rows of t.
func Correlation(t *dataset.Table) *Matrix {
	series := make([][]float64, len(CorrColumns))
	for _, r := range t.Rows {
		series[0] = append(series[0], r.AnnualSalary)
		series[1] = append(series[1], r.Bonus)
		series[2] = append(series[2], r.Age)
	}
	n := len(CorrColumns)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			if a == b {
				mat[a][a] = 1
				if len(series[a]) < 2 || constant(series[a]) {
					mat[a][a] = math.NaN()
				}
				continue
			}
			r := pearson(series[a], series[b])
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	cols := make([]string, n)
	copy(cols, CorrColumns)
	return &Matrix{Columns: cols, Values: mat}
}

// pearson is the two-pass sample correlation. Constant inputs have no
// defined correlation and yield NaN.
func pearson(xs, ys []float64) float64 {
	if len(xs) < 2 || len(xs) != len(ys) {
		return math.NaN()
	}
	if constant(xs) || constant(ys) {
		return math.NaN()
	}
	n := float64(len(xs))
	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= n
	meanY /= n
	var sxx, syy, sxy float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	r := sxy / math.Sqrt(sxx*syy)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func constant(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}
