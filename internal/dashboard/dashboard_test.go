package dashboard

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/staffboard/internal/dataset"
	"github.com/KaramelBytes/staffboard/internal/report"
)

const fixtureCSV = "EEID,FullName,JobTitle,Department,BusinessUnit,Age,HireDate,AnnualSalary,Bonus,Country,City\n" +
	"E1,Ann Lee,Analyst,Sales,Retail,30,2019-03-01,1000,10,Peru,Lima\n" +
	"E2,Bo Chan,Engineer,Eng,Cloud,40,2018-01-15,3000,20,Chile,Santiago\n" +
	"E3,Cy Diaz,Analyst,Sales,Cloud,50,2019-03-01,2000,15,Peru,Cusco\n" +
	"E4,Di Eng,Manager,Eng,Retail,20,2020-07-30,4000,40,Chile,Santiago\n"

func loadFixture(t *testing.T) *dataset.Table {
	t.Helper()
	fr, err := dataset.ReadFrame(strings.NewReader(fixtureCSV), dataset.DefaultReadOptions())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	tbl, err := dataset.Bind(fr, dataset.DefaultReadOptions())
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	return tbl
}

func TestBuild_SalesOnly(t *testing.T) {
	tbl := loadFixture(t)
	sel := dataset.DefaultSelection(tbl)
	sel.Departments = []string{"Sales"}
	d, err := Build(tbl, sel, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if d.Rows != 2 || d.Metrics.TotalSalary != 3000 {
		t.Fatalf("rows=%d total=%v", d.Rows, d.Metrics.TotalSalary)
	}
	if len(d.ByDepartment) != 1 || d.ByDepartment[0].Key != "Sales" {
		t.Fatalf("by department = %#v", d.ByDepartment)
	}
	if report.Sum(d.ByDepartment) != d.Metrics.TotalSalary {
		t.Fatalf("department totals differ from total salary")
	}
	if len(d.TimeSeries) != 1 || d.TimeSeries[0].Value != 3000 {
		t.Fatalf("time series = %#v", d.TimeSeries)
	}
	if len(d.Table.Rows) != 2 {
		t.Fatalf("table rows = %d", len(d.Table.Rows))
	}
}

func TestBuild_EmptySelection(t *testing.T) {
	tbl := loadFixture(t)
	d, err := Build(tbl, dataset.Selection{}, []string{"id", "Department"})
	if err != nil {
		t.Fatalf("empty selection must not fail: %v", err)
	}
	if d.Rows != 0 || d.Metrics.TotalSalary != 0 || !math.IsNaN(d.Metrics.MaxSalary) {
		t.Fatalf("metrics = %+v", d.Metrics)
	}
	if len(d.ByDepartment) != 0 || len(d.TimeSeries) != 0 || len(d.Treemap) != 0 || len(d.Table.Rows) != 0 {
		t.Fatalf("expected empty projections")
	}
	if _, err := json.Marshal(d); err != nil {
		t.Fatalf("empty dashboard must encode: %v", err)
	}
	md := d.Markdown()
	if !strings.Contains(md, "No rows match") || !strings.Contains(md, "Max Salary: n/a") {
		t.Fatalf("markdown = %s", md)
	}
}

func TestBuild_UnknownColumn(t *testing.T) {
	tbl := loadFixture(t)
	if _, err := Build(tbl, dataset.DefaultSelection(tbl), []string{"Salary"}); err == nil {
		t.Fatalf("expected error for unknown column")
	}
}

func TestBuild_BadHireDatePropagates(t *testing.T) {
	tbl := loadFixture(t)
	tbl.Rows[1].HireDate = "next week"
	_, err := Build(tbl, dataset.DefaultSelection(tbl), nil)
	var fe *dataset.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected field error, got %v", err)
	}
}

func TestMarkdown_Sections(t *testing.T) {
	tbl := loadFixture(t)
	d, err := Build(tbl, dataset.DefaultSelection(tbl), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	md := d.Markdown()
	for _, want := range []string{
		"[KEY METRICS]",
		"- Total Annual Salary: 10,000",
		"- Avg. Salary: 2,500.00",
		"- Median Age: 35",
		"- Sales: 3,000 (30.0%, n=2)",
		"[CORRELATIONS]",
		"- Chile (Santiago): 7,000, n=2",
		"- Range: 2018-01-15 .. 2020-07-30 (3 dates)",
		"  • Analyst: 3,000 (n=2)",
		"| EEID | FullName | JobTitle | Department | AnnualSalary | Country | City |",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestOptionsFor(t *testing.T) {
	o := OptionsFor(loadFixture(t))
	if strings.Join(o.Departments, ",") != "Sales,Eng" || strings.Join(o.Countries, ",") != "Peru,Chile" {
		t.Fatalf("options = %+v", o)
	}
	if len(o.Columns) != 11 {
		t.Fatalf("columns = %v", o.Columns)
	}
}

func TestAmount(t *testing.T) {
	if got := Amount(1234567.891, 2); got != "1,234,567.89" {
		t.Fatalf("amount = %q", got)
	}
	if got := Amount(math.NaN(), 0); got != "n/a" {
		t.Fatalf("nan amount = %q", got)
	}
}
