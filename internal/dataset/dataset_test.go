package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const employeesCSV = "EEID,FullName,JobTitle,Department,BusinessUnit,Gender,Age,HireDate,AnnualSalary,Bonus,Country,City\n" +
	"E02387,Emily Davis,Sr. Manger,IT,Research & Development,Female,55,4/8/2016,\"$141,604\",15%,United States,Seattle\n" +
	"E04105,Theodore Dinh,Technical Architect,IT,Manufacturing,Male,59,11/29/1997,\"$99,975\",0%,China,Chongqing\n" +
	"E02572,Luna Sanders,Director,Finance,Speciality Products,Female,50,10/26/2006,\"$163,099\",20%,United States,Chicago\n" +
	"E02832,Penelope Jordan,Computer Systems Manager,IT,Manufacturing,Female,26,9/27/2019,\"$84,913\",7%,United States,Chicago\n"

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}

func TestLoad_TypedRows(t *testing.T) {
	p := writeFixture(t, "dataset.csv", employeesCSV)
	tbl, err := Load(p, DefaultReadOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Len() != 4 {
		t.Fatalf("rows = %d, want 4", tbl.Len())
	}
	if tbl.IDColumn != "EEID" {
		t.Fatalf("id column = %q", tbl.IDColumn)
	}
	r := tbl.Rows[0]
	if r.ID != "E02387" || r.Department != "IT" || r.Country != "United States" || r.City != "Seattle" {
		t.Fatalf("first row = %+v", r)
	}
	if r.AnnualSalary != 141604 || r.Bonus != 15 || r.Age != 55 {
		t.Fatalf("numbers = %v %v %v", r.AnnualSalary, r.Bonus, r.Age)
	}
	if r.HireDate != "4/8/2016" {
		t.Fatalf("hire date kept literal, got %q", r.HireDate)
	}
	if got := r.Values[8]; got != "$141,604" {
		t.Fatalf("literal salary = %q", got)
	}
}

func TestLoad_LowercaseIDAndBOM(t *testing.T) {
	content := "\ufeffid,FullName,JobTitle,Department,Country,BusinessUnit,City,HireDate,AnnualSalary,Bonus,Age\n" +
		"1,Ann,Analyst,Sales,Peru,Retail,Lima,2020-01-02,1000,10,30\n"
	tbl, err := Load(writeFixture(t, "ids.csv", content), ReadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.IDColumn != "id" || tbl.Rows[0].ID != "1" {
		t.Fatalf("id = %q/%q", tbl.IDColumn, tbl.Rows[0].ID)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), DefaultReadOptions())
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestLoad_MissingColumns(t *testing.T) {
	p := writeFixture(t, "partial.csv", "EEID,FullName,Department\nE1,Ann,Sales\n")
	_, err := Load(p, DefaultReadOptions())
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	for _, col := range []string{"Country", "BusinessUnit", "AnnualSalary", "Age"} {
		if !strings.Contains(err.Error(), col) {
			t.Fatalf("error should name %s: %v", col, err)
		}
	}
	var ue *UnavailableError
	if !errors.As(err, &ue) || ue.Path != p {
		t.Fatalf("expected path on error, got %#v", err)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	_, err := Load(writeFixture(t, "empty.csv", ""), DefaultReadOptions())
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestLoad_RejectsMalformedCells(t *testing.T) {
	header := "EEID,FullName,JobTitle,Department,Country,BusinessUnit,City,HireDate,AnnualSalary,Bonus,Age\n"
	cases := []struct {
		name   string
		row    string
		column string
	}{
		{"non-numeric salary", "E1,Ann,Analyst,Sales,Peru,Retail,Lima,2020-01-02,lots,10,30\n", ColAnnualSalary},
		{"empty department", "E1,Ann,Analyst,,Peru,Retail,Lima,2020-01-02,1000,10,30\n", ColDepartment},
		{"missing age", "E1,Ann,Analyst,Sales,Peru,Retail,Lima,2020-01-02,1000,10\n", ColAge},
		{"nan salary", "E1,Ann,Analyst,Sales,Peru,Retail,Lima,2020-01-02,NaN,10,30\n", ColAnnualSalary},
		{"infinite bonus", "E1,Ann,Analyst,Sales,Peru,Retail,Lima,2020-01-02,1000,Inf,30\n", ColBonus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFixture(t, "bad.csv", header+tc.row), DefaultReadOptions())
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if fe.Row != 1 || fe.Column != tc.column {
				t.Fatalf("field error = %+v", fe)
			}
			if errors.Is(err, ErrDataUnavailable) {
				t.Fatalf("cell errors must not read as unavailable data")
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		dec  rune
		want float64
	}{
		{"141604", '.', 141604},
		{"$141,604", '.', 141604},
		{"15%", '.', 15},
		{"1.234,5", ',', 1234.5},
		{"-12.5", 0, -12.5},
	}
	for _, c := range cases {
		got, ok := parseNumber(c.in, c.dec)
		if !ok || got != c.want {
			t.Fatalf("parseNumber(%q) = %v, %v; want %v", c.in, got, ok, c.want)
		}
	}
	for _, bad := range []string{"n/a", "NaN", "nan", "Inf", "-Inf", "+Infinity", "1e999"} {
		if _, ok := parseNumber(bad, '.'); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestParseDate_MonthFirst(t *testing.T) {
	d, err := ParseDate("4/8/2016")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Month() != 4 || d.Day() != 8 || d.Year() != 2016 {
		t.Fatalf("date = %v", d)
	}
	if _, err := ParseDate("someday"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestReadFrame_RejectsExtraFields(t *testing.T) {
	_, err := ReadFrame(strings.NewReader("a,b\n1,2,3\n"), DefaultReadOptions())
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldError, got %v", err)
	}
}

func TestReadFrameFile_TSV(t *testing.T) {
	p := writeFixture(t, "x.tsv", "a\tb\n1\t2\n")
	fr, err := ReadFrameFile(p, ReadOptions{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(fr.Header) != 2 || fr.Records[0][1] != "2" {
		t.Fatalf("frame = %#v", fr)
	}
}
