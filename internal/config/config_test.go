package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.ListenAddr != "127.0.0.1:8501" || c.MySQLPort != 3306 || c.LogLevel != "info" {
		t.Fatalf("defaults = %+v", c)
	}
	if c.DelimiterRune() != 0 || c.DecimalRune() != '.' {
		t.Fatalf("delimiter/decimal defaults wrong")
	}
	if c.MySQLTimeout() != 10*time.Second {
		t.Fatalf("timeout = %v", c.MySQLTimeout())
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "dataset_path: /data/employees.csv\nmysql_table: customers\ndefault_columns: [id, Department]\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("STAFFBOARD_MYSQL_TABLE", "employees")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DatasetPath != "/data/employees.csv" {
		t.Fatalf("dataset_path = %q", c.DatasetPath)
	}
	if c.MySQLTable != "employees" {
		t.Fatalf("env should override file, got %q", c.MySQLTable)
	}
	if !reflect.DeepEqual(c.DefaultColumns, []string{"id", "Department"}) {
		t.Fatalf("default_columns = %v", c.DefaultColumns)
	}
}

func TestLoad_BrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen_addr: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestSetAndSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for k, v := range map[string]string{
		"mysql_port":      "3307",
		"delimiter":       `\t`,
		"default_columns": "id, FullName ,,Country",
		"log_format":      "JSON",
	} {
		if err := c.Set(k, v); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	if err := Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.MySQLPort != 3307 || got.DelimiterRune() != '\t' || got.LogFormat != "json" {
		t.Fatalf("reloaded = %+v", got)
	}
	if !reflect.DeepEqual(got.DefaultColumns, []string{"id", "FullName", "Country"}) {
		t.Fatalf("columns = %v", got.DefaultColumns)
	}
}

func TestSet_Invalid(t *testing.T) {
	c := &Global{}
	for k, v := range map[string]string{
		"mysql_port":        "99999",
		"log_level":         "loud",
		"delimiter":         ";;",
		"decimal_separator": "x",
		"nope":              "1",
	} {
		if err := c.Set(k, v); err == nil {
			t.Fatalf("expected error for %s=%s", k, v)
		}
	}
}
