package extract

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/staffboard/internal/dataset"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestDSN(t *testing.T) {
	cfg := Config{Host: "db.local", Port: 3307, User: "root", Password: "p@ss", Database: "my_streamlit", Timeout: 5 * time.Second}
	parsed, err := mysql.ParseDSN(cfg.DSN())
	require.NoError(t, err)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db.local:3307", parsed.Addr)
	assert.Equal(t, "root", parsed.User)
	assert.Equal(t, "p@ss", parsed.Passwd)
	assert.Equal(t, "my_streamlit", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, 5*time.Second, parsed.Timeout)
}

func TestAddrDefaultPort(t *testing.T) {
	assert.Equal(t, "localhost:3306", Config{Host: "localhost"}.Addr())
	assert.Equal(t, "[::1]:3306", Config{Host: "::1"}.Addr())
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name    string
		opt     Options
		want    string
		wantErr bool
	}{
		{name: "default order", opt: Options{Table: "customers", OrderBy: DefaultOrderBy}, want: "SELECT * FROM `customers` ORDER BY `id` ASC"},
		{name: "qualified desc", opt: Options{Table: "hr.employees", OrderBy: "EEID desc"}, want: "SELECT * FROM `hr`.`employees` ORDER BY `EEID` DESC"},
		{name: "no order", opt: Options{Table: "customers"}, want: "SELECT * FROM `customers`"},
		{name: "empty table", opt: Options{}, wantErr: true},
		{name: "injection", opt: Options{Table: "customers; DROP TABLE x"}, wantErr: true},
		{name: "backtick", opt: Options{Table: "cust`omers"}, wantErr: true},
		{name: "bad order", opt: Options{Table: "customers", OrderBy: "id; --"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Query(tt.opt)
			if tt.wantErr {
				var ie *IdentifierError
				assert.True(t, errors.As(err, &ie), "expected IdentifierError, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDump(t *testing.T) {
	db, mock := newMock(t)
	hired := time.Date(2016, 4, 8, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "FullName", "Department", "AnnualSalary", "HireDate", "Note"}).
		AddRow(int64(1), []byte("Emily Davis"), "Engineering", float64(141604), hired, nil).
		AddRow(int64(2), []byte("Chen, Li"), "Sales", float64(99975.5), hired.AddDate(1, 0, 0), []byte("x"))
	mock.ExpectQuery("SELECT * FROM `customers` ORDER BY `id` ASC").WillReturnRows(rows)

	var buf bytes.Buffer
	n, err := Dump(context.Background(), db, Options{Table: "customers", OrderBy: DefaultOrderBy}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t,
		"id,FullName,Department,AnnualSalary,HireDate,Note\n"+
			"1,Emily Davis,Engineering,141604,2016-04-08,\n"+
			"2,\"Chen, Li\",Sales,99975.5,2017-04-08,x\n",
		buf.String())
	assert.NoError(t, mock.ExpectationsWereMet())

	fr, err := dataset.ReadFrame(&buf, dataset.DefaultReadOptions())
	require.NoError(t, err)
	assert.Equal(t, "Chen, Li", fr.Records[1][1])
}

func TestExport_QueryErrorKeepsExistingFile(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT * FROM `customers` ORDER BY `id` ASC").WillReturnError(assert.AnError)

	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o644))

	_, err := Export(context.Background(), db, Options{Table: "customers", OrderBy: DefaultOrderBy}, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(b))
}

func TestExport_WritesFile(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT * FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "Department"}).AddRow(int64(7), "IT"))

	path := filepath.Join(t.TempDir(), "nested", "data.csv")
	n, err := Export(context.Background(), db, Options{Table: "customers"}, path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,Department\n7,IT\n", string(b))
}

func TestRun_ConnectionFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o644))

	cfg := Config{Host: "127.0.0.1", Port: 1, User: "root", Database: "my_streamlit", Timeout: 2 * time.Second}
	_, err := Run(context.Background(), cfg, Options{Table: "customers", OrderBy: DefaultOrderBy}, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnection)

	var ce *ConnectionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "127.0.0.1:1", ce.Addr)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(b))
}
