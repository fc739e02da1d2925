package extract

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/staffboard/internal/utils"
)

// DefaultOrderBy mirrors the viewer query the dashboard data came from.
const DefaultOrderBy = "id ASC"

// Options selects what to dump.
type Options struct {
	// Table may be qualified as db.table.
	Table string
	// OrderBy is "column [ASC|DESC]"; empty leaves the order to the server.
	OrderBy string
	Logger  *slog.Logger
}

var (
	identRe   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)
	orderByRe = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_$]*)(?:\s+(?i:(asc|desc)))?\s*$`)
)

// Query builds the SELECT statement for opt with quoted identifiers.
func Query(opt Options) (string, error) {
	if opt.Table == "" {
		return "", &IdentifierError{Kind: "table", Name: opt.Table}
	}
	parts := strings.Split(opt.Table, ".")
	if len(parts) > 2 {
		return "", &IdentifierError{Kind: "table", Name: opt.Table}
	}
	for i, p := range parts {
		if !identRe.MatchString(p) {
			return "", &IdentifierError{Kind: "table", Name: opt.Table}
		}
		parts[i] = "`" + p + "`"
	}
	q := "SELECT * FROM " + strings.Join(parts, ".")
	if strings.TrimSpace(opt.OrderBy) != "" {
		m := orderByRe.FindStringSubmatch(opt.OrderBy)
		if m == nil {
			return "", &IdentifierError{Kind: "order by", Name: opt.OrderBy}
		}
		dir := "ASC"
		if strings.EqualFold(m[2], "desc") {
			dir = "DESC"
		}
		q += " ORDER BY `" + m[1] + "` " + dir
	}
	return q, nil
}

// Dump runs the query for opt and writes the result set as CSV with a header
// row of column names. It returns the number of data rows written.
func Dump(ctx context.Context, db *sql.DB, opt Options, w io.Writer) (int, error) {
	q, err := Query(opt)
	if err != nil {
		return 0, err
	}
	log := opt.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log.Debug("running extract query", "query", q)

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", opt.Table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, fmt.Errorf("read columns: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	rec := make([]string, len(cols))
	n := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return n, fmt.Errorf("scan row %d: %w", n+1, err)
		}
		for i, v := range vals {
			rec[i] = formatValue(v)
		}
		if err := cw.Write(rec); err != nil {
			return n, fmt.Errorf("write row %d: %w", n+1, err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("iterate rows: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return n, fmt.Errorf("flush csv: %w", err)
	}
	log.Info("extracted rows", "table", opt.Table, "rows", n)
	return n, nil
}

// Export dumps opt into path. The file is replaced only after the whole
// result set has been read; on any error the previous file is untouched.
func Export(ctx context.Context, db *sql.DB, opt Options, path string) (int, error) {
	var buf bytes.Buffer
	n, err := Dump(ctx, db, opt, &buf)
	if err != nil {
		return 0, err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}

// Run connects with cfg, exports opt into path and closes the connection.
func Run(ctx context.Context, cfg Config, opt Options, path string) (int, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return Export(ctx, db, opt, path)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}
