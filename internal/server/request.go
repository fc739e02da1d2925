package server

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/KaramelBytes/staffboard/internal/config"
	"github.com/KaramelBytes/staffboard/internal/dataset"
)

// Query parameters understood by the dashboard routes.
const (
	paramDepartment   = "department"
	paramCountry      = "country"
	paramBusinessUnit = "business_unit"
	paramColumns      = "columns"
)

type ctxKey struct{}

// requestID tags each request with a uuid, echoed in X-Request-ID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// parseSelection reads the filter parameters. An absent parameter selects
// every value; a parameter given only with empty values selects none.
// Values are repeated parameters, never comma-split, since names such as
// "Korea, South" contain commas.
func parseSelection(q url.Values, t *dataset.Table) dataset.Selection {
	sel := dataset.DefaultSelection(t)
	pick := func(key string, all []string) []string {
		vals, ok := q[key]
		if !ok {
			return all
		}
		out := make([]string, 0, len(vals))
		for _, v := range vals {
			if v != "" {
				out = append(out, v)
			}
		}
		return out
	}
	sel.Departments = pick(paramDepartment, sel.Departments)
	sel.Countries = pick(paramCountry, sel.Countries)
	sel.BusinessUnits = pick(paramBusinessUnit, sel.BusinessUnits)
	return sel
}

// parseColumns reads the table column picker; repeated and comma-separated
// forms are both accepted. Nil means the server default.
func parseColumns(q url.Values, def []string) []string {
	var cols []string
	for _, v := range q[paramColumns] {
		cols = append(cols, config.SplitList(v)...)
	}
	if len(cols) == 0 {
		return def
	}
	return cols
}

func contains(vals []string, v string) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}
