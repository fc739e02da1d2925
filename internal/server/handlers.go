package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/KaramelBytes/staffboard/internal/charts"
	"github.com/KaramelBytes/staffboard/internal/dashboard"
	"github.com/KaramelBytes/staffboard/internal/dataset"
	"github.com/KaramelBytes/staffboard/internal/report"
)

// ExportFilename is the attachment name of the filtered table download.
const ExportFilename = "filtered_data.csv"

//go:embed templates/*.html
var templateFS embed.FS

var indexTpl = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"amount":   dashboard.Amount,
	"contains": contains,
	"heat":     heat,
	"corr":     corrLabel,
}).ParseFS(templateFS, "templates/index.html"))

type indexPage struct {
	D       *dashboard.Dashboard
	Options dashboard.Options
	Query   template.URL
	Charts  []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	d, ok := s.build(w, r)
	if !ok {
		return
	}
	page := indexPage{
		D:       d,
		Options: dashboard.OptionsFor(s.table),
		Query:   template.URL(q.Encode()),
		Charts:  charts.Names,
	}
	var buf bytes.Buffer
	if err := indexTpl.Execute(&buf, page); err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, dashboard.OptionsFor(s.table))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, ok := s.build(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, r, d)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filtered := dataset.Filter(s.table, parseSelection(q, s.table))
	p, err := report.Project(filtered, parseColumns(q, s.defaultColumns))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	var buf bytes.Buffer
	if err := p.WriteCSV(&buf); err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !contains(charts.Names, name) {
		http.NotFound(w, r)
		return
	}
	filtered := dataset.Filter(s.table, parseSelection(r.URL.Query(), s.table))
	var data charts.Data
	switch name {
	case "timeseries":
		series, err := report.TimeSeries(filtered)
		if err != nil {
			s.fail(w, r, http.StatusInternalServerError, err)
			return
		}
		data.TimeSeries = series
	case "country":
		data.ByCountry = report.ByCountry(filtered)
	case "treemap":
		data.Treemap = report.Treemap(filtered)
	default:
		data.ByDepartment = report.ByDepartment(filtered)
	}
	var buf bytes.Buffer
	err := charts.Render(&buf, name, data)
	switch {
	case errors.Is(err, charts.ErrNoData):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(buf.Bytes())
}

// build runs the dashboard pipeline for the request. Bad column picks are
// client errors; malformed data is a server error.
func (s *Server) build(w http.ResponseWriter, r *http.Request) (*dashboard.Dashboard, bool) {
	q := r.URL.Query()
	d, err := dashboard.Build(s.table, parseSelection(q, s.table), parseColumns(q, s.defaultColumns))
	if err != nil {
		status := http.StatusBadRequest
		var fe *dataset.FieldError
		if errors.As(err, &fe) {
			status = http.StatusInternalServerError
		}
		s.fail(w, r, status, err)
		return nil, false
	}
	return d, true
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Error("request failed",
		"request_id", requestIDFrom(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"error", err)
	http.Error(w, err.Error(), status)
}

// heat maps a correlation to a diverging background colour.
func heat(v float64) template.CSS {
	if math.IsNaN(v) {
		return template.CSS("#eeeeee")
	}
	a := math.Min(math.Abs(v), 1)
	if v >= 0 {
		return template.CSS("rgba(214,39,40," + ftoa(a) + ")")
	}
	return template.CSS("rgba(31,119,180," + ftoa(a) + ")")
}

func corrLabel(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return ftoa(v)
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
