// Package server serves the dashboard over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/staffboard/internal/dataset"
)

// Server is the dashboard HTTP server. The table is loaded once and only
// read afterwards; every request derives its own selection and views.
type Server struct {
	table          *dataset.Table
	addr           string
	defaultColumns []string
	logger         *slog.Logger
}

// Config holds configuration for the dashboard server.
type Config struct {
	Table *dataset.Table
	// Addr is host:port to listen on.
	Addr string
	// DefaultColumns is used when a request does not pick table columns.
	DefaultColumns []string
	Logger         *slog.Logger
}

// NewServer creates a new dashboard server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		table:          cfg.Table,
		addr:           cfg.Addr,
		defaultColumns: cfg.DefaultColumns,
		logger:         logger,
	}
}

// Handler returns the router with every dashboard route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		requestID,
		middleware.Logger,
		middleware.Recoverer,
	)
	r.Get("/", s.handleIndex)
	r.Get("/api/options", s.handleOptions)
	r.Get("/api/dashboard", s.handleDashboard)
	r.Get("/export.csv", s.handleExport)
	r.Get("/charts/{name}.svg", s.handleChart)
	return r
}

// Serve starts the server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.logger.Info("starting dashboard server", "addr", "http://"+ln.Addr().String(), "rows", s.table.Len())

	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down dashboard server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
