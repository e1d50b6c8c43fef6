// Package server exposes persisted validation reports and run history
// over a small read-only HTTP API, for dashboards and other consumers.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/veristat-labs/veristat/internal/history"
	"github.com/veristat-labs/veristat/pkg/report"
)

// Config holds configuration for the report server.
type Config struct {
	// Results is the store reports are served from.
	Results *report.Store
	// History serves the run list; nil disables /api/runs.
	History *history.Store
	Port    int
	Logger  *slog.Logger
}

// Server serves reports. All endpoints are read-only.
type Server struct {
	results *report.Store
	history *history.Store
	port    int
	logger  *slog.Logger
}

// NewServer creates a report server from cfg.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		results: cfg.Results,
		history: cfg.History,
		port:    cfg.Port,
		logger:  logger,
	}
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting report server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down report server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// routes builds the HTTP router.
func (s *Server) routes() http.Handler {
	r := chi.NewMux()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/runs", s.handleRuns)
		r.Route("/reports/{date}", func(r chi.Router) {
			r.Get("/", s.handleDatasets)
			r.Route("/{dataset}", func(r chi.Router) {
				r.Get("/", s.handleLatest)
				r.Get("/archive", s.handleArchives)
				r.Get("/archive/{name}", s.handleArchive)
			})
		})
	})
	return r
}
