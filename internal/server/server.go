// Package server exposes layout analysis, export and storage over HTTP.
//
// # Routes
//
//	GET    /healthz                    liveness probe
//	GET    /version                    build information
//	POST   /analyze                    analyze a posted document
//	POST   /export?format=pdf          render a posted document
//	GET    /layouts                    list stored layouts
//	POST   /layouts                    store a new layout
//	GET    /layouts/{id}               load a stored layout
//	PUT    /layouts/{id}               replace a stored layout
//	DELETE /layouts/{id}               delete a stored layout
//	GET    /layouts/{id}/analysis      analyze a stored layout
//	GET    /layouts/{id}/export        render a stored layout
//
// Documents are posted in the native JSON format, or as TOML when the
// request Content-Type mentions toml. Errors are returned as
// {"code": "...", "message": "..."} with a matching HTTP status.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/spaceforge/pkg/pipeline"
	"github.com/matzehuels/spaceforge/pkg/store"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 10 << 20

const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates a server. A nil logger selects log.Default().
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/export", s.handleExport)

	r.Route("/layouts", func(r chi.Router) {
		r.Get("/", s.handleListLayouts)
		r.Post("/", s.handleCreateLayout)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetLayout)
			r.Put("/", s.handlePutLayout)
			r.Delete("/", s.handleDeleteLayout)
			r.Get("/analysis", s.handleAnalyzeStored)
			r.Get("/export", s.handleExportStored)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFoundRoute(r))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
