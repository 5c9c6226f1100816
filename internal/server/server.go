// Package server exposes the label pipeline over HTTP.
//
// Routes (all JSON unless noted):
//
//	GET    /healthz
//	GET    /v1/version
//	GET    /v1/papers
//	GET    /v1/stats                    event counters (when enabled)
//	POST   /v1/sequence                 batch settings -> data values
//	POST   /v1/plan                     job -> grid and slot assignment
//	POST   /v1/render/{format}          job -> svg, pdf, page-svg, png or json bytes
//	POST   /v1/exports                  start an async print export
//	GET    /v1/exports/{id}             export state and progress
//	GET    /v1/exports/{id}/document    finished PDF
//	DELETE /v1/exports/{id}             cancel and forget an export
//
// Errors are returned as {"code": ..., "message": ...} with a status derived
// from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/labelsheet/pkg/pipeline"
)

const (
	// DefaultMaxBody bounds request bodies. Jobs may carry data-URI images.
	DefaultMaxBody = 8 << 20

	// DefaultRetention is how long finished exports stay downloadable.
	DefaultRetention = 15 * time.Minute

	// DefaultMaxExports bounds exports held in memory at once.
	DefaultMaxExports = 32

	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API. Create it with [New].
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	exports *registry
	stats   *Stats
	maxBody int64

	// base is the parent context of async exports. It is canceled by
	// Shutdown so running exports stop with the server.
	base   context.Context
	cancel context.CancelFunc
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBody sets the request body limit in bytes.
func WithMaxBody(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// WithExportLimits sets how many exports are held and for how long
// finished ones are kept.
func WithExportLimits(max int, retention time.Duration) Option {
	return func(s *Server) { s.exports = newRegistry(max, retention) }
}

// WithStats serves the counters of st at /v1/stats.
func WithStats(st *Stats) Option {
	return func(s *Server) { s.stats = st }
}

// New creates a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	base, cancel := context.WithCancel(context.Background())
	s := &Server{
		runner:  runner,
		logger:  logger,
		exports: newRegistry(DefaultMaxExports, DefaultRetention),
		maxBody: DefaultMaxBody,
		base:    base,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/papers", s.handlePapers)
		if s.stats != nil {
			r.Get("/stats", s.handleStats)
		}
		r.Post("/sequence", s.handleSequence)
		r.Post("/plan", s.handlePlan)
		r.Post("/render/{format}", s.handleRender)

		r.Route("/exports", func(r chi.Router) {
			r.Post("/", s.handleCreateExport)
			r.Get("/{id}", s.handleGetExport)
			r.Get("/{id}/document", s.handleGetDocument)
			r.Delete("/{id}", s.handleDeleteExport)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully and cancels running exports.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Shutdown()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	err := srv.Shutdown(shutdownCtx)
	s.Shutdown()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown cancels every running export.
func (s *Server) Shutdown() {
	s.cancel()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"id", middleware.GetReqID(r.Context()))
	})
}
