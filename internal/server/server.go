// Package server exposes a labforge session over HTTP.
//
// Routes live under /api/v1 and speak JSON, except for the plan and render
// endpoints which return text. Command failures are answered with a JSON
// [errorResponse] whose status is derived from the pkg/errors code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/labforge/pkg/session"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Options configures [New].
type Options struct {
	Session *session.Session
	Logger  *log.Logger
	Metrics http.Handler // mounted at /metrics when set
}

// Server routes HTTP requests to a session.
type Server struct {
	sess   *session.Session
	logger *log.Logger
	router chi.Router
}

// New builds the router.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{sess: opts.Session, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequestSize(maxBodyBytes))

		r.Get("/view", s.handleView)
		r.Get("/topology", s.handleTopology)
		r.Put("/topology", s.handleReplace)
		r.Delete("/topology", s.handleReset)
		r.Post("/nodes", s.handleAddNode)
		r.Post("/links", s.handleAddLink)
		r.Post("/seed", s.handleSeed)
		r.Get("/advice", s.handleAdvice)
		r.Put("/assistant", s.handleAssistant)
		r.Get("/export/json", s.handleExportJSON)
		r.Get("/export/plan", s.handleExportPlan)
		r.Get("/render.dot", s.handleRenderDOT)
		r.Get("/render.svg", s.handleRenderSVG)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:     "NOT_FOUND",
			Message:   "no route for " + r.Method + " " + r.URL.Path,
			RequestID: RequestID(r.Context()),
		})
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
