// Package api implements the stresslayout HTTP API.
//
// # Endpoints
//
//	POST   /v1/layouts                        solve a problem and store the layout
//	GET    /v1/layouts/{id}                   fetch a stored layout
//	DELETE /v1/layouts/{id}                   remove a stored layout
//	GET    /v1/layouts/{id}/render/{format}   render a stored layout (svg, png, dot, json)
//	GET    /healthz                           liveness and build info
//
// A solve request carries the problem document and pipeline options:
//
//	{
//	  "problem": {"nodes": [{"id": "a", "x": 0, "y": 0}, ...]},
//	  "options": {"algorithm": "flat", "weight": "inverse"}
//	}
//
// Errors are JSON bodies with a machine-readable code, see [httputil.WriteError].
// Requests are rate limited per client address when Config.RateLimit is set.
package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/stresslayout/pkg/pipeline"
	"github.com/matzehuels/stresslayout/pkg/store"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
	renderTimeout     = time.Minute
)

// Config holds the dependencies of a Server.
type Config struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// RateLimit is the sustained requests per second allowed per client.
	// Zero disables rate limiting.
	RateLimit float64
	Burst     int
}

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	logger  *log.Logger
	limiter *clientLimiter
	renders singleflight.Group
	router  chi.Router
}

// New creates a server. A nil Runner, Store or Logger gets an uncached
// runner, an in-memory store or the default logger respectively.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}

	s := &Server{
		runner: cfg.Runner,
		store:  cfg.Store,
		logger: cfg.Logger,
	}
	if cfg.RateLimit > 0 {
		s.limiter = newClientLimiter(cfg.RateLimit, cfg.Burst)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.rateLimit)

	r.Group(func(r chi.Router) {
		r.Use(s.instrument)

		r.Get("/healthz", s.handleHealth)
		r.Post("/v1/layouts", s.handleCreateLayout)
		r.Get("/v1/layouts/{id}", s.handleGetLayout)
		r.Delete("/v1/layouts/{id}", s.handleDeleteLayout)
		r.Get("/v1/layouts/{id}/render/{format}", s.handleRenderLayout)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the store and the runner's cache.
func (s *Server) Close(ctx context.Context) error {
	return stderrors.Join(s.store.Close(ctx), s.runner.Close())
}
