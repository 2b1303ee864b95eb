// Package server exposes the rendering pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz             liveness and build version
//	POST /v1/render?format=   render a model document, respond with the artifact
//	POST /v1/inspect          transform a model document, respond with statistics
//
// Request bodies are model documents; the Content-Type header selects the
// decoder (JSON, TOML, YAML, or msgpack). Query parameters merge, humanize,
// include, exclude, title, and hide_fields mirror the CLI flags.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/objectgraph/pkg/pipeline"
)

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes = 10 << 20

// shutdownTimeout bounds graceful shutdown after the serve context ends.
const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	// Logger receives request logs. Defaults to a discarding logger.
	Logger *log.Logger
	// MaxBodyBytes bounds request bodies. Defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// Defaults supplies pipeline options that query parameters override.
	Defaults pipeline.Options
}

// Server serves the objectgraph HTTP API.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	maxBody  int64
	defaults pipeline.Options
	router   chi.Router
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		runner:   runner,
		logger:   opts.Logger,
		maxBody:  opts.MaxBodyBytes,
		defaults: opts.Defaults,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/render", s.handleRender)
		r.Post("/inspect", s.handleInspect)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
