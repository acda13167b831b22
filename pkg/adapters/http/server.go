package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/dsl"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the introspection endpoints of a running arbor application:
//
//	GET /healthz  liveness probe
//	GET /metrics  Prometheus exposition of the given gatherer
//	GET /graph    Mermaid flowchart of the module tree
type Server struct {
	gatherer prometheus.Gatherer
	root     dsl.Builder
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer sets the metrics source (default prometheus.DefaultGatherer).
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithGraph sets the builder graph served on /graph.
func WithGraph(root dsl.Builder) Option {
	return func(s *Server) {
		s.root = root
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server.
func NewServer(opts ...Option) *Server {
	s := &Server{
		gatherer: prometheus.DefaultGatherer,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/graph", s.getGraph)

	return r
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	if s.root == nil {
		http.Error(w, "no graph loaded", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(graph.GenerateMermaid(s.root, nil))); err != nil {
		s.logger.Warn("failed to write graph", "err", err)
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
// It returns once the listener is bound, reporting later failures to the logger.
// The returned function waits for shutdown to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("introspection server failed", "addr", addr, "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("introspection server listening", "addr", ln.Addr().String())
	return func() { <-done }, nil
}
