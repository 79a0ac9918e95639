// Package http serves built snapshots over HTTP for browser preview.
// Every GET is resolved through the same matcher the test runtime uses,
// so what the preview shows is exactly what tests will load.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/viewsnap/viewsnap/internal/logging"
	"github.com/viewsnap/viewsnap/pkg/domain"
	"github.com/viewsnap/viewsnap/pkg/ports"
)

// Resolver maps a concrete path and response kind to an artifact key.
type Resolver interface {
	Resolve(path string, kind domain.ResponseKind) (domain.ArtifactKey, error)
}

// Server answers preview requests from the snapshot store.
type Server struct {
	resolver Resolver
	store    ports.SnapshotStore
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the preview server.
type Option func(*Server)

// WithLogger configures request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes the given metrics registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates the preview HTTP handler.
func NewHandler(resolver Resolver, store ports.SnapshotStore, opts ...Option) http.Handler {
	server := &Server{
		resolver: resolver,
		store:    store,
		logger:   logging.NewNop(),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/healthz", server.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	r.NotFound(server.serveSnapshot)
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

// serveSnapshot is the catch-all. The response kind follows the Accept
// header, mirroring how the interceptor classifies client requests.
func (s *Server) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	kind := domain.KindForAccept(r.Header.Get("Accept"))

	key, err := s.resolver.Resolve(r.URL.Path, kind)
	if err != nil {
		if errors.Is(err, domain.ErrNoMatch) {
			http.Error(w, "no snapshot registered for path", http.StatusNotFound)
			return
		}
		s.logger.Error("resolve failed", "path", r.URL.Path, "err", err)
		http.Error(w, "resolve failed", http.StatusInternalServerError)
		return
	}

	data, err := s.store.Read(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			http.Error(w, "snapshot not built, run the build first", http.StatusNotFound)
			return
		}
		s.logger.Error("snapshot read failed", "key", key, "err", err)
		http.Error(w, "snapshot read failed", http.StatusInternalServerError)
		return
	}

	s.logger.Debug("snapshot served", "path", r.URL.Path, "kind", kind, "key", key)
	w.Header().Set("Content-Type", kind.ContentType())
	w.Write(data)
}

// ListenAndServe runs the preview server until the context is
// cancelled, then drains in-flight requests.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down preview server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
