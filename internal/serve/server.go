// Package serve hosts the built documentation tree over a local HTTP
// listener. The handler stack mirrors the daemon-grade setup used elsewhere
// in the family: slog request logging, panic recovery, optional Prometheus
// metrics.
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	derrors "git.home.luguber.info/inful/sphinxkit/internal/errors"
	"git.home.luguber.info/inful/sphinxkit/internal/logfields"
	"git.home.luguber.info/inful/sphinxkit/internal/metrics"
)

// Options configures the docs server.
type Options struct {
	Host string
	Port int

	// Recorder counts requests; nil means no metrics.
	Recorder metrics.Recorder
	// Prometheus enables the /metrics endpoint when non-nil.
	Prometheus *metrics.PrometheusRecorder
	// OnReady runs once the listener is bound, before serving blocks.
	OnReady func()
}

// Server serves a built documentation tree.
type Server struct {
	buildPath string
	opts      Options
}

// New validates the build output and constructs a Server. A missing or
// empty build tree is a ServeFailed condition, not a listener on nothing.
func New(buildPath string, opts Options) (*Server, error) {
	entries, err := os.ReadDir(buildPath)
	if err != nil || len(entries) == 0 {
		return nil, derrors.BuildOutputMissing(buildPath)
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	return &Server{buildPath: buildPath, opts: opts}, nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.opts.Host, fmt.Sprintf("%d", s.opts.Port))
}

// URL returns the browsable base URL.
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s:%d/", s.opts.Host, s.opts.Port)
}

// ListenAndServe blocks until ctx is cancelled. Binding failures surface as
// ServeFailed.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.buildPath)))
	if s.opts.Prometheus != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.opts.Prometheus.Registry(), promhttp.HandlerOpts{}))
	}

	handler := loggingMiddleware(s.opts.Recorder, panicRecoveryMiddleware(mux))

	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return derrors.ServeFailed("failed to bind listen address", err).
			WithContext("addr", s.Addr())
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	slog.Info("Serving documentation", logfields.URL(s.URL()), logfields.Path(s.buildPath))
	if s.opts.OnReady != nil {
		s.opts.OnReady()
	}

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return derrors.ServeFailed("documentation server failed", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return derrors.ServeFailed("server shutdown failed", err)
	}
	slog.Info("Documentation server stopped")
	return nil
}

// loggingMiddleware logs method, path, status, duration, and remote addr,
// and feeds the request counter.
func loggingMiddleware(rec metrics.Recorder, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		rec.IncHTTPRequest(wrapped.statusCode)
		slog.Info("HTTP request",
			logfields.Method(r.Method),
			logfields.Path(r.URL.Path),
			logfields.Status(wrapped.statusCode),
			logfields.DurationMS(float64(time.Since(start).Milliseconds())),
			logfields.RemoteAddr(r.RemoteAddr))
	})
}

// panicRecoveryMiddleware recovers from handler panics with a 500.
func panicRecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("HTTP handler panic",
					slog.Any("panic", rec),
					logfields.Path(r.URL.Path),
					logfields.Method(r.Method))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// responseWriter captures status codes for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
