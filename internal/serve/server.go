// Package serve exposes the log reports over HTTP.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/CZERTAINLY/log-lens/internal/log"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GracefulPeriod is the time given to in-flight requests on shutdown.
const GracefulPeriod = 5 * time.Second

//go:generate mockgen -destination=./mock/analyzer.go -package=mock github.com/CZERTAINLY/log-lens/internal/serve AnalyzerContract
type AnalyzerContract interface {
	Analyze(ctx context.Context, paths []string, typ string) (string, error)
}

type Server struct {
	an         AnalyzerContract
	paths      []string
	collectors []prometheus.Collector
}

type Option func(*Server)

// WithCollector exposes c at /metrics. Without any collector the route is
// not registered.
func WithCollector(c prometheus.Collector) Option {
	return func(s *Server) {
		s.collectors = append(s.collectors, c)
	}
}

// New returns a server reporting on paths. The paths are validated on every
// request, so files may appear after the server started.
func New(an AnalyzerContract, paths []string, opts ...Option) *Server {
	s := &Server{
		an:    an,
		paths: paths,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() *mux.Router {
	r := mux.NewRouter()
	r.Use(httpInfoContext)

	r.HandleFunc("/v1/health", s.checkHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/report/{type}", s.getReport).Methods(http.MethodGet)
	r.Handle("/debug/vars", expvar.Handler()).Methods(http.MethodGet)
	if len(s.collectors) > 0 {
		// own registry, the default one adds Go runtime metrics
		registry := prometheus.NewRegistry()
		registry.MustRegister(s.collectors...)
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	r.NotFoundHandler = httpInfoContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		toProblem(r.Context(), w, http.StatusNotFound, fmt.Sprintf("no route for %s", r.URL.Path))
	}))
	r.MethodNotAllowedHandler = httpInfoContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		toProblem(r.Context(), w, http.StatusMethodNotAllowed, "allowed methods: [ GET ]")
	}))
	return r
}

func httpInfoContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := log.ContextAttrs(r.Context(), slog.Group("http-info",
			slog.String("request-id", uuid.NewString()),
			slog.String("method", r.Method),
			slog.String("url-path", r.URL.Path),
		))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Serve listens on addr and serves handler until ctx is done.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return ServeListener(ctx, ln, handler)
}

// ServeListener serves handler on ln until ctx is done, then shuts the server
// down within GracefulPeriod. It closes ln.
func ServeListener(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "starting http server", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), GracefulPeriod)
	defer cancel()
	slog.InfoContext(ctx, "shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	<-errCh
	return nil
}

func toJson(ctx context.Context, w http.ResponseWriter, resp any) {
	b, err := json.Marshal(resp)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal structure to json", "error", err)
		toProblem(ctx, w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
