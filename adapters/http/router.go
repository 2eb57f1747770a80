package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/monada-ai/apidocs/adapters/clock"
	"github.com/monada-ai/apidocs/adapters/metrics"
	"github.com/monada-ai/apidocs/ports"
)

// VersionResponse is returned by the version endpoint.
type VersionResponse struct {
	Version string `json:"version"`
	Service string `json:"service"`
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	version string
	clock   ports.Clock
	started time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string) *HealthHandler {
	if version == "" {
		version = "dev"
	}
	return (&HealthHandler{version: version}).WithClock(clock.System{})
}

// WithClock sets the clock uptime is measured with and restarts the uptime.
func (h *HealthHandler) WithClock(c ports.Clock) *HealthHandler {
	h.clock = c
	h.started = c.Now()
	return h
}

// Liveness returns a simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"uptime": h.clock.Now().Sub(h.started).Truncate(time.Second).String(),
	})
}

// Version returns the service version.
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(VersionResponse{
		Version: h.version,
		Service: "apidocs",
	})
}

// RouterConfig holds optional configuration for the router.
type RouterConfig struct {
	Metrics        *metrics.Collector
	MetricsHandler http.Handler // defaults to promhttp.Handler() when Metrics is set
	MetricsPath    string       // default: /metrics
	DocsHandler    http.Handler // mounted at /docs
	Timeout        time.Duration
}

// NewRouter creates the main HTTP router.
func NewRouter(health *HealthHandler, logger zerolog.Logger, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	metricsPath := cfg.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(logger, metricsPath))
	r.Use(middleware.Recoverer)
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	r.Use(middleware.Timeout(timeout))

	if cfg.Metrics != nil {
		r.Use(NewMetricsMiddleware(cfg.Metrics, metricsPath))
	}

	r.Get("/health", health.Liveness)
	r.Get("/version", health.Version)

	if cfg.MetricsHandler != nil {
		r.Handle(metricsPath, cfg.MetricsHandler)
	} else if cfg.Metrics != nil {
		r.Handle(metricsPath, promhttp.Handler())
	}

	if cfg.DocsHandler != nil {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "/docs", http.StatusFound)
		})
		r.Mount("/docs", cfg.DocsHandler)
	}

	return r
}

// skipObservability reports paths excluded from request logs and metrics.
func skipObservability(path, metricsPath string) bool {
	return strings.HasPrefix(path, "/health") || path == metricsPath ||
		strings.HasPrefix(path, "/docs/swagger")
}

// NewMetricsMiddleware creates middleware that records request metrics.
// Routes are labelled by chi pattern so parameters do not explode cardinality.
func NewMetricsMiddleware(m *metrics.Collector, metricsPath string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipObservability(r.URL.Path, metricsPath) {
				next.ServeHTTP(w, r)
				return
			}

			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			status := metrics.StatusClass(ww.Status())

			m.RequestsTotal.WithLabelValues(r.Method, route, status).Inc()
			m.RequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		})
	}
}

// NewLoggingMiddleware creates a new logging middleware.
func NewLoggingMiddleware(logger zerolog.Logger, metricsPath string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if skipObservability(r.URL.Path, metricsPath) {
				return
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
