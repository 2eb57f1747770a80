package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/monada-ai/apidocs/adapters/clock"
	apihttp "github.com/monada-ai/apidocs/adapters/http"
	"github.com/monada-ai/apidocs/adapters/metrics"
)

func docsStub() http.Handler {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("reference")) })
	r.Get("/schemas/{name}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs", http.StatusFound)
	})
	return r
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestHealth(t *testing.T) {
	router := apihttp.NewRouter(apihttp.NewHealthHandler("1.2.3"), zerolog.Nop(), apihttp.RouterConfig{})

	w := serve(router, http.MethodGet, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var health map[string]string
	if err := json.NewDecoder(w.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health["status"] != "ok" || health["uptime"] == "" {
		t.Errorf("health = %v", health)
	}

	w = serve(router, http.MethodGet, "/version")
	var version apihttp.VersionResponse
	if err := json.NewDecoder(w.Body).Decode(&version); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if version.Version != "1.2.3" || version.Service != "apidocs" {
		t.Errorf("version = %+v", version)
	}
}

func TestHealth_Uptime(t *testing.T) {
	c := clock.NewFake(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	health := apihttp.NewHealthHandler("test").WithClock(c)
	router := apihttp.NewRouter(health, zerolog.Nop(), apihttp.RouterConfig{})

	c.Advance(90*time.Second + 400*time.Millisecond)

	var body map[string]string
	json.NewDecoder(serve(router, http.MethodGet, "/health").Body).Decode(&body)
	if body["uptime"] != "1m30s" {
		t.Errorf("uptime = %q, want 1m30s", body["uptime"])
	}
}

func TestHealth_DefaultVersion(t *testing.T) {
	router := apihttp.NewRouter(apihttp.NewHealthHandler(""), zerolog.Nop(), apihttp.RouterConfig{})

	var version apihttp.VersionResponse
	json.NewDecoder(serve(router, http.MethodGet, "/version").Body).Decode(&version)
	if version.Version != "dev" {
		t.Errorf("Version = %q, want dev", version.Version)
	}
}

func TestRouter_Docs(t *testing.T) {
	router := apihttp.NewRouter(apihttp.NewHealthHandler("test"), zerolog.Nop(), apihttp.RouterConfig{
		DocsHandler: docsStub(),
	})

	w := serve(router, http.MethodGet, "/")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/docs" {
		t.Errorf("root: status = %d, location = %q", w.Code, w.Header().Get("Location"))
	}

	w = serve(router, http.MethodGet, "/docs")
	if w.Code != http.StatusOK || w.Body.String() != "reference" {
		t.Errorf("docs: status = %d, body = %q", w.Code, w.Body.String())
	}

	if w := serve(router, http.MethodGet, "/nope"); w.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", w.Code)
	}
}

func TestRouter_WithoutDocs(t *testing.T) {
	router := apihttp.NewRouter(apihttp.NewHealthHandler("test"), zerolog.Nop(), apihttp.RouterConfig{})

	if w := serve(router, http.MethodGet, "/"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	router := apihttp.NewRouter(apihttp.NewHealthHandler("test"), zerolog.Nop(), apihttp.RouterConfig{
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		MetricsPath:    "/internal/metrics",
		DocsHandler:    docsStub(),
	})

	serve(router, http.MethodGet, "/docs")
	serve(router, http.MethodGet, "/docs/schemas/Port")
	serve(router, http.MethodGet, "/docs/schemas/Account")
	serve(router, http.MethodGet, "/missing")
	serve(router, http.MethodGet, "/health")

	tests := []struct {
		route, status string
		want          float64
	}{
		{"/docs/schemas/{name}", "3xx", 2},
		{"unmatched", "4xx", 1},
		{"/health", "2xx", 0},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, tt.route, tt.status))
		if got != tt.want {
			t.Errorf("requests{route=%s,status=%s} = %v, want %v", tt.route, tt.status, got, tt.want)
		}
	}

	w := serve(router, http.MethodGet, "/internal/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "apidocs_requests_total") {
		t.Error("metrics output missing request counter")
	}
	if serve(router, http.MethodGet, "/metrics").Code != http.StatusNotFound {
		t.Error("default metrics path should not be served when a custom path is set")
	}
}

func TestRouter_LoggingSkipsCustomMetricsPath(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	reg := prometheus.NewRegistry()
	router := apihttp.NewRouter(apihttp.NewHealthHandler("1.0.0"), logger, apihttp.RouterConfig{
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		MetricsPath:    "/internal/metrics",
		DocsHandler:    docsStub(),
	})

	serve(router, http.MethodGet, "/internal/metrics")
	serve(router, http.MethodGet, "/docs")

	logs := buf.String()
	if strings.Contains(logs, "/internal/metrics") {
		t.Errorf("scrapes of the metrics path should not be logged: %s", logs)
	}
	if !strings.Contains(logs, `"path":"/docs"`) {
		t.Errorf("docs request should be logged: %s", logs)
	}
}
