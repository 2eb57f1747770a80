package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/monada-ai/apidocs/adapters/clock"
	apihttp "github.com/monada-ai/apidocs/adapters/http"
	"github.com/monada-ai/apidocs/adapters/idgen"
	"github.com/monada-ai/apidocs/adapters/metrics"
	"github.com/monada-ai/apidocs/domain/tryit"
)

func TestExecutor_Execute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Request-ID"); got != "req-1" {
			t.Errorf("X-Request-ID = %q, want req-1", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}
		body, _ := io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"method":"` + r.Method + `","path":"` + r.URL.Path + `","query":"` + r.URL.RawQuery + `","body":` + string(body) + `}`))
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	exec := apihttp.NewExecutor(apihttp.ExecutorConfig{Timeout: 5 * time.Second}).
		WithIDGenerator(idgen.NewSequential("req-")).
		WithMetrics(metrics.NewWithRegistry(reg))
	defer exec.Close()

	resp, err := exec.Execute(context.Background(), tryit.Request{
		Method: "POST",
		URL:    server.URL + "/api/accounts?organizationId=ee95",
		Body:   []byte(`{"account":{"name":""}}`),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if resp.Status != http.StatusCreated {
		t.Errorf("Status = %d, want %d", resp.Status, http.StatusCreated)
	}
	if resp.RequestID != "req-1" {
		t.Errorf("RequestID = %q, want req-1", resp.RequestID)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("Content-Type header = %q", resp.Headers["Content-Type"])
	}
	want := `{"method":"POST","path":"/api/accounts","query":"organizationId=ee95","body":{"account":{"name":""}}}`
	if string(resp.Body) != want {
		t.Errorf("Body = %s, want %s", resp.Body, want)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "apidocs_tryit_requests_total" {
			found = true
		}
	}
	if !found {
		t.Error("apidocs_tryit_requests_total not recorded")
	}
}

func TestExecutor_Latency(t *testing.T) {
	c := clock.NewFake(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.Advance(250 * time.Millisecond)
		w.Write([]byte(`"ok"`))
	}))
	defer server.Close()

	exec := apihttp.NewExecutor(apihttp.ExecutorConfig{}).WithClock(c)
	defer exec.Close()

	resp, err := exec.Execute(context.Background(), tryit.Request{Method: "GET", URL: server.URL + "/api/login"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.LatencyMs != 250 {
		t.Errorf("LatencyMs = %d, want 250", resp.LatencyMs)
	}
}

func TestExecutor_NonSuccessIsNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer server.Close()

	exec := apihttp.NewExecutor(apihttp.ExecutorConfig{})
	defer exec.Close()

	resp, err := exec.Execute(context.Background(), tryit.Request{Method: "GET", URL: server.URL + "/api/login"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", resp.Status)
	}
}

func TestExecutor_TransportErrors(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name string
		cfg  apihttp.ExecutorConfig
		req  tryit.Request
	}{
		{
			name: "connection refused",
			req:  tryit.Request{Method: "GET", URL: closedURL + "/api/login"},
		},
		{
			name: "timeout",
			cfg:  apihttp.ExecutorConfig{Timeout: 20 * time.Millisecond},
			req:  tryit.Request{Method: "GET", URL: slow.URL},
		},
		{
			name: "invalid method",
			req:  tryit.Request{Method: "BAD METHOD", URL: slow.URL},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := apihttp.NewExecutor(tt.cfg).WithMetrics(metrics.NewWithRegistry(prometheus.NewRegistry()))
			defer exec.Close()

			_, err := exec.Execute(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if text := tryit.FormatError(err); text == "" {
				t.Error("FormatError returned empty text")
			}
		})
	}
}

func TestExecutor_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	exec := apihttp.NewExecutor(apihttp.ExecutorConfig{})
	defer exec.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := exec.Execute(ctx, tryit.Request{Method: "GET", URL: server.URL}); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
