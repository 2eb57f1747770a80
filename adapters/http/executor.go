// Package http provides the outbound HTTP client that executes try-it requests.
package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/monada-ai/apidocs/adapters/clock"
	"github.com/monada-ai/apidocs/adapters/idgen"
	"github.com/monada-ai/apidocs/adapters/metrics"
	"github.com/monada-ai/apidocs/domain/tryit"
	"github.com/monada-ai/apidocs/ports"
)

// maxResponseBytes caps how much of a response is read for display.
const maxResponseBytes = 50 << 20

// Executor sends try-it requests to the documented API.
type Executor struct {
	client  *http.Client
	ids     ports.IDGenerator
	clock   ports.Clock
	metrics *metrics.Collector
}

// ExecutorConfig contains configuration for the executor.
type ExecutorConfig struct {
	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

// NewExecutor creates a new try-it executor.
func NewExecutor(cfg ExecutorConfig) *Executor {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns == 0 {
		maxIdleConns = 100
	}

	idleConnTimeout := cfg.IdleConnTimeout
	if idleConnTimeout == 0 {
		idleConnTimeout = 90 * time.Second
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConns,
		IdleConnTimeout:     idleConnTimeout,
	}

	return &Executor{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		ids:   idgen.UUID{},
		clock: clock.System{},
	}
}

// WithMetrics records try-it metrics on m.
func (e *Executor) WithMetrics(m *metrics.Collector) *Executor {
	e.metrics = m
	return e
}

// WithIDGenerator replaces the X-Request-ID generator.
func (e *Executor) WithIDGenerator(ids ports.IDGenerator) *Executor {
	e.ids = ids
	return e
}

// WithClock replaces the clock used to measure latency.
func (e *Executor) WithClock(c ports.Clock) *Executor {
	e.clock = c
	return e
}

// Execute sends req and returns the response. Non-2xx statuses are not errors;
// only transport failures are.
func (e *Executor) Execute(ctx context.Context, req tryit.Request) (tryit.Response, error) {
	start := e.clock.Now()
	requestID := e.ids.New()

	if e.metrics != nil {
		e.metrics.TryItInFlight.Inc()
		defer e.metrics.TryItInFlight.Dec()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		e.recordError("build", req.Method)
		return tryit.Response{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		e.recordError(errorType(err), req.Method)
		return tryit.Response{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		e.recordError("read", req.Method)
		return tryit.Response{}, fmt.Errorf("read response: %w", err)
	}

	headers := make(map[string]string, len(resp.Header))
	for k, v := range resp.Header {
		if len(v) > 0 {
			headers[k] = strings.Join(v, ", ")
		}
	}

	elapsed := e.clock.Now().Sub(start)
	if e.metrics != nil {
		status := metrics.StatusClass(resp.StatusCode)
		e.metrics.TryItRequests.WithLabelValues(req.Method, status).Inc()
		e.metrics.TryItDuration.WithLabelValues(req.Method, status).Observe(elapsed.Seconds())
	}

	return tryit.Response{
		Status:    resp.StatusCode,
		Headers:   headers,
		Body:      respBody,
		RequestID: requestID,
		LatencyMs: elapsed.Milliseconds(),
	}, nil
}

// Close releases idle connections.
func (e *Executor) Close() {
	e.client.CloseIdleConnections()
}

func (e *Executor) recordError(kind, method string) {
	if e.metrics == nil {
		return
	}
	e.metrics.TryItErrors.WithLabelValues(kind).Inc()
	e.metrics.TryItRequests.WithLabelValues(method, "error").Inc()
}

func errorType(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	default:
		return "transport"
	}
}

// Ensure interface compliance.
var _ ports.Executor = (*Executor)(nil)
