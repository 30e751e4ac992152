package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func TestHealthOK(t *testing.T) {
	tracer := trace.NewNoopTracerProvider().Tracer("handler-test")
	h := New(tracer, prometheus.NewRegistry(), func() int { return 3 })
	h.AddCheck("postgres", func(ctx context.Context) error { return nil })

	w := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Sessions != 3 || resp.Checks["postgres"] != "ok" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHealthDegraded(t *testing.T) {
	tracer := trace.NewNoopTracerProvider().Tracer("handler-test")
	h := New(tracer, prometheus.NewRegistry(), nil)
	h.AddCheck("redis", func(ctx context.Context) error { return errors.New("connection refused") })
	h.AddCheck("postgres", func(ctx context.Context) error { return nil })

	w := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "degraded" || resp.Checks["redis"] != "connection refused" || resp.Checks["postgres"] != "ok" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestMetricsEndpointServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "desk_scrape_total", Help: "scrape"})
	reg.MustRegister(counter)
	counter.Inc()

	h := New(trace.NewNoopTracerProvider().Tracer("handler-test"), reg, nil)
	w := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "desk_scrape_total 1") {
		t.Fatalf("expected counter in scrape, got %s", w.Body.String())
	}
}
