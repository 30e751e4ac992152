package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Check tests one dependency. A nil error means healthy.
type Check func(ctx context.Context) error

const checkTimeout = 2 * time.Second

// Handler serves the operator-facing sidecar: liveness with dependency checks
// and the Prometheus scrape endpoint.
type Handler struct {
	tracer   trace.Tracer
	gatherer prometheus.Gatherer
	checks   map[string]Check
	sessions func() int
}

func New(tracer trace.Tracer, gatherer prometheus.Gatherer, sessions func() int) *Handler {
	return &Handler{
		tracer:   tracer,
		gatherer: gatherer,
		checks:   make(map[string]Check),
		sessions: sessions,
	}
}

// AddCheck registers a named dependency check reported by /health.
func (h *Handler) AddCheck(name string, c Check) {
	h.checks[name] = c
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
}

type healthResponse struct {
	Status   string            `json:"status"`
	Sessions int               `json:"sessions"`
	Checks   map[string]string `json:"checks,omitempty"`
}

func (h *Handler) Health(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.health")
	defer span.End()

	resp := healthResponse{Status: "ok"}
	if h.sessions != nil {
		resp.Sessions = h.sessions()
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) > 0 {
		resp.Checks = make(map[string]string, len(names))
	}
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := h.checks[name](checkCtx)
		cancel()
		if err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			span.SetAttributes(attribute.String("health.failed", name))
			continue
		}
		resp.Checks[name] = "ok"
	}

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}
