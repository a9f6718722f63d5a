package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"capfinder/internal/platform/health"
	"capfinder/internal/platform/metrics"
	"capfinder/internal/platform/middleware"
)

// NewRouter wires all public endpoints with middleware. m may be nil, in which
// case latency observation is skipped.
func NewRouter(h *Handler, hc *health.Handler, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	if m != nil {
		r.Use(middleware.Latency(m.ObserveEndpointLatency))
	}
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.BodyLimit(1 << 20))
	r.Use(middleware.ContentTypeJSON)

	// Resolution endpoints
	r.Post("/capital", h.handleCapital)

	// Save flow: /confirm is the second submission after disambiguation and
	// shares the save contract.
	r.Post("/save", h.handleSave)
	r.Post("/confirm", h.handleSave)

	// Operational endpoints
	hc.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
