package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Resolutions counts exact lookups, labeled by outcome (hit|miss).
	Resolutions *prometheus.CounterVec
	// Suggestions counts fuzzy suggestion queries, labeled by corpus (local|remote).
	Suggestions *prometheus.CounterVec
	// DirectoryFetches counts outbound all-countries fetches, labeled by result (ok|error).
	DirectoryFetches *prometheus.CounterVec
	// Validations counts remote validation lookups, labeled by result (ok|not_found).
	Validations *prometheus.CounterVec
	// EntriesSaved counts entries durably persisted.
	EntriesSaved prometheus.Counter
	// EndpointLatency records per-endpoint latency in seconds.
	EndpointLatency *prometheus.HistogramVec
}

// New creates all metrics and registers them on reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated from the default registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "capfinder_resolutions_total",
			Help: "Total exact capital lookups, labeled by outcome",
		}, []string{"outcome"}),
		Suggestions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "capfinder_suggestions_total",
			Help: "Total fuzzy suggestion queries, labeled by corpus",
		}, []string{"corpus"}),
		DirectoryFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "capfinder_directory_fetches_total",
			Help: "Total outbound country directory list fetches, labeled by result",
		}, []string{"result"}),
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "capfinder_validations_total",
			Help: "Total remote country validations, labeled by result",
		}, []string{"result"}),
		EntriesSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "capfinder_entries_saved_total",
			Help: "Total country-capital entries persisted",
		}),
		EndpointLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "capfinder_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// ObserveEndpointLatency records the latency for a given endpoint.
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}
