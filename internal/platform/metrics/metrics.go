// Package metrics registers the Prometheus instruments for domain outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application. Each instance
// owns its own registry so tests can construct metrics freely without
// duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	VesselsRegistered     prometheus.Counter
	CatchesReported       prometheus.Counter
	CatchesVerified       prometheus.Counter
	CertificationsIssued  prometheus.Counter
	QuotaAllocations      prometheus.Counter
	ReportRejections      *prometheus.CounterVec
	BlacklistMutations    *prometheus.CounterVec
	BlacklistLookup       prometheus.Histogram
	RequestDurationSecond *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		VesselsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "fairchain_vessels_registered_total",
			Help: "Total number of vessels registered.",
		}),
		CatchesReported: factory.NewCounter(prometheus.CounterOpts{
			Name: "fairchain_catches_reported_total",
			Help: "Total number of catches accepted by the register.",
		}),
		CatchesVerified: factory.NewCounter(prometheus.CounterOpts{
			Name: "fairchain_catches_verified_total",
			Help: "Total number of catch verifications applied.",
		}),
		CertificationsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "fairchain_certifications_issued_total",
			Help: "Total number of market certifications written.",
		}),
		QuotaAllocations: factory.NewCounter(prometheus.CounterOpts{
			Name: "fairchain_quota_allocations_total",
			Help: "Total number of quota allocations applied.",
		}),
		ReportRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fairchain_report_rejections_total",
			Help: "Catch reports rejected, by failing precondition.",
		}, []string{"reason"}),
		BlacklistMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fairchain_blacklist_mutations_total",
			Help: "Blacklist additions and removals.",
		}, []string{"op"}),
		BlacklistLookup: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fairchain_blacklist_lookup_duration_seconds",
			Help:    "Latency of blacklist lookups.",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
		RequestDurationSecond: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fairchain_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"route", "method"}),
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
