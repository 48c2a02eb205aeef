// Package metrics provides Prometheus metrics collection for the gateway,
// trimmed from the teacher's adapters/metrics package down to the counters
// and histograms a request-dispatch pipeline (no billing, no auth
// enforcement) can actually populate.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics the HTTP adapter's ProxyHandler
// populates around each dispatch, registered against a private registry so a process can create
// more than one Collector (as tests do) without colliding on the global
// default registerer.
type Collector struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	UpstreamErrors   *prometheus.CounterVec
}

// New creates a Collector with all metrics registered against a private
// registry, exposed via Handler.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gateway",
				Name:      "requests_total",
				Help:      "Total number of requests dispatched, labeled by result status",
			},
			[]string{"status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Request dispatch duration in seconds, from handler entry until the dispatch result is ready",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "gateway",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being dispatched",
			},
		),
		UpstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gateway",
				Name:      "upstream_errors_total",
				Help:      "Total number of proxy_error dispatch failures, labeled by route index",
			},
			[]string{"route_index"},
		),
	}
}

// Handler returns the HTTP handler for /metrics, scoped to this
// Collector's private registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
