// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Path is where the exposition handler is mounted.
const Path = "/metrics"

// Upstream labels.
const (
	UpstreamModel  = "model"
	UpstreamPlaces = "places"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled by the api",
		},
		[]string{"method", "path", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	httpRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
	searchOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurant_search_outcomes_total",
			Help: "Restaurant search requests by outcome",
		},
		[]string{"outcome"},
	)
	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Latency of calls to the language model and places API",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"upstream", "result"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsInFlight)
	prometheus.MustRegister(searchOutcomes)
	prometheus.MustRegister(upstreamDuration)
}

// RecordRequestStart marks one request as in flight.
func RecordRequestStart() {
	httpRequestsInFlight.Inc()
}

// RecordRequestFinish ends an in-flight request and records its status and latency.
func RecordRequestFinish(method, path, status string, durationSeconds float64) {
	httpRequestsInFlight.Dec()
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
}

// RecordOutcome counts one finished search by outcome name.
func RecordOutcome(outcome string) {
	searchOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records the latency of one outbound call.
func ObserveUpstream(upstream string, err error, durationSeconds float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	upstreamDuration.WithLabelValues(upstream, result).Observe(durationSeconds)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
