// Package metric provides Prometheus metrics for statebag.
//
// Metrics include store operation counters, decode fallback counters,
// active session gauges and HTTP request latency histograms. They are
// exposed at /metrics in Prometheus format.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics.
type Registry struct {
	// Store metrics
	StoreOps       *prometheus.CounterVec
	StoreErrors    *prometheus.CounterVec
	DecodeFallback *prometheus.CounterVec

	// Session metrics
	SessionsActive  prometheus.Gauge
	SessionsStarted prometheus.Counter
	SessionsExpired prometheus.Counter

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	reg *prometheus.Registry
}

// NewRegistry creates and registers all application metrics.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	r := &Registry{
		StoreOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statebag",
			Name:      "store_ops_total",
			Help:      "Store operations by kind and operation.",
		}, []string{"kind", "op"}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statebag",
			Name:      "store_errors_total",
			Help:      "Store operation failures by kind and error code.",
		}, []string{"kind", "code"}),
		DecodeFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statebag",
			Name:      "decode_fallback_total",
			Help:      "Lenient decode fallbacks returning the raw value.",
		}, []string{"kind"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "statebag",
			Name:      "sessions_active",
			Help:      "Sessions currently resident.",
		}),
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "statebag",
			Name:      "sessions_started_total",
			Help:      "Sessions created.",
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "statebag",
			Name:      "sessions_expired_total",
			Help:      "Sessions removed by the expiry sweeper.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statebag",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "statebag",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		reg: reg,
	}

	reg.MustRegister(
		r.StoreOps,
		r.StoreErrors,
		r.DecodeFallback,
		r.SessionsActive,
		r.SessionsStarted,
		r.SessionsExpired,
		r.RequestsTotal,
		r.RequestDuration,
	)

	return r
}

// ObserveStoreOp records a store operation. Safe on a nil registry.
func (r *Registry) ObserveStoreOp(kind, op string) {
	if r == nil {
		return
	}
	r.StoreOps.WithLabelValues(kind, op).Inc()
}

// ObserveStoreError records a store operation failure. Safe on a nil
// registry.
func (r *Registry) ObserveStoreError(kind, code string) {
	if r == nil {
		return
	}
	r.StoreErrors.WithLabelValues(kind, code).Inc()
}

// ObserveDecodeFallback records a lenient decode fallback. Safe on a
// nil registry.
func (r *Registry) ObserveDecodeFallback(kind string) {
	if r == nil {
		return
	}
	r.DecodeFallback.WithLabelValues(kind).Inc()
}

// Prometheus returns the underlying registry, for registering extra
// collectors (e.g. the storage engine gauges).
func (r *Registry) Prometheus() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
