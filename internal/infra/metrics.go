package infra

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exported on /metrics. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	decompositions   *prometheus.CounterVec
	decomposeLatency *prometheus.HistogramVec
	creditOps        *prometheus.CounterVec
	payments         *prometheus.CounterVec
}

// NewMetrics registers the service collectors on a fresh registry together
// with the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskease",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "taskease",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		decompositions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskease",
			Name:      "decompositions_total",
			Help:      "Task decompositions by provider and outcome.",
		}, []string{"provider", "outcome"}),
		decomposeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "taskease",
			Name:      "decomposition_duration_seconds",
			Help:      "Upstream model latency for task decomposition.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"provider"}),
		creditOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskease",
			Name:      "credit_operations_total",
			Help:      "Ledger operations by kind and outcome.",
		}, []string{"op", "outcome"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskease",
			Name:      "payments_total",
			Help:      "Payment orchestration events by stage and outcome.",
		}, []string{"stage", "outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.decompositions,
		m.decomposeLatency,
		m.creditOps,
		m.payments,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveDecomposition(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.decompositions.WithLabelValues(provider, outcome).Inc()
	m.decomposeLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (m *Metrics) CreditOp(op, outcome string) {
	if m == nil {
		return
	}
	m.creditOps.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) Payment(stage, outcome string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(stage, outcome).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency labelled by the chi route
// pattern, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(rw.status)).Inc()
		m.httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
