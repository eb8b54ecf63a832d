// Package metrics holds the Prometheus registries for the api and worker
// binaries.
package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	flowRequestsTotal  *prometheus.CounterVec
	flowFallbacksTotal *prometheus.CounterVec
	retrievalHitTotal  *prometheus.CounterVec
	noContextTotal     *prometheus.CounterVec
	retrievedChunks    *prometheus.HistogramVec
	flowDuration       *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "droitbot",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "droitbot",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "droitbot",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	flowRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "droitbot",
			Subsystem: "flow",
			Name:      "requests_total",
			Help:      "Total completed assistant flow requests by outcome.",
		},
		[]string{"service", "flow", "outcome"},
	)
	flowFallbacksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "droitbot",
			Subsystem: "flow",
			Name:      "fallbacks_total",
			Help:      "Total flow responses served from canned fallback copy.",
		},
		[]string{"service", "flow"},
	)
	retrievalHitTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "droitbot",
			Subsystem: "rag",
			Name:      "retrieval_hit_total",
			Help:      "Total assistant requests with at least one retrieved source.",
		},
		[]string{"service"},
	)
	noContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "droitbot",
			Subsystem: "rag",
			Name:      "no_context_total",
			Help:      "Total assistant requests answered without retrieved sources.",
		},
		[]string{"service"},
	)
	retrievedChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "droitbot",
			Subsystem: "rag",
			Name:      "retrieved_chunks",
			Help:      "Distribution of retrieved sources per assistant request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8},
		},
		[]string{"service"},
	)
	flowDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "droitbot",
			Subsystem: "flow",
			Name:      "duration_seconds",
			Help:      "Flow execution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "flow"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		flowRequestsTotal,
		flowFallbacksTotal,
		retrievalHitTotal,
		noContextTotal,
		retrievedChunks,
		flowDuration,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		flowRequestsTotal:  flowRequestsTotal,
		flowFallbacksTotal: flowFallbacksTotal,
		retrievalHitTotal:  retrievalHitTotal,
		noContextTotal:     noContextTotal,
		retrievedChunks:    retrievedChunks,
		flowDuration:       flowDuration,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/knowledge/documents/"):
		return "/v1/knowledge/documents/{document_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordFlow(service, flow, outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.flowRequestsTotal.WithLabelValues(service, flow, outcome).Inc()
	m.flowDuration.WithLabelValues(service, flow).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordFallback(service, flow string) {
	m.flowFallbacksTotal.WithLabelValues(service, flow).Inc()
}

func (m *HTTPServerMetrics) RecordRetrieval(service string, sourceCount int) {
	m.retrievedChunks.WithLabelValues(service).Observe(float64(sourceCount))
	if sourceCount > 0 {
		m.retrievalHitTotal.WithLabelValues(service).Inc()
		return
	}
	m.noContextTotal.WithLabelValues(service).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
