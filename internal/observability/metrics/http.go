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

	documentsGeneratedTotal  *prometheus.CounterVec
	conversationRepliesTotal *prometheus.CounterVec
	needsCurrencyTotal       *prometheus.CounterVec
	exportsTotal             *prometheus.CounterVec
	providerFallbacksTotal   *prometheus.CounterVec
	generationDuration       *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quotla",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quotla",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "quotla",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	documentsGeneratedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quotla",
			Subsystem: "generation",
			Name:      "documents_total",
			Help:      "Total documents generated by type.",
		},
		[]string{"service", "document_type"},
	)
	conversationRepliesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quotla",
			Subsystem: "generation",
			Name:      "conversation_replies_total",
			Help:      "Total requests answered conversationally instead of with a document.",
		},
		[]string{"service"},
	)
	needsCurrencyTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quotla",
			Subsystem: "generation",
			Name:      "needs_currency_total",
			Help:      "Total extractions halted for a missing currency.",
		},
		[]string{"service", "document_type"},
	)
	exportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quotla",
			Subsystem: "export",
			Name:      "downloads_total",
			Help:      "Total rendered document downloads by format.",
		},
		[]string{"service", "format"},
	)
	providerFallbacksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quotla",
			Subsystem: "provider",
			Name:      "fallbacks_total",
			Help:      "Total extraction calls served by the fallback provider.",
		},
		[]string{"service", "primary", "fallback"},
	)
	generationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quotla",
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "End-to-end generation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "document_type"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		documentsGeneratedTotal,
		conversationRepliesTotal,
		needsCurrencyTotal,
		exportsTotal,
		providerFallbacksTotal,
		generationDuration,
	)

	return &HTTPServerMetrics{
		registry:                 registry,
		requestTotal:             requestTotal,
		requestDuration:          requestDuration,
		requestInFlight:          requestInFlight,
		documentsGeneratedTotal:  documentsGeneratedTotal,
		conversationRepliesTotal: conversationRepliesTotal,
		needsCurrencyTotal:       needsCurrencyTotal,
		exportsTotal:             exportsTotal,
		providerFallbacksTotal:   providerFallbacksTotal,
		generationDuration:       generationDuration,
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
	case strings.HasPrefix(path, "/v1/export/"):
		return "/v1/export/{format}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordDocumentGenerated(service, documentType string, duration time.Duration) {
	m.documentsGeneratedTotal.WithLabelValues(service, documentType).Inc()
	m.generationDuration.WithLabelValues(service, documentType).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordConversationReply(service string) {
	m.conversationRepliesTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordNeedsCurrency(service, documentType string) {
	m.needsCurrencyTotal.WithLabelValues(service, documentType).Inc()
}

func (m *HTTPServerMetrics) RecordExport(service, format string) {
	m.exportsTotal.WithLabelValues(service, format).Inc()
}

func (m *HTTPServerMetrics) RecordProviderFallback(service, primary, fallback string) {
	m.providerFallbacksTotal.WithLabelValues(service, primary, fallback).Inc()
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

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
