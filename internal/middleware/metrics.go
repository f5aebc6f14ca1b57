package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records per-route request counts, latency and response size.
// Server-sent event streams are counted in streamsOpen instead of the
// latency histogram, where their minutes-long lifetimes would swamp the
// real request timings.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	responseSize     *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	streamsOpen      prometheus.Gauge
}

var routeLabels = []string{"method", "path", "status"}

// NewMetrics registers the collectors on reg, the default registerer when
// nil.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "bookworld"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := func(name, help string) prometheus.Opts {
		return prometheus.Opts{Namespace: namespace, Subsystem: "http", Name: name, Help: help}
	}

	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts(factory("requests_total", "HTTP requests by route and status.")),
			routeLabels,
		),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http",
			Name:    "request_duration_seconds",
			Help:    "Latency of non-streaming HTTP requests.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, routeLabels),
		responseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http",
			Name:    "response_size_bytes",
			Help:    "Size of HTTP response bodies.",
			Buckets: prometheus.ExponentialBuckets(128, 4, 8),
		}, routeLabels),
		requestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts(factory("requests_in_flight", "HTTP requests being served.")),
		),
		streamsOpen: prometheus.NewGauge(
			prometheus.GaugeOpts(factory("streams_open", "Open server-sent event streams.")),
		),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration, m.responseSize, m.requestsInFlight, m.streamsOpen)
	return m
}

// Middleware records one observation per request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		rw := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK, streams: m.streamsOpen}
		defer rw.closeStream()

		next.ServeHTTP(rw, r)

		labels := prometheus.Labels{
			"method": r.Method,
			"path":   routeLabel(r),
			"status": strconv.Itoa(rw.statusCode),
		}
		m.requestsTotal.With(labels).Inc()
		m.responseSize.With(labels).Observe(float64(rw.bytesWritten))
		if !rw.streaming {
			m.requestDuration.With(labels).Observe(time.Since(start).Seconds())
		}
	})
}

// Handler serves the default registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	streaming    bool
	streams      prometheus.Gauge
}

func (w *metricsResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	if strings.HasPrefix(w.Header().Get("Content-Type"), "text/event-stream") && !w.streaming {
		w.streaming = true
		w.streams.Inc()
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *metricsResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

func (w *metricsResponseWriter) closeStream() {
	if w.streaming {
		w.streams.Dec()
	}
}

func (w *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *metricsResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// routeLabel prefers the matched mux pattern so label cardinality stays
// bounded; unmatched paths have their UUID segments collapsed.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return normalizePath(r.URL.Path)
	}
	if _, path, found := strings.Cut(r.Pattern, " "); found {
		return path
	}
	return r.Pattern
}

// normalizePath replaces UUID segments with ":id".
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if _, err := uuid.Parse(seg); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
