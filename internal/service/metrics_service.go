package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry and the counters the API
// exposes on /metrics. All Record/Observe methods are safe on a nil receiver
// so callers can run without metrics wired.
type MetricsService struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	checkinsTotal    prometheus.Counter
	cacheHitsTotal   prometheus.Counter
	cacheMissesTotal prometheus.Counter
	cacheOpDuration  prometheus.Histogram

	dbQueryDuration *prometheus.HistogramVec
}

func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	s := &MetricsService{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkin_http_requests_total",
			Help: "Total HTTP requests processed, by method, path and status.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "checkin_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		checkinsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkin_submissions_total",
			Help: "Accepted check-in submissions.",
		}),
		cacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkin_cache_hits_total",
			Help: "Family list cache hits.",
		}),
		cacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkin_cache_misses_total",
			Help: "Family list cache misses.",
		}),
		cacheOpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "checkin_cache_operation_duration_seconds",
			Help:    "Latency of cache reads and writes.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "checkin_db_query_duration_seconds",
			Help:    "Database query latency by query name.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.httpRequestsTotal,
		s.httpRequestDuration,
		s.checkinsTotal,
		s.cacheHitsTotal,
		s.cacheMissesTotal,
		s.cacheOpDuration,
		s.dbQueryDuration,
	)
	return s
}

// Handler serves the registry in the Prometheus text format.
func (s *MetricsService) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if s == nil {
		return
	}
	s.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	s.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (s *MetricsService) RecordCheckin() {
	if s == nil {
		return
	}
	s.checkinsTotal.Inc()
}

func (s *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if s == nil {
		return
	}
	if hit {
		s.cacheHitsTotal.Inc()
	} else {
		s.cacheMissesTotal.Inc()
	}
	s.cacheOpDuration.Observe(duration.Seconds())
}

func (s *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if s == nil {
		return
	}
	s.cacheOpDuration.Observe(duration.Seconds())
}

func (s *MetricsService) ObserveDBQuery(query string, duration time.Duration) {
	if s == nil {
		return
	}
	s.dbQueryDuration.WithLabelValues(query).Observe(duration.Seconds())
}
