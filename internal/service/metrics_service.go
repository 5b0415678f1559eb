package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	cacheLatency     prometheus.Observer
	cacheWrite       prometheus.Observer
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	dataLoadDuration *prometheus.HistogramVec
	reportDuration   *prometheus.HistogramVec
	reportConflicts  *prometheus.GaugeVec
	pairsScored      prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	dataLoadDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planning_data_load_seconds",
		Help:    "Duration of planning data loads by dataset",
		Buckets: prometheus.DefBuckets,
	}, []string{"dataset"})

	reportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "conflict_report_build_seconds",
		Help:    "Duration of conflict engine runs by report kind",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	reportConflicts := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "conflict_report_conflicts",
		Help: "Conflicts found in the most recent report per semester",
	}, []string{"semester"})

	pairsScored := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "conflict_pairs_scored_total",
		Help: "Course pairs evaluated by the conflict scorer",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHits, cacheMisses,
		dataLoadDuration, reportDuration, reportConflicts, pairsScored, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheLatency:     cacheLatency,
		cacheWrite:       cacheWrite,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		dataLoadDuration: dataLoadDuration,
		reportDuration:   reportDuration,
		reportConflicts:  reportConflicts,
		pairsScored:      pairsScored,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the registry for tests and custom collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDataLoad records how long loading one planning dataset took.
func (m *MetricsService) ObserveDataLoad(dataset string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dataLoadDuration.WithLabelValues(dataset).Observe(duration.Seconds())
}

// ObserveReport records an engine run.
func (m *MetricsService) ObserveReport(kind, semester string, courses, conflicts int, duration time.Duration) {
	if m == nil {
		return
	}
	m.reportDuration.WithLabelValues(kind).Observe(duration.Seconds())
	m.reportConflicts.WithLabelValues(semester).Set(float64(conflicts))
	if courses > 1 {
		m.pairsScored.Add(float64(courses * (courses - 1) / 2))
	}
}
