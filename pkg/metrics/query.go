package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QueryMetrics records listing-query timings and cache effectiveness.
type QueryMetrics struct {
	duration  *prometheus.HistogramVec
	requests  *prometheus.CounterVec
	cacheHit  *prometheus.CounterVec
	cacheMiss *prometheus.CounterVec
}

// NewQueryMetrics registers the query metrics on the provided registerer.
func NewQueryMetrics(reg prometheus.Registerer) *QueryMetrics {
	if reg == nil {
		return &QueryMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "query_duration_seconds",
		Help:    "Duration of listing queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint and status.",
	}, []string{"endpoint", "status"})
	cacheHit := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_hit_total",
		Help: "Listing cache hits.",
	}, []string{"query"})
	cacheMiss := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_miss_total",
		Help: "Listing cache misses.",
	}, []string{"query"})
	reg.MustRegister(duration, requests, cacheHit, cacheMiss)
	return &QueryMetrics{
		duration:  duration,
		requests:  requests,
		cacheHit:  cacheHit,
		cacheMiss: cacheMiss,
	}
}

// ObserveDuration records the duration for the named query.
func (q *QueryMetrics) ObserveDuration(query string, duration time.Duration) {
	if q == nil || q.duration == nil {
		return
	}
	q.duration.WithLabelValues(normalizeLabel(query)).Observe(duration.Seconds())
}

// IncRequest counts one HTTP request for the endpoint/status pair.
func (q *QueryMetrics) IncRequest(endpoint, status string) {
	if q == nil || q.requests == nil {
		return
	}
	q.requests.WithLabelValues(normalizeLabel(endpoint), normalizeLabel(status)).Inc()
}

// IncCacheHit counts a cache hit for the named query.
func (q *QueryMetrics) IncCacheHit(query string) {
	if q == nil || q.cacheHit == nil {
		return
	}
	q.cacheHit.WithLabelValues(normalizeLabel(query)).Inc()
}

// IncCacheMiss counts a cache miss for the named query.
func (q *QueryMetrics) IncCacheMiss(query string) {
	if q == nil || q.cacheMiss == nil {
		return
	}
	q.cacheMiss.WithLabelValues(normalizeLabel(query)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
