package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Forum activity
	ForumEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_events_total",
			Help: "Domain events emitted by forum activity",
		},
		[]string{"type"}, // forum.created|post.created|comment.created|account.deleted
	)

	// Query cache
	QueryCacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_requests_total",
			Help: "Cacheable query lookups by result",
		},
		[]string{"result"}, // hit|miss
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(HTTPLatency)
	prometheus.MustRegister(ForumEvents)
	prometheus.MustRegister(QueryCacheRequests)
	prometheus.MustRegister(WorkerQueueDepth)
}
