package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Catalog lookup outcomes.
const (
	LookupHit         = "cache_hit"
	LookupMiss        = "upstream"
	LookupPlaceholder = "placeholder"
	LookupError       = "error"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "marquee",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marquee",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "marquee",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	catalogLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marquee",
			Subsystem: "catalog",
			Name:      "lookups_total",
			Help:      "Artist catalog searches by outcome.",
		},
		[]string{"outcome"},
	)

	catalogDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "marquee",
			Subsystem: "catalog",
			Name:      "upstream_duration_seconds",
			Help:      "Duration of Last.fm requests.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		catalogLookups,
		catalogDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per matched route.
// Unmatched paths share one label so SPA deep links don't explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordCatalogLookup counts one artist search by how it was answered.
func RecordCatalogLookup(outcome string) {
	catalogLookups.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records the latency of one Last.fm call.
func ObserveUpstream(duration time.Duration) {
	catalogDuration.Observe(duration.Seconds())
}
