package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "elastictools",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "elastictools",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	searchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "elastictools",
			Name:      "searches_total",
			Help:      "Search requests by outcome",
		},
		[]string{"outcome"},
	)

	cacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "elastictools",
			Name:      "result_cache_total",
			Help:      "Search result cache lookups",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestDuration,
		httpRequestsTotal,
		searchesTotal,
		cacheTotal,
	)
}

// GinMiddleware records request counts and durations per route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// SearchOutcome counts one search by outcome ("ok", "invalid", "error").
func SearchOutcome(outcome string) {
	searchesTotal.WithLabelValues(outcome).Inc()
}

// CacheResult counts one result-cache lookup ("hit" or "miss").
func CacheResult(result string) {
	cacheTotal.WithLabelValues(result).Inc()
}
