package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TradesRequestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trades_requested_total",
			Help: "Total number of trade requests.",
		},
		[]string{"result"},
	)

	TradesCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trades_completed_total",
			Help: "Total number of completed trades.",
		},
	)

	MessagesSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Total number of chat messages persisted.",
		},
		[]string{"result"},
	)

	WebsocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Number of currently open websocket connections.",
		},
	)
)

// MustRegister registers all collectors with the default registry.
func MustRegister() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		TradesRequestedTotal,
		TradesCompletedTotal,
		MessagesSentTotal,
		WebsocketConnections,
	)
}

// GinMiddleware records request counts and latencies per route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDurationSeconds.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
