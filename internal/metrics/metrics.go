package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Quote metrics
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curve_engine_quote_requests_total",
			Help: "Total number of quote and price requests",
		},
		[]string{"curve", "operation", "status"},
	)

	QuoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "curve_engine_quote_duration_seconds",
			Help:    "Quote computation duration in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
		[]string{"curve", "operation"},
	)

	// KernelErrors counts failures by taxonomy kind (see domain.ErrorKind).
	KernelErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curve_engine_kernel_errors_total",
			Help: "Total number of curve kernel failures by kind",
		},
		[]string{"curve", "kind"},
	)

	AccountDecodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curve_engine_account_decodes_total",
			Help: "Total number of raw account decodes",
		},
		[]string{"account", "status"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curve_engine_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "curve_engine_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
