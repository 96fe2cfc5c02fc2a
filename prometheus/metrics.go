package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"duckfarm/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	LoginAttemptsCounter prometheus.Counter
	LoginSuccessCounter  prometheus.Counter
	LoginErrorsCounter   prometheus.Counter
	AuthErrorsCounter    prometheus.Counter

	// Sale metrics
	SaleOperationsCounter prometheus.CounterVec
	SalesCreatedCounter   prometheus.Counter

	// Report metrics
	ReportOperationsCounter prometheus.CounterVec

	// Entity operation metrics
	DuckOperationsCounter     prometheus.CounterVec
	CustomerOperationsCounter prometheus.CounterVec
	SellerOperationsCounter   prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	LoginAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_login_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	LoginSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_login_success_total",
			Help: "Total number of successful logins",
		},
	)

	LoginErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_login_errors_total",
			Help: "Total number of failed logins",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	// Sale metrics
	SaleOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sale_operations_total",
			Help: "Total number of sale operations",
		},
		[]string{"operation"},
	)

	SalesCreatedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_sales_created_total",
			Help: "Total number of sales created",
		},
	)

	// Report metrics
	ReportOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_report_operations_total",
			Help: "Total number of report generations",
		},
		[]string{"report"},
	)

	// Entity operation metrics
	DuckOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_duck_operations_total",
			Help: "Total number of duck operations",
		},
		[]string{"operation"},
	)

	CustomerOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_customer_operations_total",
			Help: "Total number of customer operations",
		},
		[]string{"operation"},
	)

	SellerOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_seller_operations_total",
			Help: "Total number of seller operations",
		},
		[]string{"operation"},
	)
}
