package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Custom histogram buckets optimized for API response times ranging from milliseconds to 30+ seconds.
	// Provider APIs (Cal.com, Calendly, Google, Microsoft Graph) routinely take multiple seconds.
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Provider Client Metrics (Cal.com, Calendly, Google, Microsoft)
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_client_operation_duration_seconds",
			Help:    "Provider client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"provider", "operation", "status"},
	)

	ProviderRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_client_operation_total",
			Help: "Total number of provider client operations",
		},
		[]string{"provider", "operation", "status"},
	)

	// Webhook Metrics
	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complyscan_webhook_events_total",
			Help: "Total number of webhook deliveries received",
		},
		[]string{"provider", "trigger", "status"},
	)

	WebhookSignatureFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complyscan_webhook_signature_failures_total",
			Help: "Total number of webhook deliveries rejected for a bad signature",
		},
		[]string{"provider"},
	)

	// Aggregation Metrics
	AggregationProviderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complyscan_aggregation_provider_failures_total",
			Help: "Provider fetches that failed during event aggregation",
		},
		[]string{"provider"},
	)

	AggregationEventsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "complyscan_aggregation_events_returned",
			Help:    "Number of unified events returned per aggregation call",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 200},
		},
	)

	// Business Metrics
	DemoBookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complyscan_demo_bookings_total",
			Help: "Total number of demo booking submissions",
		},
		[]string{"status"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complyscan_notifications_total",
			Help: "Total number of internal notifications emitted",
		},
		[]string{"type", "status"},
	)

	// Infrastructure Metrics
	GoRoutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
