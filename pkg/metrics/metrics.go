package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry is the private registry exposed at /api/metrics
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// Buckets for request and outbound call latency, milliseconds to tens of seconds.
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Outbound integrations (crm, smtp, maps, postgres)
	ClientRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "integration_client_operation_duration_seconds",
			Help:    "Outbound integration call duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"service", "operation", "status"},
	)

	ClientRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_client_operation_total",
			Help: "Total number of outbound integration calls",
		},
		[]string{"service", "operation", "status"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Business Metrics
	LeadSubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pestpro_lead_submissions_total",
			Help: "Total number of lead form submissions by form and result",
		},
		[]string{"form", "status"},
	)

	SinkResults = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pestpro_lead_sink_results_total",
			Help: "Per-sink outcome of accepted lead submissions",
		},
		[]string{"sink", "status"},
	)

	AddressLookups = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pestpro_address_lookups_total",
			Help: "Total number of address suggestion and geocoding lookups",
		},
		[]string{"kind", "status"},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// Init registers process and Go runtime collectors on Registry.
func Init() {
	Registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// RecordInfrastructureMetrics collects infrastructure metrics until stop is closed
func RecordInfrastructureMetrics(stop <-chan struct{}) {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)

				GoRoutines.Set(float64(runtime.NumGoroutine()))
				HeapAlloc.Set(float64(m.HeapAlloc))
			}
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}

// RecordClientCall records one outbound call to an integration
func RecordClientCall(service, operation, status string, duration float64) {
	ClientRequestDuration.WithLabelValues(service, operation, status).Observe(duration)
	ClientRequestTotal.WithLabelValues(service, operation, status).Inc()
}
