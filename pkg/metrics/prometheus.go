// Package metrics provides Prometheus metrics for the discovery service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Ranking
	rankingComputations *prometheus.CounterVec
	rankingLatency      *prometheus.HistogramVec
	rankingUnavailable  *prometheus.CounterVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	cacheInvalidations  prometheus.Counter
	modeSwitches        *prometheus.CounterVec
	rankedProjects      prometheus.Gauge

	// Interactions
	interactions          *prometheus.CounterVec
	interactionsDuplicate prometheus.Counter

	// Persistence
	persistenceSaves   *prometheus.CounterVec
	persistenceLatency prometheus.Histogram
	snapshotQueueSize  prometheus.Gauge
	snapshotDropped    prometheus.Counter

	// Suppliers
	supplierErrors   *prometheus.CounterVec
	invalidProjects  *prometheus.CounterVec
	githubRequests   *prometheus.CounterVec
	breakerStateOpen prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "kaspa",
		subsystem:        "discovery",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        name,
		Help:        help,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        name,
		Help:        help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        name,
		Help:        help,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.rankingComputations = m.counterVec("ranking_computations_total",
		"Rankings computed from scratch, by kind", "kind")
	m.rankingLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "ranking_latency_milliseconds",
		Help:        "Time spent scoring and sorting one collection",
		Buckets:     m.histogramBuckets,
	}, []string{"kind"})
	m.rankingUnavailable = m.counterVec("ranking_unavailable_total",
		"Rankings rendered in the unavailable state, by kind", "kind")
	m.cacheHits = m.counterVec("cache_hits_total", "Ranking cache hits, by kind", "kind")
	m.cacheMisses = m.counterVec("cache_misses_total", "Ranking cache misses, by kind", "kind")
	m.cacheInvalidations = m.counter("cache_invalidations_total", "Ranking cache invalidations")
	m.modeSwitches = m.counterVec("mode_switches_total", "Weight profile switches, by target mode", "mode")
	m.rankedProjects = m.gauge("ranked_projects", "Projects in the last fetched collection")

	m.interactions = m.counterVec("interactions_total", "Recorded interactions, by type", "type")
	m.interactionsDuplicate = m.counter("interactions_duplicate_total",
		"Interaction events ignored because their id was already seen")

	m.persistenceSaves = m.counterVec("persistence_saves_total",
		"Interaction record saves, by backend and outcome", "backend", "outcome")
	m.persistenceLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "persistence_latency_milliseconds",
		Help:        "Interaction record save latency",
		Buckets:     m.histogramBuckets,
	})
	m.snapshotQueueSize = m.gauge("snapshot_queue_size", "Pending interaction snapshots")
	m.snapshotDropped = m.counter("snapshot_dropped_total", "Snapshots dropped because the queue was full")

	m.supplierErrors = m.counterVec("supplier_errors_total", "Project supplier failures, by source", "source")
	m.invalidProjects = m.counterVec("invalid_projects_total",
		"Projects rejected at the supplier boundary, by source", "source")
	m.githubRequests = m.counterVec("github_requests_total", "GitHub API lookups, by outcome", "outcome")
	m.breakerStateOpen = m.gauge("supplier_breaker_open", "1 when the supplier circuit breaker is open")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Total number of errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordRankingComputation counts a recompute of kind and its latency.
func RecordRankingComputation(kind string, took time.Duration) {
	globalManager.rankingComputations.WithLabelValues(kind).Inc()
	globalManager.rankingLatency.WithLabelValues(kind).Observe(float64(took.Microseconds()) / 1000)
}

// RecordRankingUnavailable counts a ranking rendered without data.
func RecordRankingUnavailable(kind string) {
	globalManager.rankingUnavailable.WithLabelValues(kind).Inc()
}

// RecordCacheHit increments the cache hit counter for kind.
func RecordCacheHit(kind string) {
	globalManager.cacheHits.WithLabelValues(kind).Inc()
}

// RecordCacheMiss increments the cache miss counter for kind.
func RecordCacheMiss(kind string) {
	globalManager.cacheMisses.WithLabelValues(kind).Inc()
}

// RecordCacheInvalidation increments the invalidation counter.
func RecordCacheInvalidation() {
	globalManager.cacheInvalidations.Inc()
}

// RecordModeSwitch counts a switch to mode.
func RecordModeSwitch(mode string) {
	globalManager.modeSwitches.WithLabelValues(mode).Inc()
}

// UpdateRankedProjects sets the size of the last fetched collection.
func UpdateRankedProjects(count int) {
	globalManager.rankedProjects.Set(float64(count))
}

// RecordInteraction counts one tracked interaction.
func RecordInteraction(kind string) {
	globalManager.interactions.WithLabelValues(kind).Inc()
}

// RecordInteractionDuplicate counts an ignored duplicate event.
func RecordInteractionDuplicate() {
	globalManager.interactionsDuplicate.Inc()
}

// RecordPersistenceSave counts a save attempt against backend.
func RecordPersistenceSave(backend string, err error, took time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	globalManager.persistenceSaves.WithLabelValues(backend, outcome).Inc()
	globalManager.persistenceLatency.Observe(float64(took.Microseconds()) / 1000)
}

// UpdateSnapshotQueueSize sets the number of pending snapshots.
func UpdateSnapshotQueueSize(size int) {
	globalManager.snapshotQueueSize.Set(float64(size))
}

// RecordSnapshotDropped counts a snapshot rejected by a full queue.
func RecordSnapshotDropped() {
	globalManager.snapshotDropped.Inc()
}

// RecordSupplierError counts a failed project fetch from source.
func RecordSupplierError(source string) {
	globalManager.supplierErrors.WithLabelValues(source).Inc()
}

// RecordInvalidProject counts a project dropped by validation.
func RecordInvalidProject(source string) {
	globalManager.invalidProjects.WithLabelValues(source).Inc()
}

// RecordGitHubRequest counts a GitHub lookup by outcome (ok, error, cached, limited).
func RecordGitHubRequest(outcome string) {
	globalManager.githubRequests.WithLabelValues(outcome).Inc()
}

// UpdateBreakerOpen publishes whether the supplier breaker is open.
func UpdateBreakerOpen(open bool) {
	v := 0.0
	if open {
		v = 1
	}
	globalManager.breakerStateOpen.Set(v)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method string, statusCode int) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method string, statusCode int, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, strconv.Itoa(statusCode)).Observe(durationMs)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
