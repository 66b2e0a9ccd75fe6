// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Relay metrics
	EventsFetched     *prometheus.CounterVec
	EventsPublished   *prometheus.CounterVec
	PublishErrors     prometheus.Counter
	Reconnects        prometheus.Counter
	OpenSubscriptions prometheus.Gauge

	// Parsing metrics
	EventsParsed    *prometheus.CounterVec
	ParseRejects    *prometheus.CounterVec
	TaprootFailures prometheus.Counter

	// Latency metrics
	RequestDuration *prometheus.HistogramVec
	PublishLatency  prometheus.Histogram

	// Cache metrics
	ParamsCacheHits   prometheus.Counter
	ParamsCacheMisses prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRequest prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "utxo_dex_relay"
	}

	return &Metrics{
		// Relay metrics
		EventsFetched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "events_fetched_total",
			Help:      "Total number of events received from the relay by kind",
		}, []string{"kind"}),
		EventsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "events_published_total",
			Help:      "Total number of events published to the relay by kind",
		}, []string{"kind"}),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "publish_errors_total",
			Help:      "Total number of failed event publishes",
		}),
		Reconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "reconnects_total",
			Help:      "Total number of relay reconnections",
		}),
		OpenSubscriptions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "open_subscriptions",
			Help:      "Current number of open relay subscriptions",
		}),

		// Parsing metrics
		EventsParsed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parsing",
			Name:      "events_parsed_total",
			Help:      "Total number of events parsed successfully by kind",
		}, []string{"kind"}),
		ParseRejects: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parsing",
			Name:      "rejects_total",
			Help:      "Total number of events rejected during parsing by reason",
		}, []string{"kind", "reason"}),
		TaprootFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parsing",
			Name:      "taproot_failures_total",
			Help:      "Total number of events whose taproot commitment did not match their arguments",
		}),

		// Latency metrics
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "request_duration_seconds",
			Help:      "Relay request duration until EOSE or timeout in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		PublishLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "publish_latency_seconds",
			Help:      "Event publish round trip latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Cache metrics
		ParamsCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "order_params_hits_total",
			Help:      "Total number of order parameter lookups served from the store",
		}),
		ParamsCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "order_params_misses_total",
			Help:      "Total number of order parameter lookups that fell back to the relay",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"operation"}),

		// Health metrics
		LastSuccessfulRequest: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_request_timestamp",
			Help:      "Unix timestamp of the last relay request that reached EOSE",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordEventFetched increments the fetched counter for an event kind.
func RecordEventFetched(kind string) {
	DefaultMetrics.EventsFetched.WithLabelValues(kind).Inc()
}

// RecordEventPublished increments the published counter for an event kind.
func RecordEventPublished(kind string) {
	DefaultMetrics.EventsPublished.WithLabelValues(kind).Inc()
}

// RecordEventParsed increments the parsed counter for an event kind.
func RecordEventParsed(kind string) {
	DefaultMetrics.EventsParsed.WithLabelValues(kind).Inc()
}

// RecordParseReject records an event dropped during parsing.
func RecordParseReject(kind, reason string) {
	DefaultMetrics.ParseRejects.WithLabelValues(kind, reason).Inc()
}

// RecordTaprootFailure records an event whose commitment did not verify.
// These are counted separately from ordinary parse rejects because a
// validly signed event with a wrong commitment is a deliberate lie, not
// relay noise.
func RecordTaprootFailure(kind string) {
	DefaultMetrics.TaprootFailures.Inc()
	DefaultMetrics.ParseRejects.WithLabelValues(kind, "taproot_mismatch").Inc()
}

// RecordCacheHit increments the parameter cache hit counter.
func RecordCacheHit() {
	DefaultMetrics.ParamsCacheHits.Inc()
}

// RecordCacheMiss increments the parameter cache miss counter.
func RecordCacheMiss() {
	DefaultMetrics.ParamsCacheMisses.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordRequest records a relay request's duration and health timestamp.
func RecordRequest(operation string, seconds float64, reachedEOSE bool, now int64) {
	DefaultMetrics.RequestDuration.WithLabelValues(operation).Observe(seconds)
	if reachedEOSE {
		DefaultMetrics.LastSuccessfulRequest.Set(float64(now))
	}
}
