package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Assistant metrics
	ActionsDispatched *prometheus.CounterVec
	ActionLatency     *prometheus.HistogramVec
	ChatRequests      *prometheus.CounterVec
	BackendFailures   *prometheus.CounterVec

	// Entity store metrics
	StoreRefreshes    *prometheus.CounterVec
	StoreRefreshStale prometheus.Counter

	// Outbox related metrics
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		ActionsDispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "actions_dispatched_total",
			Help:      "Assistant actions dispatched, by action and outcome",
		}, []string{"action", "outcome"}),

		ActionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "action_duration_seconds",
			Help:      "Assistant action execution latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),

		ChatRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chat_requests_total",
			Help:      "Chat messages routed, by mode",
		}, []string{"mode"}),

		BackendFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "backend_failures_total",
			Help:      "Assistant/retrieval backend failures, by backend",
		}, []string{"backend"}),

		StoreRefreshes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_refreshes_total",
			Help:      "Entity store refreshes, by kind and result",
		}, []string{"kind", "result"}),

		StoreRefreshStale: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_refresh_stale_total",
			Help:      "Refresh failures that left a stale snapshot in place",
		}),

		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_processed_total",
			Help:      "Outbox events published to the broker",
		}),

		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_failed_total",
			Help:      "Outbox events that failed to publish",
		}),

		OutboxProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Outbox batch processing latency",
			Buckets:   prometheus.DefBuckets,
		}),

		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operations_total",
			Help:      "Database operations, by operation and result",
		}, []string{"operation", "result"}),
	}
}
