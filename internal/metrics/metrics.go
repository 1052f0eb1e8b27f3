// Package metrics provides Prometheus metrics for CyberGuard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "cyberguard"
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks concurrent HTTP requests.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// FeedStreamsActive tracks open threat feed streams.
	FeedStreamsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "feed_streams_active",
			Help:      "Number of open threat feed SSE streams",
		},
	)
)

// Alert store metrics
var (
	// AlertsInjected counts alerts inserted into the alert store.
	AlertsInjected = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "injected_total",
			Help:      "Total alerts inserted into the alert store",
		},
	)

	// AlertsEvicted counts alerts dropped because the store was at capacity.
	AlertsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "evicted_total",
			Help:      "Total alerts evicted by capacity",
		},
	)

	// AlertsDismissed counts alerts removed by the user.
	AlertsDismissed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "dismissed_total",
			Help:      "Total alerts dismissed",
		},
	)

	// AlertsActive tracks the current alert store size.
	AlertsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "active",
			Help:      "Alerts currently held by the alert store",
		},
	)
)

// Threat feed metrics
var (
	// FeedTicksTotal counts feed entries generated.
	FeedTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "ticks_total",
			Help:      "Total threat feed entries generated",
		},
	)

	// FeedEntriesBySeverity counts generated entries by severity.
	FeedEntriesBySeverity = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "entries_total",
			Help:      "Threat feed entries generated by severity",
		},
		[]string{"severity"},
	)

	// FeedSubscriberDrops counts entries dropped for slow subscribers.
	FeedSubscriberDrops = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "subscriber_drops_total",
			Help:      "Feed entries dropped because a subscriber was not keeping up",
		},
	)
)

// Notification metrics
var (
	// NotificationsUnread tracks unread notifications.
	NotificationsUnread = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "unread",
			Help:      "Unread notifications",
		},
	)
)

// Analysis metrics
var (
	// AnalysisRequestsTotal counts analysis calls by kind and outcome.
	AnalysisRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "requests_total",
			Help:      "Total analysis requests",
		},
		[]string{"kind", "result"}, // result: ok, fallback, cached
	)

	// AnalysisDuration tracks analysis latency.
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Analysis latency in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// AutomatedActionsTotal counts automated responses by trigger.
	AutomatedActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "automated_actions_total",
			Help:      "Automated responses recorded by the threat scanner",
		},
		[]string{"trigger"},
	)
)

// Info metric
var (
	// BuildInfo exposes build information.
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information",
		},
		[]string{"version", "commit", "build_time"},
	)
)

// SetBuildInfo sets the build info metric.
func SetBuildInfo(version, commit, buildTime string) {
	BuildInfo.WithLabelValues(version, commit, buildTime).Set(1)
}
