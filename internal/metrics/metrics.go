package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScanRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expiry_scan_runs_total",
			Help: "Total number of scheduled expiry scans, by job name",
		},
		[]string{"job"},
	)

	ScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "expiry_scan_duration_seconds",
			Help: "Duration of scheduled expiry scans in seconds",
		},
		[]string{"job"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Notification records created, by type",
		},
		[]string{"type"},
	)

	NotificationsSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_suppressed_total",
			Help: "Notification creations suppressed by the dedup window, by type",
		},
		[]string{"type"},
	)

	PushDispatchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_dispatch_failures_total",
			Help: "Failed push dispatches, by transport",
		},
		[]string{"transport"},
	)

	ItemsMarkedExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fridge_items_marked_expired_total",
			Help: "Fridge items transitioned to EXPIRED by the scheduler",
		},
	)
)
