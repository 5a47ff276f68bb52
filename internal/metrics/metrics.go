package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routine_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "routine_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// Storage metrics
	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "routine_storage_operation_duration_seconds",
			Help:    "Duration of key-value storage operations",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5},
		},
		[]string{"operation"},
	)

	// Task metrics
	TaskOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routine_task_operations_total",
			Help: "Total number of task store mutations",
		},
		[]string{"operation"}, // add, edit, delete, toggle, reorder, template, suggestion
	)

	// Reminder metrics
	RemindersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routine_reminders_total",
			Help: "Task reminders by lifecycle event",
		},
		[]string{"event"}, // scheduled, skipped, fired, cancelled
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routine_notifications_total",
			Help: "Notifications by delivery result",
		},
		[]string{"result"}, // delivered, suppressed, failed
	)

	TrackerUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routine_tracker_updates_total",
			Help: "Saved tracker records by tracker",
		},
		[]string{"tracker"}, // mood, journal, health, water, focus, settings
	)
)

// TrackStorageOperation starts a timer for a storage call; call ObserveDuration when done.
func TrackStorageOperation(operation string) *prometheus.Timer {
	return prometheus.NewTimer(StorageOperationDuration.WithLabelValues(operation))
}

func TrackTaskOperation(operation string) {
	TaskOperationsTotal.WithLabelValues(operation).Inc()
}

func TrackReminder(event string) {
	RemindersTotal.WithLabelValues(event).Inc()
}

func TrackNotification(result string) {
	NotificationsTotal.WithLabelValues(result).Inc()
}

func TrackTrackerUpdate(tracker string) {
	TrackerUpdatesTotal.WithLabelValues(tracker).Inc()
}

// ObserveHTTPRequest records one finished HTTP request.
func ObserveHTTPRequest(method, path, status string, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
