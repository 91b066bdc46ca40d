// Package metrics defines all custom Prometheus metrics for the task-tracker
// API. It is the single source of truth for metric names, labels, and help
// strings; metrics register themselves with the default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tasktracker"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// UsersRegisteredTotal counts successful registrations.
// Label:
//   - role: "admin", "manager", or "employee"
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of registered users, by role.",
	},
	[]string{"role"},
)

// ── Task metrics ──────────────────────────────────────────────────────────────

// TasksCreatedTotal counts newly created tasks.
// Label:
//   - priority: "low", "medium", or "high"
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by priority.",
	},
	[]string{"priority"},
)

// TasksUpdatedTotal counts task updates.
// Label:
//   - status: the status of the task after the update
var TasksUpdatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_updated_total",
		Help:      "Total number of task updates, by resulting status.",
	},
	[]string{"status"},
)

// ── Broadcast metrics ─────────────────────────────────────────────────────────

// BroadcastEventsTotal counts events published on the broadcast channel.
// Label:
//   - event: "task.created" or "task.updated"
var BroadcastEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_events_total",
		Help:      "Total number of events published to connected clients.",
	},
	[]string{"event"},
)

// BroadcastDroppedTotal counts deliveries dropped because a subscriber's
// buffer was full. Slow clients miss events rather than blocking publishers.
var BroadcastDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_dropped_total",
		Help:      "Total number of per-subscriber deliveries dropped due to a full buffer.",
	},
)

// BroadcastSubscribers tracks the number of currently connected sessions.
var BroadcastSubscribers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "broadcast_subscribers",
		Help:      "Current number of connected broadcast subscribers.",
	},
)
