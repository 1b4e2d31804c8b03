// Package metrics defines and registers all custom Prometheus metrics for the
// LegalVibes practice API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init via promauto and exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "legalvibes"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successful registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of identities registered.",
	},
)

// RefreshesTotal counts token refresh decisions.
// Label:
//   - result: "issued" or "rejected"
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_refreshes_total",
		Help:      "Total number of token refresh requests, by result.",
	},
	[]string{"result"},
)

// ── Entity metrics ────────────────────────────────────────────────────────────

// EntitiesCreatedTotal counts owned entities created.
// Label:
//   - kind: "client", "project" or "document"
var EntitiesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entities_created_total",
		Help:      "Total number of owned entities created, by kind.",
	},
	[]string{"kind"},
)

// IdempotentReplaysTotal counts creates answered from a remembered Idempotency-Key.
// Label:
//   - kind: "client" or "project"
var IdempotentReplaysTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of create requests replayed from an idempotency key.",
	},
	[]string{"kind"},
)

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivityQueueDepth tracks the number of entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts entries dropped because their worker channel was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity entries dropped on a full queue.",
	},
)

// ActivityPersistDuration measures how long a single entry takes to persist.
// Label:
//   - result: "ok" or "error"
var ActivityPersistDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_persist_duration_seconds",
		Help:      "Duration of activity persistence from dequeue to write.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"result"},
)
