// Package metrics defines and registers all custom Prometheus metrics for the
// hospital portal. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at init via
// promauto, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// RefreshesTotal counts collection refresh batches.
// Label:
//   - result: "applied" (all six fetches succeeded, snapshot swapped) or
//     "discarded" (at least one fetch failed, previous snapshot retained)
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refreshes_total",
		Help:      "Total number of collection refresh batches, by outcome.",
	},
	[]string{"result"},
)

// RefreshDuration measures one refresh batch from fan-out to snapshot swap.
var RefreshDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "refresh_duration_seconds",
		Help:      "Duration of a full six-collection refresh batch.",
		Buckets:   prometheus.DefBuckets,
	},
)

// CommandsTotal counts dispatched mutation commands.
// Labels:
//   - command: the command name (e.g. "admit_from_alert")
//   - result: "ok", "error", or "forbidden" (rejected by the local gate)
var CommandsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_total",
		Help:      "Total number of mutation commands dispatched, by outcome.",
	},
	[]string{"command", "result"},
)

// RoleElevationsTotal counts allowlist-driven role elevations.
var RoleElevationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_elevations_total",
		Help:      "Total number of allowlist-driven elevations to the admin role.",
	},
)

// ActiveSessions tracks whether an orchestrator currently holds a resolved
// identity (1) or is signed out (0).
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Whether the orchestrator holds an authenticated session.",
	},
)
