// Package metrics defines and registers all custom Prometheus metrics for the
// SehatSathi inventory API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry through promauto
// when the package is loaded; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sehatsathi"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - mode: "strict" or "permissive"
//   - result: "ok", "invalid_credentials", "not_approved" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by mode and result.",
	},
	[]string{"mode", "result"},
)

// RegistrationsTotal counts identities created through the public paths.
// Labels:
//   - role: "government", "pharmacy" or "admin"
//   - path: "register" or "signup"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of identities registered, by role and entry path.",
	},
	[]string{"role", "path"},
)

// ── Approval / policy metrics ─────────────────────────────────────────────────

// ApprovalsTotal counts successful approve calls.
var ApprovalsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "approvals_total",
		Help:      "Total number of approve operations that succeeded.",
	},
)

// PolicyDenialsTotal counts requests refused by the access policy.
// Label:
//   - reason: "access_denied" or "approval_required"
var PolicyDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_denials_total",
		Help:      "Total number of requests denied by the access policy.",
	},
	[]string{"reason"},
)

// ── Stock metrics ─────────────────────────────────────────────────────────────

// StockEntriesTotal counts stock add requests that returned an entry id.
// Label:
//   - result: "created" or "replayed" (Idempotency-Key hit)
var StockEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_entries_total",
		Help:      "Total number of stock entries accepted, labelled created/replayed.",
	},
	[]string{"result"},
)

// ── Dashboard metrics ─────────────────────────────────────────────────────────

// DashboardBuildDuration measures how long a dashboard takes to aggregate.
var DashboardBuildDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dashboard_build_duration_seconds",
		Help:      "Duration of dashboard aggregation against the store.",
		Buckets:   prometheus.DefBuckets,
	},
)
