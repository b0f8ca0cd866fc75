// Package metrics defines and registers the custom Prometheus metrics for the
// Natours API. It is the single source of truth for metric names, labels and
// help strings. HTTP request metrics come from echoprometheus; the counters
// here describe authentication and authorization decisions.
//
// All metrics are registered with the default registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "natours"

// ── Gate ──────────────────────────────────────────────────────────────────────

// GateDecisionsTotal counts Gate outcomes on protected routes.
// Label:
//   - result: "allowed", or the rejection reason ("missing_token",
//     "invalid_token", "identity_gone", "password_changed", "error")
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of bearer token checks on protected routes, by result.",
	},
	[]string{"result"},
)

// AuthorizationDenialsTotal counts requests an authenticated identity made
// to a route its role is not allowed on.
// Label:
//   - role: the role of the denied identity
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of requests rejected by role restriction, by role.",
	},
	[]string{"role"},
)

// ── Credentials ───────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login calls.
// Label:
//   - result: "success", "bad_credentials", "invalid_input" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SignupsTotal counts successful account creations.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created.",
	},
)

// PasswordChangesTotal counts successful password updates. Each one
// invalidates every token issued to that identity before it.
var PasswordChangesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_changes_total",
		Help:      "Total number of password changes.",
	},
)

// ── Rate limiting ─────────────────────────────────────────────────────────────

// RateLimitTotal counts rate limiter decisions.
// Label:
//   - result: "allowed", "limited" or "error" (limiter unavailable, request let through)
var RateLimitTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_decisions_total",
		Help:      "Total number of rate limiter decisions, by result.",
	},
	[]string{"result"},
)
