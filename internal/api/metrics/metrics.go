// Package metrics defines and registers all custom Prometheus metrics for the
// cat registry API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catapi"

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful registrations.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user accounts created.",
	},
)

// AuthFailuresTotal counts rejected bearer tokens and logins.
// Label:
//   - reason: "missing_header", "malformed_header", "invalid_token", "revoked", "bad_credentials"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed authentication attempts, by reason.",
	},
	[]string{"reason"},
)

// ── Cat metrics ───────────────────────────────────────────────────────────────

// CatsCreatedTotal counts newly created cats.
var CatsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cats_created_total",
		Help:      "Total number of cats created.",
	},
)

// OwnershipDenialsTotal counts requests rejected with 403.
// Label:
//   - route: the matched route path (e.g. "/cats/:id")
var OwnershipDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ownership_denials_total",
		Help:      "Total number of cat mutations rejected by ownership or role checks.",
	},
	[]string{"route"},
)

// ── Owner cleanup metrics ─────────────────────────────────────────────────────

// CascadeDeletedCatsTotal counts cats removed because their owner was deleted.
var CascadeDeletedCatsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_deleted_cats_total",
		Help:      "Total number of cats removed after their owner deleted their account.",
	},
)

// CleanupQueueDepth tracks pending owner ids in each cleanup worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var CleanupQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cleanup_queue_depth",
		Help:      "Current number of owner ids pending in each cleanup worker channel.",
	},
	[]string{"worker_id"},
)
