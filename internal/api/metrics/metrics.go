// Package metrics defines and registers the custom Prometheus metrics of the
// auth service. It is the single source of truth for metric names, labels and
// help strings. Collectors register with the default registry on import.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/99minutos/auth-service/internal/core/domain"
)

const namespace = "auth"

// ── Credential metrics ────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: see Result
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: see Result
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// ── Token metrics ─────────────────────────────────────────────────────────────

// TokenVerificationsTotal counts access-token checks made by the authorization
// gate and the verify endpoint.
// Label:
//   - result: see Result
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of access token verifications, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts access-token rotations.
// Label:
//   - result: see Result
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of access token refreshes, by result.",
	},
	[]string{"result"},
)

// ── Role metrics ──────────────────────────────────────────────────────────────

// RolePromotionsTotal counts promote-to-admin requests.
// Label:
//   - result: see Result
var RolePromotionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_promotions_total",
		Help:      "Total number of promote-to-admin requests, by result.",
	},
	[]string{"result"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// UserCacheLookupsTotal counts user cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var UserCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_cache_lookups_total",
		Help:      "Total number of user cache lookups, by result.",
	},
	[]string{"result"},
)

// Result maps an outcome of the auth core to a result label:
// "ok", "bad_request", "unauthorized", "forbidden", "not_found", "conflict"
// or "error".
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidInput):
		return "bad_request"
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidCredentialPair):
		return "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrRoleConflict),
		errors.Is(err, domain.ErrAlreadyPrivileged):
		return "conflict"
	default:
		return "error"
	}
}
