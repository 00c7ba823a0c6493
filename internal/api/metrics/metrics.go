// Package metrics defines the portal's Prometheus metrics. Everything is
// registered with the default registry through promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/homiin/portal/internal/core/domain"
)

const namespace = "homiin_portal"

// SessionEventsTotal counts authenticator outcomes.
// Labels:
//   - kind: login, login_failed, register, external_login, logout
//   - role: role of the resulting session, empty when none
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of authenticator outcomes, by kind and role.",
	},
	[]string{"kind", "role"},
)

// AuthErrorsTotal counts rejected auth requests.
// Label:
//   - reason: invalid_credentials, email_taken, display_name_taken, persistence
var AuthErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_errors_total",
		Help:      "Total number of auth requests rejected, by reason.",
	},
	[]string{"reason"},
)

// GuardDecisionsTotal counts access guard evaluations.
// Labels:
//   - required_role: none, user, admin
//   - outcome: allow or redirect
//   - location: redirect target, empty on allow
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of access guard decisions.",
	},
	[]string{"required_role", "outcome", "location"},
)

// ObserveSessionEvent is an authenticator observer that feeds SessionEventsTotal.
func ObserveSessionEvent(ev domain.SessionEvent) {
	SessionEventsTotal.WithLabelValues(string(ev.Kind), string(ev.Role)).Inc()
}

// ObserveDecision records one guard evaluation.
func ObserveDecision(route domain.Route, d domain.Decision) {
	GuardDecisionsTotal.WithLabelValues(string(route.RequiredRole), string(d.Outcome), d.Location).Inc()
}
