package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// ActorFromContext returns the actor_id claim of the verified token, or "".
func ActorFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if actorID, ok := claims["actor_id"].(string); ok {
		return actorID
	}
	return ""
}

// RoleFromContext returns the role claim of the verified token, or "".
func RoleFromContext(r *http.Request) jwt.Role {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if role, ok := claims["role"].(string); ok {
		return jwt.Role(role)
	}
	return ""
}

// CanActFor reports whether the caller may read or file records owned by employeeID.
// Approver roles act for anyone; everyone else only for themselves.
func CanActFor(r *http.Request, employeeID string) bool {
	if RoleFromContext(r).CanApprove() {
		return true
	}
	actorID := ActorFromContext(r)
	return actorID != "" && actorID == employeeID
}
