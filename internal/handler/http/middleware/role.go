package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-payroll/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

// RequireApprover requires a role that may approve payroll and leave
func RequireApprover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Approver access required")
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.Forbidden(w, "Approver access required")
			return
		}

		if !jwt.Role(roleStr).CanApprove() {
			response.Forbidden(w, "Approver access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin requires the admin or system role
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Admin access required")
			return
		}

		roleStr, _ := claims["role"].(string)
		role := jwt.Role(roleStr)
		if role != jwt.RoleAdmin && role != jwt.RoleSystem {
			response.Forbidden(w, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireSelfOrApprover guards routes scoped by the {employeeID} URL parameter
func RequireSelfOrApprover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !CanActFor(r, chi.URLParam(r, "employeeID")) {
			response.Forbidden(w, "Access to another employee's records is not allowed")
			return
		}

		next.ServeHTTP(w, r)
	})
}
