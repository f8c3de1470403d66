package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestAs(t *testing.T, actorID string, role jwt.Role) *http.Request {
	t.Helper()
	auth := jwtauth.New("HS256", []byte("middleware-secret"), nil)
	token, _, err := auth.Encode(map[string]interface{}{"actor_id": actorID, "role": string(role)})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	return r.WithContext(jwtauth.NewContext(r.Context(), token, nil))
}

func TestCanActFor(t *testing.T) {
	tests := []struct {
		name       string
		actorID    string
		role       jwt.Role
		employeeID string
		want       bool
	}{
		{name: "employee for self", actorID: "emp-1", role: jwt.RoleEmployee, employeeID: "emp-1", want: true},
		{name: "employee for another", actorID: "emp-1", role: jwt.RoleEmployee, employeeID: "emp-2", want: false},
		{name: "employee with empty target", actorID: "emp-1", role: jwt.RoleEmployee, employeeID: "", want: false},
		{name: "manager for another", actorID: "mgr-1", role: jwt.RoleManager, employeeID: "emp-2", want: true},
		{name: "system for another", actorID: "system", role: jwt.RoleSystem, employeeID: "emp-2", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := requestAs(t, tt.actorID, tt.role)
			assert.Equal(t, tt.want, CanActFor(r, tt.employeeID))
		})
	}
}

func TestCanActFor_NoToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, CanActFor(r, ""))
	assert.Equal(t, jwt.Role(""), RoleFromContext(r))
}
