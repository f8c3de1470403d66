package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/observer"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/sse"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/utils"
	"github.com/cmlabs-hris/workforce-payroll/internal/repository/sqlite"
	"github.com/cmlabs-hris/workforce-payroll/internal/repository/sqlite/sqlitetest"
	attendanceService "github.com/cmlabs-hris/workforce-payroll/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/workforce-payroll/internal/service/leave"
	payrollService "github.com/cmlabs-hris/workforce-payroll/internal/service/payroll"
	salaryService "github.com/cmlabs-hris/workforce-payroll/internal/service/salary"
	"github.com/go-chi/chi/v5"
	"github.com/juju/clock/testclock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret = "test-secret-key-for-jwt"
	managerID         = "01930000-0000-7000-8000-0000000000cc"
	adminID           = "01930000-0000-7000-8000-0000000000dd"
)

type testServer struct {
	router *chi.Mux
	db     *database.SQLiteDB
	jwt    jwt.Service
	hub    *sse.Hub
	events EventsHandler
	empID  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := sqlitetest.NewStore(t)
	clk := testclock.NewClock(time.Date(2025, 11, 28, 2, 0, 0, 0, time.UTC))
	calendar := utils.NewCalendar(clk, time.UTC)
	hub := sse.NewHub()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observer.NewMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(metrics)
	obs := audit.Multi{observer.NewLogger(logger), metrics, observer.NewBroadcaster(hub)}

	tx := sqlite.NewTransactor(db)
	employees := sqlite.NewEmployeeRepository(db)
	salarySvc := salaryService.NewSalaryService(tx, sqlite.NewSalaryComponentRepository(db), employees, calendar, obs)
	attendanceSvc := attendanceService.NewAttendanceService(tx, sqlite.NewAttendanceRepository(db), employees, calendar, obs, decimal.Zero)
	leaveSvc := leaveService.NewLeaveService(tx, sqlite.NewLeaveTypeRepository(db), sqlite.NewLeaveBalanceRepository(db),
		sqlite.NewLeaveRequestRepository(db), employees, calendar, obs)
	payrollSvc := payrollService.NewPayrollService(tx, sqlite.NewPayrollRepository(db), employees, salarySvc, attendanceSvc, calendar, obs)

	jwtSvc := jwt.NewJWTService(handlerTestSecret, time.Hour)
	events := NewEventsHandler(hub, jwtSvc)
	router := NewRouter(logger, []string{"http://localhost:3000"}, jwtSvc, registry, Handlers{
		Payroll:    NewPayrollHandler(payrollSvc),
		Salary:     NewSalaryHandler(salarySvc, calendar),
		Leave:      NewLeaveHandler(leaveSvc, calendar),
		Attendance: NewAttendanceHandler(attendanceSvc),
		Events:     events,
	})

	return &testServer{
		router: router,
		db:     db,
		jwt:    jwtSvc,
		hub:    hub,
		events: events,
		empID:  sqlitetest.InsertEmployee(t, db, "Budi Santoso", "1200000"),
	}
}

func (s *testServer) token(t *testing.T, actorID string, role jwt.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(actorID, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// ===== HANDLER TESTS =====

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp["success"].(bool))
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/api/v1/leave/types", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	sseToken, _, err := s.jwt.GenerateSSEToken(managerID)
	require.NoError(t, err)
	w, _ = s.do(t, http.MethodGet, "/api/v1/leave/types", sseToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "stream tokens are not access tokens")
}

func TestPayrollHandler_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, adminID, jwt.RoleAdmin)
	manager := s.token(t, managerID, jwt.RoleManager)
	staff := s.token(t, s.empID, jwt.RoleEmployee)

	w, _ := s.do(t, http.MethodPost, "/api/v1/payroll/periods/2025/11/generate", staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp := s.do(t, http.MethodPost, "/api/v1/payroll/periods/2025/11/generate", admin, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(1), resp["data"].(map[string]interface{})["created_count"])

	w, _ = s.do(t, http.MethodGet, "/api/v1/payroll/periods/2025/11", staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = s.do(t, http.MethodGet, "/api/v1/payroll/periods/2025/11", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	records := resp["data"].([]interface{})
	require.Len(t, records, 1)
	record := records[0].(map[string]interface{})
	assert.Equal(t, "draft", record["status"])
	assert.Equal(t, "1200000", record["net_salary"])
	id := record["id"].(string)

	w, resp = s.do(t, http.MethodGet, "/api/v1/payroll/"+id, staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, s.empID, resp["data"].(map[string]interface{})["employee_id"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/payroll/"+id+"/approve", staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = s.do(t, http.MethodPost, "/api/v1/payroll/"+id+"/approve", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "approved", data["status"])
	assert.Equal(t, managerID, data["approved_by"])

	w, resp = s.do(t, http.MethodPost, "/api/v1/payroll/"+id+"/approve", manager, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, resp["success"].(bool))

	w, _ = s.do(t, http.MethodPost, "/api/v1/payroll/"+id+"/pay", manager, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = s.do(t, http.MethodGet, "/api/v1/payroll/periods/2025/11/summary", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), summary["record_count"])
	assert.Equal(t, float64(1), summary["status_counts"].(map[string]interface{})["paid"])
}

func TestPayrollHandler_Errors(t *testing.T) {
	s := newTestServer(t)
	manager := s.token(t, managerID, jwt.RoleManager)

	w, _ := s.do(t, http.MethodGet, "/api/v1/payroll/periods/2025/13", manager, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := s.do(t, http.MethodGet, "/api/v1/payroll/missing", manager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", resp["error"].(map[string]interface{})["code"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/payroll/missing/compute", manager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeaveHandler_RequestAndApprove(t *testing.T) {
	s := newTestServer(t)
	staff := s.token(t, s.empID, jwt.RoleEmployee)
	manager := s.token(t, managerID, jwt.RoleManager)
	admin := s.token(t, adminID, jwt.RoleAdmin)

	w, _ := s.do(t, http.MethodPost, "/api/v1/leave/balances/allocate?year=2025", admin, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	body := map[string]string{
		"employee_id":   s.empID,
		"leave_type_id": sqlitetest.AnnualLeaveTypeID,
		"start_date":    "2025-11-10",
		"end_date":      "2025-11-14",
	}
	w, resp := s.do(t, http.MethodPost, "/api/v1/leave/requests", staff, body)
	require.Equal(t, http.StatusCreated, w.Code)
	created := resp["data"].(map[string]interface{})
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, float64(5), created["total_days"])
	id := created["id"].(string)

	body["start_date"], body["end_date"] = "2025-11-13", "2025-11-20"
	w, resp = s.do(t, http.MethodPost, "/api/v1/leave/requests/validate", staff, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, resp["data"].(map[string]interface{})["valid"].(bool))

	w, resp = s.do(t, http.MethodPost, "/api/v1/leave/requests", staff, body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	details := resp["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Contains(t, details["leave_request"], id)

	w, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests/"+id+"/approve", staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = s.do(t, http.MethodPost, "/api/v1/leave/requests/"+id+"/approve", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "approved", resp["data"].(map[string]interface{})["status"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests/"+id+"/reject", manager, map[string]string{"reason": "late"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, resp = s.do(t, http.MethodGet, "/api/v1/employees/"+s.empID+"/leave-balances?year=2025", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, raw := range resp["data"].([]interface{}) {
		b := raw.(map[string]interface{})
		if b["leave_type_id"] == sqlitetest.AnnualLeaveTypeID {
			assert.Equal(t, float64(5), b["used_days"])
			assert.Equal(t, float64(16), b["remaining_days"])
		}
	}
}

func TestLeaveHandler_InvalidBody(t *testing.T) {
	s := newTestServer(t)
	staff := s.token(t, s.empID, jwt.RoleEmployee)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leave/requests", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+staff)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := s.do(t, http.MethodPost, "/api/v1/leave/requests", staff, map[string]string{"start_date": "tomorrow"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp["error"].(map[string]interface{})["code"])
}

func TestAttendanceHandler_CheckInOut(t *testing.T) {
	s := newTestServer(t)
	staff := s.token(t, s.empID, jwt.RoleEmployee)
	manager := s.token(t, managerID, jwt.RoleManager)

	w, _ := s.do(t, http.MethodPost, "/api/v1/attendance/check-in", staff, map[string]string{"employee_id": s.empID})
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/attendance/check-in", staff, map[string]string{"employee_id": s.empID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/attendance?date=2025-11-28", staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp := s.do(t, http.MethodGet, "/api/v1/attendance?date=2025-11-28", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"], 1)

	w, _ = s.do(t, http.MethodGet, "/api/v1/attendance?date=28-11-2025", manager, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, resp = s.do(t, http.MethodGet, "/api/v1/employees/"+s.empID+"/attendance/stats/2025/11", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	counts := resp["data"].(map[string]interface{})["counts"].(map[string]interface{})
	assert.Equal(t, float64(1), counts["present"])
}

func TestSalaryHandler_Components(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, adminID, jwt.RoleAdmin)
	staff := s.token(t, s.empID, jwt.RoleEmployee)

	component := map[string]interface{}{"name": "Transport", "type": "allowance", "is_fixed": true, "amount": "200000"}
	w, _ := s.do(t, http.MethodPost, "/api/v1/salary/components", staff, component)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp := s.do(t, http.MethodPost, "/api/v1/salary/components", admin, component)
	require.Equal(t, http.StatusCreated, w.Code)
	componentID := resp["data"].(map[string]interface{})["id"].(string)

	w, _ = s.do(t, http.MethodPost, "/api/v1/salary/components", admin, component)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/salary/assignments", admin, map[string]string{
		"employee_id":  s.empID,
		"component_id": componentID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp = s.do(t, http.MethodGet, "/api/v1/employees/"+s.empID+"/salary-components/active?as_of=2025-11-28", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	active := resp["data"].([]interface{})
	require.Len(t, active, 1)
	assert.Equal(t, "Transport", active[0].(map[string]interface{})["name"])
}

func TestRouter_EmployeesActOnlyForThemselves(t *testing.T) {
	s := newTestServer(t)
	otherID := sqlitetest.InsertEmployee(t, s.db, "Rina Wijaya", "1500000")
	staff := s.token(t, s.empID, jwt.RoleEmployee)
	other := s.token(t, otherID, jwt.RoleEmployee)
	manager := s.token(t, managerID, jwt.RoleManager)
	admin := s.token(t, adminID, jwt.RoleAdmin)

	body := map[string]string{
		"employee_id":   otherID,
		"leave_type_id": sqlitetest.SickLeaveTypeID,
		"start_date":    "2025-12-01",
		"end_date":      "2025-12-02",
	}
	w, resp := s.do(t, http.MethodPost, "/api/v1/leave/requests", staff, body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", resp["error"].(map[string]interface{})["code"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests/validate", staff, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = s.do(t, http.MethodPost, "/api/v1/leave/requests", other, body)
	require.Equal(t, http.StatusCreated, w.Code)
	id := resp["data"].(map[string]interface{})["id"].(string)

	w, _ = s.do(t, http.MethodGet, "/api/v1/leave/requests/"+id, staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests/"+id+"/cancel", staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = s.do(t, http.MethodGet, "/api/v1/leave/requests/"+id, other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", resp["data"].(map[string]interface{})["status"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests/missing/cancel", staff, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/attendance/check-in", staff, map[string]string{"employee_id": otherID})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(t, http.MethodPost, "/api/v1/attendance/check-out", staff, map[string]string{"employee_id": otherID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	for _, path := range []string{
		"/salary-components",
		"/salary-components/active",
		"/leave-requests",
		"/leave-balances",
		"/attendance?from=2025-11-01&to=2025-11-30",
		"/attendance/stats/2025/11",
	} {
		w, _ = s.do(t, http.MethodGet, "/api/v1/employees/"+otherID+path, staff, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}

	w, _ = s.do(t, http.MethodGet, "/api/v1/employees/"+s.empID+"/leave-requests", staff, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/api/v1/employees/"+otherID+"/leave-requests", manager, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/payroll/periods/2025/11/generate", admin, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w, resp = s.do(t, http.MethodGet, "/api/v1/payroll/periods/2025/11", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, raw := range resp["data"].([]interface{}) {
		record := raw.(map[string]interface{})
		if record["employee_id"] == otherID {
			w, _ = s.do(t, http.MethodGet, "/api/v1/payroll/"+record["id"].(string), staff, nil)
			assert.Equal(t, http.StatusForbidden, w.Code)
		}
	}

	w, resp = s.do(t, http.MethodPost, "/api/v1/leave/requests/"+id+"/cancel", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", resp["data"].(map[string]interface{})["status"])
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, adminID, jwt.RoleAdmin)

	w, _ := s.do(t, http.MethodPost, "/api/v1/payroll/periods/2025/11/generate", admin, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `workforce_audit_events_total{action="payroll.generated",topic="payroll"} 1`)
}

// ===== EVENT STREAM =====

func TestEventsHandler_Token(t *testing.T) {
	s := newTestServer(t)
	manager := s.token(t, managerID, jwt.RoleManager)

	w, resp := s.do(t, http.MethodGet, "/api/v1/events/token", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(300), data["expires_in"])

	actorID, err := s.jwt.ValidateSSEToken(data["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, managerID, actorID)
}

func TestEventsHandler_Token_ApproversOnly(t *testing.T) {
	s := newTestServer(t)
	staff := s.token(t, s.empID, jwt.RoleEmployee)

	w, resp := s.do(t, http.MethodGet, "/api/v1/events/token", staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, resp["data"])
}

func TestEventsHandler_Stream_RejectsAccessToken(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?token="+s.token(t, managerID, jwt.RoleManager), nil)
	w := httptest.NewRecorder()
	s.events.Stream(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	w = httptest.NewRecorder()
	s.events.Stream(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEventsHandler_Stream_DeliversTopic(t *testing.T) {
	s := newTestServer(t)
	token, _, err := s.jwt.GenerateSSEToken(managerID)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?topic=payroll&token="+token, nil).WithContext(ctx)
	w := &streamRecorder{rec: httptest.NewRecorder()}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.events.Stream(w, req)
	}()

	require.Eventually(t, func() bool { return s.hub.SubscriberCount("payroll") == 1 }, time.Second, 5*time.Millisecond)
	s.hub.Publish(sse.Event{Topic: "leave", Event: "leave.requested", Data: map[string]string{"id": "ignored"}})
	s.hub.Publish(sse.Event{Topic: "payroll", Event: "payroll.approved", Data: map[string]string{"id": "p-1"}})

	require.Eventually(t, func() bool {
		return strings.Contains(w.String(), "payroll.approved")
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	body := w.String()
	assert.Equal(t, "text/event-stream", w.rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, "event: payroll.approved\ndata: {\"id\":\"p-1\"}")
	assert.NotContains(t, body, "leave.requested")
	assert.Zero(t, s.hub.SubscriberCount("payroll"))
}

// streamRecorder guards the body so the test can poll it while the stream writes.
type streamRecorder struct {
	mu  sync.Mutex
	rec *httptest.ResponseRecorder
}

func (s *streamRecorder) Header() http.Header { return s.rec.Header() }

func (s *streamRecorder) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Write(b)
}

func (s *streamRecorder) WriteHeader(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.WriteHeader(code)
}

func (s *streamRecorder) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.Flush()
}

func (s *streamRecorder) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Body.String()
}
