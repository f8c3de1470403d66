package payroll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/salary"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/utils"
	"github.com/cmlabs-hris/workforce-payroll/internal/repository/sqlite"
	"github.com/cmlabs-hris/workforce-payroll/internal/repository/sqlite/sqlitetest"
	attendanceService "github.com/cmlabs-hris/workforce-payroll/internal/service/attendance"
	salaryService "github.com/cmlabs-hris/workforce-payroll/internal/service/salary"
	"github.com/juju/clock/testclock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testActor = "01930000-0000-7000-8000-0000000000aa"

var november = payroll.Period{Year: 2025, Month: 11}

type eventLog struct {
	mu     sync.Mutex
	events []audit.Event
}

func (l *eventLog) Record(event audit.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) actions() []audit.Action {
	l.mu.Lock()
	defer l.mu.Unlock()
	var actions []audit.Action
	for _, e := range l.events {
		actions = append(actions, e.Action)
	}
	return actions
}

// last returns the most recent event carrying action.
func (l *eventLog) last(action audit.Action) (audit.Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].Action == action {
			return l.events[i], true
		}
	}
	return audit.Event{}, false
}

// failingOvertime fails the overtime lookup for one employee.
type failingOvertime struct {
	attendance.Service
	employeeID string
}

func (f failingOvertime) OvertimeHours(ctx context.Context, employeeID string, year, month int) (decimal.Decimal, error) {
	if employeeID == f.employeeID {
		return decimal.Zero, errors.New("attendance store unavailable")
	}
	return f.Service.OvertimeHours(ctx, employeeID, year, month)
}

type payrollFixture struct {
	db         *database.SQLiteDB
	calendar   utils.Calendar
	events     *eventLog
	salary     salary.Service
	attendance attendance.Service
	service    payroll.Service
}

func newPayrollFixture(t *testing.T) *payrollFixture {
	t.Helper()

	db := sqlitetest.NewStore(t)
	clk := testclock.NewClock(time.Date(2025, 11, 28, 9, 0, 0, 0, time.UTC))
	calendar := utils.NewCalendar(clk, time.UTC)
	events := &eventLog{}
	tx := sqlite.NewTransactor(db)
	employees := sqlite.NewEmployeeRepository(db)

	salarySvc := salaryService.NewSalaryService(tx, sqlite.NewSalaryComponentRepository(db), employees, calendar, events)
	attendanceSvc := attendanceService.NewAttendanceService(tx, sqlite.NewAttendanceRepository(db), employees, calendar, events, decimal.Zero)

	f := &payrollFixture{
		db:         db,
		calendar:   calendar,
		events:     events,
		salary:     salarySvc,
		attendance: attendanceSvc,
	}
	f.service = f.withAttendance(attendanceSvc)
	return f
}

func (f *payrollFixture) withAttendance(attendanceSvc attendance.Service) payroll.Service {
	tx := sqlite.NewTransactor(f.db)
	return NewPayrollService(tx, sqlite.NewPayrollRepository(f.db), sqlite.NewEmployeeRepository(f.db),
		f.salary, attendanceSvc, f.calendar, f.events)
}

func (f *payrollFixture) component(t *testing.T, name string, typ salary.ComponentType, amount, percentage string, sortOrder int) salary.Component {
	t.Helper()
	c, err := f.salary.CreateComponent(context.Background(), salary.CreateComponentRequest{
		Name:       name,
		Type:       string(typ),
		IsFixed:    percentage == "0",
		Amount:     decimal.RequireFromString(amount),
		Percentage: decimal.RequireFromString(percentage),
		SortOrder:  sortOrder,
	}, testActor)
	require.NoError(t, err)
	return c
}

func (f *payrollFixture) assign(t *testing.T, employeeID, componentID string) {
	t.Helper()
	_, err := f.salary.Assign(context.Background(), salary.AssignComponentRequest{
		EmployeeID:  employeeID,
		ComponentID: componentID,
	}, testActor)
	require.NoError(t, err)
}

func (f *payrollFixture) overtime(t *testing.T, employeeID, date, hours string) {
	t.Helper()
	ot := decimal.RequireFromString(hours)
	ok, err := f.attendance.AddManual(context.Background(), attendance.ManualEntryRequest{
		EmployeeID:    employeeID,
		Date:          date,
		Status:        string(attendance.StatusPresent),
		OvertimeHours: &ot,
	}, testActor)
	require.NoError(t, err)
	require.True(t, ok)
}

func (f *payrollFixture) onlyRecord(t *testing.T) payroll.Record {
	t.Helper()
	records, err := f.service.ListByPeriod(context.Background(), november)
	require.NoError(t, err)
	require.Len(t, records, 1)
	record, err := f.service.Get(context.Background(), records[0].ID)
	require.NoError(t, err)
	return record
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

// ===== PAY RATE =====

func TestOvertimeAmount(t *testing.T) {
	basic := decimal.NewFromInt(1200000)

	assertDecimal(t, "5000", HourlyRate(basic))
	assertDecimal(t, "75000", OvertimeAmount(basic, decimal.NewFromInt(10)))
	assertDecimal(t, "0", OvertimeAmount(basic, decimal.Zero))
	assertDecimal(t, "0", OvertimeAmount(basic, decimal.NewFromInt(-3)))
	assertDecimal(t, "6250.01", OvertimeAmount(decimal.NewFromInt(1000001), decimal.NewFromInt(1)))
}

// ===== GENERATION =====

func TestPayrollService_GenerateForPeriod_ComputesTotals(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)

	empID := sqlitetest.InsertEmployee(t, f.db, "Budi Santoso", "1200000")
	transport := f.component(t, "Transport", salary.ComponentTypeAllowance, "200000", "0", 1)
	tax := f.component(t, "Income Tax", salary.ComponentTypeDeduction, "0", "10", 2)
	f.assign(t, empID, transport.ID)
	f.assign(t, empID, tax.ID)
	f.overtime(t, empID, "2025-11-03", "4")
	f.overtime(t, empID, "2025-11-04", "6")
	f.overtime(t, empID, "2025-10-31", "5")

	created, err := f.service.GenerateForPeriod(ctx, november, testActor)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	record := f.onlyRecord(t)
	assert.Equal(t, empID, record.EmployeeID)
	assert.Equal(t, payroll.StatusDraft, record.Status)
	assertDecimal(t, "1200000", record.BasicSalary)
	assertDecimal(t, "200000", record.TotalAllowances)
	assertDecimal(t, "120000", record.TotalDeductions)
	assertDecimal(t, "10", record.OvertimeHours)
	assertDecimal(t, "75000", record.OvertimeAmount)
	assertDecimal(t, "1475000", record.GrossSalary)
	assertDecimal(t, "1355000", record.NetSalary)

	require.Len(t, record.Details, 2)
	assert.Equal(t, "Transport", record.Details[0].ComponentName)
	assertDecimal(t, "200000", record.Details[0].Amount)
	assert.Equal(t, salary.ComponentTypeDeduction, record.Details[1].ComponentType)
	assertDecimal(t, "120000", record.Details[1].Amount)

	assert.Contains(t, f.events.actions(), audit.ActionPayrollComputed)
	assert.Contains(t, f.events.actions(), audit.ActionPayrollGenerated)
}

func TestPayrollService_GenerateForPeriod_SkipsInactiveEmployees(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)

	sqlitetest.InsertEmployee(t, f.db, "Active", "5000000")
	resigned := sqlitetest.InsertEmployee(t, f.db, "Resigned", "5000000")
	sqlitetest.SetEmploymentStatus(t, f.db, resigned, "resigned")

	created, err := f.service.GenerateForPeriod(ctx, november, testActor)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestPayrollService_GenerateForPeriod_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	sqlitetest.InsertEmployee(t, f.db, "Budi Santoso", "1200000")

	created, err := f.service.GenerateForPeriod(ctx, november, testActor)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	record := f.onlyRecord(t)
	ok, err := f.service.Approve(ctx, record.ID, testActor)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.service.Pay(ctx, record.ID, testActor)
	require.NoError(t, err)
	require.True(t, ok)

	created, err = f.service.GenerateForPeriod(ctx, november, testActor)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	again := f.onlyRecord(t)
	assert.Equal(t, record.ID, again.ID)
	assert.Equal(t, payroll.StatusPaid, again.Status)
	assert.NotNil(t, again.PaymentDate)
}

func TestPayrollService_GenerateForPeriod_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)

	sqlitetest.InsertEmployee(t, f.db, "Ani", "4000000")
	broken := sqlitetest.InsertEmployee(t, f.db, "Zaki", "4000000")
	svc := f.withAttendance(failingOvertime{Service: f.attendance, employeeID: broken})

	created, err := svc.GenerateForPeriod(ctx, november, testActor)
	require.Error(t, err)
	assert.Equal(t, 0, created)

	records, err := svc.ListByPeriod(ctx, november)
	require.NoError(t, err)
	assert.Empty(t, records)

	actions := f.events.actions()
	assert.Contains(t, actions, audit.ActionPayrollGenerateFailed)
	assert.NotContains(t, actions, audit.ActionPayrollComputed)
	assert.NotContains(t, actions, audit.ActionPayrollGenerated)
}

func TestPayrollService_GenerateForPeriod_InvalidPeriod(t *testing.T) {
	f := newPayrollFixture(t)

	_, err := f.service.GenerateForPeriod(context.Background(), payroll.Period{Year: 2025, Month: 13}, testActor)
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
}

// ===== COMPUTATION =====

func TestPayrollService_Compute_RebuildsFromZero(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)

	empID := sqlitetest.InsertEmployee(t, f.db, "Budi Santoso", "1200000")
	transport := f.component(t, "Transport", salary.ComponentTypeAllowance, "200000", "0", 1)
	f.assign(t, empID, transport.ID)

	_, err := f.service.GenerateForPeriod(ctx, november, testActor)
	require.NoError(t, err)
	record := f.onlyRecord(t)

	ok, err := f.service.Compute(ctx, record.ID, testActor)
	require.NoError(t, err)
	require.True(t, ok)
	again := f.onlyRecord(t)
	assertDecimal(t, "200000", again.TotalAllowances)
	assertDecimal(t, "1400000", again.GrossSalary)
	assert.Len(t, again.Details, 1)

	meal := f.component(t, "Meal", salary.ComponentTypeAllowance, "50000", "0", 2)
	f.assign(t, empID, meal.ID)
	f.overtime(t, empID, "2025-11-10", "2")

	ok, err = f.service.Compute(ctx, record.ID, testActor)
	require.NoError(t, err)
	require.True(t, ok)
	updated := f.onlyRecord(t)
	assertDecimal(t, "250000", updated.TotalAllowances)
	assertDecimal(t, "15000", updated.OvertimeAmount)
	assertDecimal(t, "1465000", updated.GrossSalary)
	assertDecimal(t, "1465000", updated.NetSalary)
	assert.Len(t, updated.Details, 2)
}

func TestPayrollService_Compute_RecordsActor(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	sqlitetest.InsertEmployee(t, f.db, "Budi Santoso", "1200000")

	_, err := f.service.GenerateForPeriod(ctx, november, testActor)
	require.NoError(t, err)
	record := f.onlyRecord(t)

	const approverID = "01930000-0000-7000-8000-0000000000bb"
	ok, err := f.service.Compute(ctx, record.ID, approverID)
	require.NoError(t, err)
	require.True(t, ok)

	event, found := f.events.last(audit.ActionPayrollComputed)
	require.True(t, found)
	assert.Equal(t, approverID, event.ActorID)
	assert.Equal(t, record.ID, event.EntityID)
}

func TestPayrollService_Compute_LeavesNonDraftAlone(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	sqlitetest.InsertEmployee(t, f.db, "Budi Santoso", "1200000")

	_, err := f.service.GenerateForPeriod(ctx, november, testActor)
	require.NoError(t, err)
	record := f.onlyRecord(t)

	ok, err := f.service.Approve(ctx, record.ID, testActor)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.service.Compute(ctx, record.ID, testActor)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, payroll.StatusApproved, f.onlyRecord(t).Status)
}

func TestPayrollService_Compute_NotFound(t *testing.T) {
	f := newPayrollFixture(t)

	ok, err := f.service.Compute(context.Background(), "missing", testActor)
	assert.False(t, ok)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

// ===== STATUS TRANSITIONS =====

func TestPayrollService_Transitions(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	sqlitetest.InsertEmployee(t, f.db, "Budi Santoso", "1200000")

	_, err := f.service.GenerateForPeriod(ctx, november, testActor)
	require.NoError(t, err)
	id := f.onlyRecord(t).ID

	ok, err := f.service.Pay(ctx, id, testActor)
	require.NoError(t, err)
	assert.False(t, ok, "draft cannot be paid")

	ok, err = f.service.Approve(ctx, id, testActor)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.service.Approve(ctx, id, testActor)
	require.NoError(t, err)
	assert.False(t, ok, "approved cannot be approved again")

	record := f.onlyRecord(t)
	require.NotNil(t, record.ApprovedBy)
	assert.Equal(t, testActor, *record.ApprovedBy)
	assert.NotNil(t, record.ApprovedAt)

	ok, err = f.service.Cancel(ctx, id, testActor)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.service.Cancel(ctx, id, testActor)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.service.Pay(ctx, id, testActor)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, payroll.StatusCancelled, f.onlyRecord(t).Status)
}

func TestPayrollService_Approve_NotFound(t *testing.T) {
	f := newPayrollFixture(t)

	ok, err := f.service.Approve(context.Background(), "missing", testActor)
	assert.False(t, ok)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

// ===== QUERIES =====

func TestPayrollService_Summary(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	sqlitetest.InsertEmployee(t, f.db, "Ani", "3000000")
	sqlitetest.InsertEmployee(t, f.db, "Budi", "2000000")
	sqlitetest.InsertEmployee(t, f.db, "Citra", "1000000")

	_, err := f.service.GenerateForPeriod(ctx, november, testActor)
	require.NoError(t, err)
	records, err := f.service.ListByPeriod(ctx, november)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Ani", *records[0].EmployeeName)

	ok, err := f.service.Approve(ctx, records[0].ID, testActor)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.service.Cancel(ctx, records[2].ID, testActor)
	require.NoError(t, err)
	require.True(t, ok)

	summary, err := f.service.Summary(ctx, november)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.RecordCount)
	assert.Equal(t, 1, summary.StatusCounts[payroll.StatusApproved])
	assert.Equal(t, 1, summary.StatusCounts[payroll.StatusDraft])
	assert.Equal(t, 1, summary.StatusCounts[payroll.StatusCancelled])
	assertDecimal(t, "5000000", summary.TotalGross)
	assertDecimal(t, "5000000", summary.TotalNet)
}
