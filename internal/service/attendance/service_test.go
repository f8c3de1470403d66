package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/utils"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/validator"
	"github.com/cmlabs-hris/workforce-payroll/internal/repository/sqlite"
	"github.com/cmlabs-hris/workforce-payroll/internal/repository/sqlite/sqlitetest"
	"github.com/juju/clock/testclock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type attendanceFixture struct {
	db      *database.SQLiteDB
	clock   *testclock.Clock
	events  []audit.Event
	service attendance.Service
	empID   string
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()
	db := sqlitetest.NewStore(t)
	// 08:00 in Jakarta
	clk := testclock.NewClock(time.Date(2025, 11, 17, 1, 0, 0, 0, time.UTC))
	wib := time.FixedZone("WIB", 7*60*60)

	f := &attendanceFixture{
		db:    db,
		clock: clk,
		empID: sqlitetest.InsertEmployee(t, db, "Dewi Lestari", "6000000"),
	}
	f.service = NewAttendanceService(
		sqlite.NewTransactor(db),
		sqlite.NewAttendanceRepository(db),
		sqlite.NewEmployeeRepository(db),
		utils.NewCalendar(clk, wib),
		audit.ObserverFunc(func(e audit.Event) { f.events = append(f.events, e) }),
		decimal.Zero,
	)
	return f
}

func (f *attendanceFixture) today(t *testing.T) attendance.Attendance {
	t.Helper()
	records, err := f.service.ListByDate(context.Background(), time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, records, 1)
	return records[0]
}

func manual(empID, date, status string) attendance.ManualEntryRequest {
	return attendance.ManualEntryRequest{EmployeeID: empID, Date: date, Status: status}
}

func TestAttendanceService_CheckInOut(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	ok, err := f.service.CheckIn(ctx, f.empID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.service.CheckIn(ctx, f.empID)
	require.NoError(t, err)
	assert.False(t, ok, "second check-in on the same day")

	f.clock.Advance(10*time.Hour + 30*time.Minute)

	ok, err = f.service.CheckOut(ctx, f.empID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.service.CheckOut(ctx, f.empID)
	require.NoError(t, err)
	assert.False(t, ok, "already checked out")

	record := f.today(t)
	assert.Equal(t, attendance.StatusPresent, record.Status)
	require.NotNil(t, record.CheckIn)
	require.NotNil(t, record.CheckOut)
	assert.True(t, decimal.RequireFromString("10.5").Equal(record.WorkHours), record.WorkHours.String())
	assert.True(t, decimal.RequireFromString("2.5").Equal(record.OvertimeHours), record.OvertimeHours.String())

	require.Len(t, f.events, 2)
	assert.Equal(t, audit.ActionAttendanceCheckedIn, f.events[0].Action)
	assert.Equal(t, audit.ActionAttendanceCheckedOut, f.events[1].Action)
}

func TestAttendanceService_CheckOut_WithoutCheckIn(t *testing.T) {
	f := newAttendanceFixture(t)

	ok, err := f.service.CheckOut(context.Background(), f.empID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.events)
}

func TestAttendanceService_CheckIn_Employee(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	_, err := f.service.CheckIn(ctx, "01930000-0000-7000-8000-00000000ffff")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	sqlitetest.SetEmploymentStatus(t, f.db, f.empID, string(employee.EmploymentStatusTerminated))
	_, err = f.service.CheckIn(ctx, f.empID)
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestAttendanceService_AddManual(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	in := "2025-11-14T08:00:00+07:00"
	out := "2025-11-14T18:15:00+07:00"
	req := manual(f.empID, "2025-11-14", string(attendance.StatusLate))
	req.CheckIn = &in
	req.CheckOut = &out

	ok, err := f.service.AddManual(ctx, req, "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.service.AddManual(ctx, req, "admin")
	require.NoError(t, err)
	assert.False(t, ok, "one record per employee and date")

	records, err := f.service.ListByRange(ctx, attendance.RangeFilter{
		EmployeeID: f.empID,
		From:       time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, decimal.RequireFromString("10.25").Equal(records[0].WorkHours))
	assert.True(t, decimal.RequireFromString("2.25").Equal(records[0].OvertimeHours))
}

func TestAttendanceService_AddManual_Rejects(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	_, err := f.service.AddManual(ctx, manual(f.empID, "2025-11-18", string(attendance.StatusPresent)), "admin")
	assert.ErrorIs(t, err, attendance.ErrFutureDate)

	_, err = f.service.AddManual(ctx, manual(f.empID, "18/11/2025", "sleeping"), "admin")
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "date")
	assert.Contains(t, verrs.ToMap(), "status")

	// the calendar's today is 2025-11-17 in WIB
	ok, err := f.service.AddManual(ctx, manual(f.empID, "2025-11-17", string(attendance.StatusPresent)), "admin")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAttendanceService_MonthlyStats(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	entries := []struct {
		date, status, overtime string
	}{
		{"2025-11-03", "present", "1.5"},
		{"2025-11-04", "present", "2"},
		{"2025-11-05", "late", "0"},
		{"2025-11-06", "absent", "0"},
		{"2025-10-31", "present", "4"},
	}
	for _, e := range entries {
		req := manual(f.empID, e.date, e.status)
		ot := decimal.RequireFromString(e.overtime)
		req.OvertimeHours = &ot
		ok, err := f.service.AddManual(ctx, req, "admin")
		require.NoError(t, err)
		require.True(t, ok)
	}

	stats, err := f.service.MonthlyStats(ctx, f.empID, 2025, 11)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Counts[attendance.StatusPresent])
	assert.Equal(t, 1, stats.Counts[attendance.StatusLate])
	assert.Equal(t, 1, stats.Counts[attendance.StatusAbsent])
	assert.True(t, decimal.RequireFromString("3.5").Equal(stats.OvertimeHours))

	hours, err := f.service.OvertimeHours(ctx, f.empID, 2025, 10)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(4).Equal(hours))

	_, err = f.service.MonthlyStats(ctx, f.empID, 2025, 0)
	assert.Error(t, err)
}
