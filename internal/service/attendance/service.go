package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/utils"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// DefaultStandardWorkHours is the working day beyond which hours count as overtime.
var DefaultStandardWorkHours = decimal.NewFromInt(8)

type AttendanceServiceImpl struct {
	db                database.Transactor
	attendanceRepo    attendance.Repository
	employees         employee.Directory
	calendar          utils.Calendar
	observer          audit.Observer
	standardWorkHours decimal.Decimal
}

func NewAttendanceService(
	db database.Transactor,
	attendanceRepo attendance.Repository,
	employees employee.Directory,
	calendar utils.Calendar,
	observer audit.Observer,
	standardWorkHours decimal.Decimal,
) attendance.Service {
	if !standardWorkHours.IsPositive() {
		standardWorkHours = DefaultStandardWorkHours
	}
	return &AttendanceServiceImpl{
		db:                db,
		attendanceRepo:    attendanceRepo,
		employees:         employees,
		calendar:          calendar,
		observer:          observer,
		standardWorkHours: standardWorkHours,
	}
}

// CheckIn implements attendance.Service.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string) (bool, error) {
	if err := s.requireActive(ctx, employeeID); err != nil {
		return false, err
	}

	now := s.calendar.Now()
	record := attendance.Attendance{
		EmployeeID:    employeeID,
		Date:          utils.DateOf(now),
		CheckIn:       &now,
		Status:        attendance.StatusPresent,
		WorkHours:     decimal.Zero,
		OvertimeHours: decimal.Zero,
	}

	var created bool
	err := s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.attendanceRepo.Create(txCtx, record)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to check in: %w", err)
	}
	if !created {
		return false, nil
	}

	s.observer.Record(audit.NewEvent(audit.ActionAttendanceCheckedIn, audit.EntityAttendance, employeeID, employeeID, now).
		With("date", utils.FormatDate(record.Date)))
	return true, nil
}

// CheckOut implements attendance.Service.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string) (bool, error) {
	now := s.calendar.Now()
	today := utils.DateOf(now)

	var closed bool
	var overtime decimal.Decimal
	err := s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		record, err := s.attendanceRepo.GetByEmployeeDate(txCtx, employeeID, today)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return nil
			}
			return err
		}
		if record.CheckOut != nil {
			return nil
		}

		var workHours decimal.Decimal
		workHours, overtime = s.hoursBetween(record.CheckIn, now)
		closed, err = s.attendanceRepo.CloseOpen(txCtx, record.ID, now, workHours, overtime)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to check out: %w", err)
	}
	if !closed {
		return false, nil
	}

	s.observer.Record(audit.NewEvent(audit.ActionAttendanceCheckedOut, audit.EntityAttendance, employeeID, employeeID, now).
		With("date", utils.FormatDate(today)).
		With("overtime_hours", overtime.String()))
	return true, nil
}

// AddManual implements attendance.Service.
func (s *AttendanceServiceImpl) AddManual(ctx context.Context, req attendance.ManualEntryRequest, actorID string) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, err
	}

	record := req.ToAttendance()
	if record.Date.After(s.calendar.Today()) {
		return false, attendance.ErrFutureDate
	}
	if err := s.requireExists(ctx, record.EmployeeID); err != nil {
		return false, err
	}

	if record.CheckIn != nil && record.CheckOut != nil {
		workHours, overtime := s.hoursBetween(record.CheckIn, *record.CheckOut)
		record.WorkHours = workHours
		if req.OvertimeHours == nil {
			record.OvertimeHours = overtime
		}
	}

	var created bool
	err := s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.attendanceRepo.Create(txCtx, record)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to add manual attendance: %w", err)
	}
	if !created {
		return false, nil
	}

	s.observer.Record(audit.NewEvent(audit.ActionAttendanceManualEntry, audit.EntityAttendance, record.EmployeeID, actorID, s.calendar.Now()).
		With("date", req.Date).
		With("status", req.Status))
	return true, nil
}

// hoursBetween returns worked hours and the overtime beyond the standard day, both to 2 decimals.
func (s *AttendanceServiceImpl) hoursBetween(checkIn *time.Time, checkOut time.Time) (decimal.Decimal, decimal.Decimal) {
	if checkIn == nil || checkOut.Before(*checkIn) {
		return decimal.Zero, decimal.Zero
	}
	minutes := int64(checkOut.Sub(*checkIn) / time.Minute)
	worked := decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60)).Round(2)
	overtime := worked.Sub(s.standardWorkHours)
	if overtime.IsNegative() {
		overtime = decimal.Zero
	}
	return worked, overtime
}

// ========== QUERIES ==========

func (s *AttendanceServiceImpl) ListByRange(ctx context.Context, filter attendance.RangeFilter) ([]attendance.Attendance, error) {
	var errs validator.ValidationErrors
	if validator.IsEmpty(filter.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if filter.To.Before(filter.From) {
		errs.Add("to", "to must not be before from")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.ListByRange(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

func (s *AttendanceServiceImpl) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	records, err := s.attendanceRepo.ListByDate(ctx, utils.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

func (s *AttendanceServiceImpl) MonthlyStats(ctx context.Context, employeeID string, year, month int) (attendance.MonthlyStats, error) {
	filter, err := monthFilter(employeeID, year, month)
	if err != nil {
		return attendance.MonthlyStats{}, err
	}

	counts, err := s.attendanceRepo.CountByStatus(ctx, filter)
	if err != nil {
		return attendance.MonthlyStats{}, fmt.Errorf("failed to count attendance: %w", err)
	}
	overtime, err := s.attendanceRepo.SumOvertimeHours(ctx, filter)
	if err != nil {
		return attendance.MonthlyStats{}, fmt.Errorf("failed to sum overtime hours: %w", err)
	}

	return attendance.MonthlyStats{
		EmployeeID:    employeeID,
		Year:          year,
		Month:         month,
		Counts:        counts,
		OvertimeHours: overtime,
	}, nil
}

// OvertimeHours implements attendance.Service. Payroll computation reads this monthly sum.
func (s *AttendanceServiceImpl) OvertimeHours(ctx context.Context, employeeID string, year, month int) (decimal.Decimal, error) {
	filter, err := monthFilter(employeeID, year, month)
	if err != nil {
		return decimal.Zero, err
	}
	hours, err := s.attendanceRepo.SumOvertimeHours(ctx, filter)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum overtime hours: %w", err)
	}
	return hours, nil
}

func monthFilter(employeeID string, year, month int) (attendance.RangeFilter, error) {
	var errs validator.ValidationErrors
	if validator.IsEmpty(employeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if !validator.IsValidPeriod(year, month) {
		errs.Add("period", "invalid year/month")
	}
	if err := errs.Err(); err != nil {
		return attendance.RangeFilter{}, err
	}

	from, next := utils.MonthBounds(year, time.Month(month))
	return attendance.RangeFilter{EmployeeID: employeeID, From: from, To: next.AddDate(0, 0, -1)}, nil
}

func (s *AttendanceServiceImpl) requireExists(ctx context.Context, employeeID string) error {
	_, err := s.getEmployee(ctx, employeeID)
	return err
}

func (s *AttendanceServiceImpl) requireActive(ctx context.Context, employeeID string) error {
	emp, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	if !emp.IsActive() {
		return employee.ErrEmployeeInactive
	}
	return nil
}

func (s *AttendanceServiceImpl) getEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}
