package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/salary"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pay-rate conventions: a 30-day month of 8-hour days, overtime at 150%.
var (
	daysPerMonth     = decimal.NewFromInt(30)
	hoursPerDay      = decimal.NewFromInt(8)
	overtimePremium  = decimal.NewFromFloat(1.5)
	currencyDecimals = int32(2)
)

type PayrollServiceImpl struct {
	db            database.Transactor
	payrollRepo   payroll.Repository
	employees     employee.Directory
	salarySvc     salary.Service
	attendanceSvc attendance.Service
	calendar      utils.Calendar
	observer      audit.Observer
}

func NewPayrollService(
	db database.Transactor,
	payrollRepo payroll.Repository,
	employees employee.Directory,
	salarySvc salary.Service,
	attendanceSvc attendance.Service,
	calendar utils.Calendar,
	observer audit.Observer,
) payroll.Service {
	return &PayrollServiceImpl{
		db:            db,
		payrollRepo:   payrollRepo,
		employees:     employees,
		salarySvc:     salarySvc,
		attendanceSvc: attendanceSvc,
		calendar:      calendar,
		observer:      observer,
	}
}

// ========== GENERATION ==========

// GenerateForPeriod implements payroll.Service. Drafts are inserted only for employees without
// a record in the period, then every new draft is computed. Any failure rolls back the batch.
func (s *PayrollServiceImpl) GenerateForPeriod(ctx context.Context, period payroll.Period, initiatorID string) (int, error) {
	if err := period.Validate(); err != nil {
		return 0, err
	}

	var computed []payroll.Record
	err := s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		employees, err := s.employees.ListActive(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list active employees: %w", err)
		}

		var createdIDs []string
		for _, emp := range employees {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate payroll id: %w", err)
			}
			draft := payroll.Record{
				ID:              id.String(),
				EmployeeID:      emp.ID,
				PeriodYear:      period.Year,
				PeriodMonth:     period.Month,
				BasicSalary:     emp.BaseSalary,
				TotalAllowances: decimal.Zero,
				TotalDeductions: decimal.Zero,
				OvertimeHours:   decimal.Zero,
				OvertimeAmount:  decimal.Zero,
				GrossSalary:     decimal.Zero,
				NetSalary:       decimal.Zero,
				Status:          payroll.StatusDraft,
				CreatedBy:       &initiatorID,
			}
			created, err := s.payrollRepo.CreateDraft(txCtx, draft)
			if err != nil {
				return fmt.Errorf("failed to create draft for employee %s: %w", emp.ID, err)
			}
			if created {
				createdIDs = append(createdIDs, draft.ID)
			}
		}

		for _, id := range createdIDs {
			record, ok, err := s.compute(txCtx, id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("failed to compute payroll %s: %w", id, payroll.ErrPayrollNotDraft)
			}
			computed = append(computed, record)
		}
		return nil
	})

	now := s.calendar.Now()
	if err != nil {
		s.observer.Record(audit.NewEvent(audit.ActionPayrollGenerateFailed, audit.EntityPayrollPeriod, periodKey(period), initiatorID, now).
			With("year", period.Year).
			With("month", period.Month).
			With("error", err.Error()))
		return 0, fmt.Errorf("failed to generate payroll: %w", err)
	}

	for _, record := range computed {
		s.recordComputed(record, initiatorID)
	}
	s.observer.Record(audit.NewEvent(audit.ActionPayrollGenerated, audit.EntityPayrollPeriod, periodKey(period), initiatorID, now).
		With("year", period.Year).
		With("month", period.Month).
		With("created_count", len(computed)))
	return len(computed), nil
}

// ========== COMPUTATION ==========

// Compute implements payroll.Service.
func (s *PayrollServiceImpl) Compute(ctx context.Context, payrollID, actorID string) (bool, error) {
	var record payroll.Record
	var ok bool
	err := s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		record, ok, err = s.compute(txCtx, payrollID)
		return err
	})
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return false, err
		}
		return false, fmt.Errorf("failed to compute payroll: %w", err)
	}
	if !ok {
		return false, nil
	}

	s.recordComputed(record, actorID)
	return true, nil
}

// compute rebuilds every total from zero so it can run any number of times on a draft.
// ctx must carry the caller's transaction.
func (s *PayrollServiceImpl) compute(ctx context.Context, payrollID string) (payroll.Record, bool, error) {
	record, err := s.payrollRepo.GetByID(ctx, payrollID)
	if err != nil {
		return payroll.Record{}, false, err
	}
	if record.Status != payroll.StatusDraft {
		return record, false, nil
	}

	record.TotalAllowances = decimal.Zero
	record.TotalDeductions = decimal.Zero
	record.OvertimeHours = decimal.Zero
	record.OvertimeAmount = decimal.Zero
	record.Details = nil

	components, err := s.salarySvc.ActiveForEmployee(ctx, record.EmployeeID, s.calendar.Today())
	if err != nil {
		return payroll.Record{}, false, err
	}
	for _, c := range components {
		amount := c.EffectiveAmount(record.BasicSalary)
		switch c.Type {
		case salary.ComponentTypeAllowance:
			record.TotalAllowances = record.TotalAllowances.Add(amount)
		case salary.ComponentTypeDeduction:
			record.TotalDeductions = record.TotalDeductions.Add(amount)
		default:
			continue
		}
		record.Details = append(record.Details, payroll.Detail{
			PayrollID:     record.ID,
			ComponentID:   c.ComponentID,
			ComponentName: c.Name,
			ComponentType: c.Type,
			Amount:        amount,
		})
	}

	hours, err := s.attendanceSvc.OvertimeHours(ctx, record.EmployeeID, record.PeriodYear, record.PeriodMonth)
	if err != nil {
		return payroll.Record{}, false, err
	}
	record.OvertimeHours = hours
	record.OvertimeAmount = OvertimeAmount(record.BasicSalary, hours)

	record.GrossSalary = record.BasicSalary.Add(record.TotalAllowances).Add(record.OvertimeAmount)
	record.NetSalary = record.GrossSalary.Sub(record.TotalDeductions)

	saved, err := s.payrollRepo.SaveComputation(ctx, record)
	if err != nil {
		return payroll.Record{}, false, err
	}
	return record, saved, nil
}

// HourlyRate is basic / 30 / 8.
func HourlyRate(basic decimal.Decimal) decimal.Decimal {
	return basic.Div(daysPerMonth).Div(hoursPerDay)
}

// OvertimeAmount pays hours at 150% of the hourly rate, rounded to currency units.
func OvertimeAmount(basic, hours decimal.Decimal) decimal.Decimal {
	if !hours.IsPositive() {
		return decimal.Zero
	}
	return hours.Mul(HourlyRate(basic)).Mul(overtimePremium).Round(currencyDecimals)
}

func (s *PayrollServiceImpl) recordComputed(record payroll.Record, actorID string) {
	s.observer.Record(audit.NewEvent(audit.ActionPayrollComputed, audit.EntityPayrollRecord, record.ID, actorID, s.calendar.Now()).
		With("employee_id", record.EmployeeID).
		With("period", periodKey(record.Period())).
		With("gross_salary", record.GrossSalary.String()).
		With("net_salary", record.NetSalary.String()))
}

// ========== STATUS TRANSITIONS ==========

// Approve implements payroll.Service. Only a draft can be approved.
func (s *PayrollServiceImpl) Approve(ctx context.Context, payrollID, approverID string) (bool, error) {
	now := s.calendar.Now()
	return s.transition(ctx, payrollID, approverID, audit.ActionPayrollApproved, func(txCtx context.Context) (bool, error) {
		return s.payrollRepo.MarkApproved(txCtx, payrollID, approverID, now)
	})
}

// Pay implements payroll.Service. Only an approved record can be paid.
func (s *PayrollServiceImpl) Pay(ctx context.Context, payrollID, actorID string) (bool, error) {
	now := s.calendar.Now()
	return s.transition(ctx, payrollID, actorID, audit.ActionPayrollPaid, func(txCtx context.Context) (bool, error) {
		return s.payrollRepo.MarkPaid(txCtx, payrollID, now)
	})
}

// Cancel implements payroll.Service. Drafts and approved records can be cancelled.
func (s *PayrollServiceImpl) Cancel(ctx context.Context, payrollID, actorID string) (bool, error) {
	now := s.calendar.Now()
	return s.transition(ctx, payrollID, actorID, audit.ActionPayrollCancelled, func(txCtx context.Context) (bool, error) {
		return s.payrollRepo.MarkCancelled(txCtx, payrollID, now)
	})
}

func (s *PayrollServiceImpl) transition(
	ctx context.Context,
	payrollID, actorID string,
	action audit.Action,
	apply func(txCtx context.Context) (bool, error),
) (bool, error) {
	var record payroll.Record
	var changed bool
	err := s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		record, err = s.payrollRepo.GetByID(txCtx, payrollID)
		if err != nil {
			return err
		}
		changed, err = apply(txCtx)
		return err
	})
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return false, err
		}
		return false, fmt.Errorf("failed to update payroll status: %w", err)
	}
	if !changed {
		return false, nil
	}

	s.observer.Record(audit.NewEvent(action, audit.EntityPayrollRecord, payrollID, actorID, s.calendar.Now()).
		With("employee_id", record.EmployeeID).
		With("period", periodKey(record.Period())).
		With("from_status", string(record.Status)))
	return true, nil
}

// ========== QUERIES ==========

// Get implements payroll.Service. The record is returned with its computed details.
func (s *PayrollServiceImpl) Get(ctx context.Context, payrollID string) (payroll.Record, error) {
	record, err := s.payrollRepo.GetByID(ctx, payrollID)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return payroll.Record{}, err
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	record.Details, err = s.payrollRepo.GetDetails(ctx, payrollID)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to get payroll details: %w", err)
	}
	return record, nil
}

func (s *PayrollServiceImpl) ListByPeriod(ctx context.Context, period payroll.Period) ([]payroll.Record, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	records, err := s.payrollRepo.ListByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	return records, nil
}

func (s *PayrollServiceImpl) Summary(ctx context.Context, period payroll.Period) (payroll.Summary, error) {
	if err := period.Validate(); err != nil {
		return payroll.Summary{}, err
	}
	summary, err := s.payrollRepo.Summarize(ctx, period)
	if err != nil {
		return payroll.Summary{}, fmt.Errorf("failed to summarize payroll: %w", err)
	}
	return summary, nil
}

func periodKey(p payroll.Period) string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
