package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/utils"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/validator"
)

const (
	reasonEmployeeRequired  = "employee is required"
	reasonLeaveTypeRequired = "leave type is required"
	reasonInvertedRange     = "start date must not be after end date"
)

type LeaveServiceImpl struct {
	db          database.Transactor
	typeRepo    leave.TypeRepository
	balanceRepo leave.BalanceRepository
	requestRepo leave.RequestRepository
	employees   employee.Directory
	calendar    utils.Calendar
	observer    audit.Observer
}

func NewLeaveService(
	db database.Transactor,
	typeRepo leave.TypeRepository,
	balanceRepo leave.BalanceRepository,
	requestRepo leave.RequestRepository,
	employees employee.Directory,
	calendar utils.Calendar,
	observer audit.Observer,
) leave.Service {
	return &LeaveServiceImpl{
		db:          db,
		typeRepo:    typeRepo,
		balanceRepo: balanceRepo,
		requestRepo: requestRepo,
		employees:   employees,
		calendar:    calendar,
		observer:    observer,
	}
}

// ========== VALIDATION ==========

// Validate implements leave.Service. A failed overlap lookup is reported to the observer
// and treated as no overlap.
func (s *LeaveServiceImpl) Validate(ctx context.Context, req leave.Request) (bool, string) {
	if validator.IsEmpty(req.EmployeeID) {
		return false, reasonEmployeeRequired
	}
	if validator.IsEmpty(req.LeaveTypeID) {
		return false, reasonLeaveTypeRequired
	}
	if req.StartDate.After(req.EndDate) {
		return false, reasonInvertedRange
	}

	existing, err := s.requestRepo.FindOverlapping(ctx, leave.OverlapQuery{
		EmployeeID: req.EmployeeID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		ExcludeID:  req.ID,
	})
	if err != nil {
		s.observer.Record(audit.NewEvent(audit.ActionLeaveOverlapCheckFailed, audit.EntityLeaveRequest, req.ID, req.EmployeeID, s.calendar.Now()).
			With("employee_id", req.EmployeeID).
			With("error", err.Error()))
		return true, ""
	}

	for _, other := range existing {
		if other.Status != leave.StatusPending && other.Status != leave.StatusApproved {
			continue
		}
		if utils.Overlaps(req.StartDate, req.EndDate, other.StartDate, other.EndDate) {
			return false, fmt.Sprintf("dates %s to %s conflict with %s leave request %s (%s to %s)",
				utils.FormatDate(req.StartDate), utils.FormatDate(req.EndDate),
				other.Status, other.ID,
				utils.FormatDate(other.StartDate), utils.FormatDate(other.EndDate))
		}
	}
	return true, ""
}

// ========== LIFECYCLE ==========

// Request implements leave.Service. The request is always filed as pending.
// The overlap check runs before the transaction opens, so a failed lookup cannot poison
// the insert that follows it.
func (s *LeaveServiceImpl) Request(ctx context.Context, req leave.Request) (leave.Request, error) {
	req.ID = ""
	req.Status = leave.StatusPending
	req.ApprovedBy = nil
	req.ApprovedAt = nil
	req.RejectionReason = nil
	req.StartDate = utils.DateOf(req.StartDate)
	req.EndDate = utils.DateOf(req.EndDate)

	if ok, reason := s.Validate(ctx, req); !ok {
		return leave.Request{}, &leave.RejectedError{Reason: reason}
	}

	var created leave.Request
	err := s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.employees.GetByID(txCtx, req.EmployeeID); err != nil {
			return err
		}
		leaveType, err := s.typeRepo.GetByID(txCtx, req.LeaveTypeID)
		if err != nil {
			return err
		}
		if !leaveType.IsActive {
			return leave.ErrLeaveTypeInactive
		}

		req.TotalDays = utils.InclusiveDays(req.StartDate, req.EndDate)
		created, err = s.requestRepo.Create(txCtx, req)
		return err
	})
	if err != nil {
		if isDomainError(err) {
			return leave.Request{}, err
		}
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.observer.Record(audit.NewEvent(audit.ActionLeaveRequested, audit.EntityLeaveRequest, created.ID, created.EmployeeID, s.calendar.Now()).
		With("leave_type_id", created.LeaveTypeID).
		With("start_date", utils.FormatDate(created.StartDate)).
		With("end_date", utils.FormatDate(created.EndDate)).
		With("total_days", created.TotalDays))
	return created, nil
}

// Approve implements leave.Service. The matching balance for the start date's year is
// debited in the same transaction; types without a balance row are not tracked.
// A leave that crosses into the next year is charged in full to the start year's
// balance. It is not split across the two years.
func (s *LeaveServiceImpl) Approve(ctx context.Context, id, approverID string) (bool, error) {
	now := s.calendar.Now()

	var approved bool
	var req leave.Request
	err := s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		req, err = s.requestRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		approved, err = s.requestRepo.Approve(txCtx, id, approverID, now)
		if err != nil || !approved {
			return err
		}

		balance, err := s.balanceRepo.Get(txCtx, req.EmployeeID, req.LeaveTypeID, req.StartDate.Year())
		if err != nil {
			if errors.Is(err, leave.ErrBalanceNotFound) {
				return nil
			}
			return err
		}
		debited, err := balance.Debit(req.TotalDays)
		if err != nil {
			return err
		}
		return s.balanceRepo.UpdateUsage(txCtx, balance.ID, debited.UsedDays, debited.RemainingDays)
	})
	if err != nil {
		if isDomainError(err) {
			return false, err
		}
		return false, fmt.Errorf("failed to approve leave request: %w", err)
	}
	if !approved {
		return false, nil
	}

	s.observer.Record(audit.NewEvent(audit.ActionLeaveApproved, audit.EntityLeaveRequest, id, approverID, now).
		With("employee_id", req.EmployeeID).
		With("total_days", req.TotalDays))
	return true, nil
}

// Reject implements leave.Service.
func (s *LeaveServiceImpl) Reject(ctx context.Context, id, approverID, reason string) (bool, error) {
	now := s.calendar.Now()

	var rejected bool
	err := s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.requestRepo.GetByID(txCtx, id); err != nil {
			return err
		}
		var err error
		rejected, err = s.requestRepo.Reject(txCtx, id, approverID, reason, now)
		return err
	})
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return false, err
		}
		return false, fmt.Errorf("failed to reject leave request: %w", err)
	}
	if !rejected {
		return false, nil
	}

	s.observer.Record(audit.NewEvent(audit.ActionLeaveRejected, audit.EntityLeaveRequest, id, approverID, now).
		With("reason", reason))
	return true, nil
}

// Cancel implements leave.Service. Only a pending request can be cancelled.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, id, actorID string) (bool, error) {
	now := s.calendar.Now()

	var cancelled bool
	err := s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.requestRepo.GetByID(txCtx, id); err != nil {
			return err
		}
		var err error
		cancelled, err = s.requestRepo.Cancel(txCtx, id, now)
		return err
	})
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return false, err
		}
		return false, fmt.Errorf("failed to cancel leave request: %w", err)
	}
	if !cancelled {
		return false, nil
	}

	s.observer.Record(audit.NewEvent(audit.ActionLeaveCancelled, audit.EntityLeaveRequest, id, actorID, now))
	return true, nil
}

// ========== QUERIES ==========

func (s *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.Request{}, err
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return req, nil
}

func (s *LeaveServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Request, error) {
	requests, err := s.requestRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}

func (s *LeaveServiceImpl) ListPending(ctx context.Context) ([]leave.Request, error) {
	requests, err := s.requestRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	return requests, nil
}

func (s *LeaveServiceImpl) ListLeaveTypes(ctx context.Context) ([]leave.LeaveType, error) {
	types, err := s.typeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	return types, nil
}

func (s *LeaveServiceImpl) Balances(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	balances, err := s.balanceRepo.ListByEmployee(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	return balances, nil
}

// ========== BALANCES ==========

// AllocateBalances implements leave.Service. Every active employee gets one row per active
// leave type with a non-zero default; existing rows are left alone.
func (s *LeaveServiceImpl) AllocateBalances(ctx context.Context, year int, actorID string) (int, error) {
	if !validator.IsValidPeriod(year, 1) {
		return 0, validator.ValidationErrors{{Field: "year", Message: "invalid year"}}
	}

	created := 0
	err := s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		employees, err := s.employees.ListActive(txCtx)
		if err != nil {
			return err
		}
		types, err := s.typeRepo.ListActive(txCtx)
		if err != nil {
			return err
		}

		for _, emp := range employees {
			for _, lt := range types {
				if lt.DefaultDays <= 0 {
					continue
				}
				ok, err := s.balanceRepo.CreateIfAbsent(txCtx, leave.Balance{
					EmployeeID:    emp.ID,
					LeaveTypeID:   lt.ID,
					Year:          year,
					TotalDays:     lt.DefaultDays,
					RemainingDays: lt.DefaultDays,
				})
				if err != nil {
					return err
				}
				if ok {
					created++
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to allocate leave balances: %w", err)
	}

	s.observer.Record(audit.NewEvent(audit.ActionLeaveBalancesAllocated, audit.EntityLeaveBalance, fmt.Sprint(year), actorID, s.calendar.Now()).
		With("created_count", created))
	return created, nil
}

func isDomainError(err error) bool {
	var rejected *leave.RejectedError
	return errors.As(err, &rejected) ||
		errors.Is(err, leave.ErrLeaveRequestNotFound) ||
		errors.Is(err, leave.ErrLeaveTypeNotFound) ||
		errors.Is(err, leave.ErrLeaveTypeInactive) ||
		errors.Is(err, leave.ErrInsufficientBalance) ||
		errors.Is(err, employee.ErrEmployeeNotFound)
}
