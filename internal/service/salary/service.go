package salary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/salary"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/utils"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/validator"
)

type SalaryServiceImpl struct {
	db         database.Transactor
	salaryRepo salary.Repository
	employees  employee.Directory
	calendar   utils.Calendar
	observer   audit.Observer
}

func NewSalaryService(
	db database.Transactor,
	salaryRepo salary.Repository,
	employees employee.Directory,
	calendar utils.Calendar,
	observer audit.Observer,
) salary.Service {
	return &SalaryServiceImpl{
		db:         db,
		salaryRepo: salaryRepo,
		employees:  employees,
		calendar:   calendar,
		observer:   observer,
	}
}

// ========== CATALOG ==========

// CreateComponent implements salary.Service.
func (s *SalaryServiceImpl) CreateComponent(ctx context.Context, req salary.CreateComponentRequest, actorID string) (salary.Component, error) {
	if err := req.Validate(); err != nil {
		return salary.Component{}, err
	}

	component := salary.Component{
		Name:       strings.TrimSpace(req.Name),
		Type:       salary.ComponentType(req.Type),
		IsFixed:    req.IsFixed,
		Amount:     req.Amount,
		Percentage: req.Percentage,
		IsActive:   true,
		SortOrder:  req.SortOrder,
	}

	var created salary.Component
	err := s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.salaryRepo.CreateComponent(txCtx, component)
		return err
	})
	if err != nil {
		if errors.Is(err, salary.ErrComponentNameExists) {
			return salary.Component{}, err
		}
		return salary.Component{}, fmt.Errorf("failed to create salary component: %w", err)
	}

	s.observer.Record(audit.NewEvent(audit.ActionSalaryComponentCreated, audit.EntitySalaryComponent, created.ID, actorID, s.calendar.Now()).
		With("name", created.Name).
		With("type", string(created.Type)))
	return created, nil
}

func (s *SalaryServiceImpl) ListComponents(ctx context.Context, activeOnly bool) ([]salary.Component, error) {
	components, err := s.salaryRepo.ListComponents(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary components: %w", err)
	}
	return components, nil
}

// ========== ASSIGNMENTS ==========

// Assign implements salary.Service. Amount and percentage default to the catalog values.
func (s *SalaryServiceImpl) Assign(ctx context.Context, req salary.AssignComponentRequest, actorID string) (salary.Assignment, error) {
	if err := req.Validate(); err != nil {
		return salary.Assignment{}, err
	}

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return salary.Assignment{}, err
		}
		return salary.Assignment{}, fmt.Errorf("failed to get employee: %w", err)
	}

	component, err := s.salaryRepo.GetComponentByID(ctx, req.ComponentID)
	if err != nil {
		if errors.Is(err, salary.ErrComponentNotFound) {
			return salary.Assignment{}, err
		}
		return salary.Assignment{}, fmt.Errorf("failed to get salary component: %w", err)
	}
	if !component.IsActive {
		return salary.Assignment{}, salary.ErrComponentInactive
	}

	assignment := salary.Assignment{
		EmployeeID:  req.EmployeeID,
		ComponentID: component.ID,
		Amount:      component.Amount,
		Percentage:  component.Percentage,
		IsActive:    true,
	}
	if req.Amount != nil {
		assignment.Amount = *req.Amount
	}
	if req.Percentage != nil {
		assignment.Percentage = *req.Percentage
	}
	if req.EffectiveDate != nil {
		d, _ := utils.ParseDate(*req.EffectiveDate)
		assignment.EffectiveDate = &d
	}
	if req.EndDate != nil {
		d, _ := utils.ParseDate(*req.EndDate)
		assignment.EndDate = &d
	}

	var created salary.Assignment
	err = s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.salaryRepo.CreateAssignment(txCtx, assignment)
		return err
	})
	if err != nil {
		return salary.Assignment{}, fmt.Errorf("failed to assign salary component: %w", err)
	}

	s.observer.Record(audit.NewEvent(audit.ActionSalaryComponentAssigned, audit.EntitySalaryAssignment, created.ID, actorID, s.calendar.Now()).
		With("employee_id", created.EmployeeID).
		With("component_id", created.ComponentID))
	return created, nil
}

// EndAssignment implements salary.Service.
func (s *SalaryServiceImpl) EndAssignment(ctx context.Context, assignmentID string, endDate time.Time, actorID string) error {
	endDate = utils.DateOf(endDate)

	err := s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		assignment, err := s.salaryRepo.GetAssignmentByID(txCtx, assignmentID)
		if err != nil {
			return err
		}
		if assignment.EffectiveDate != nil && endDate.Before(*assignment.EffectiveDate) {
			return validator.ValidationErrors{{Field: "end_date", Message: "end_date must not be before effective_date"}}
		}
		return s.salaryRepo.EndAssignment(txCtx, assignmentID, endDate)
	})
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.Is(err, salary.ErrAssignmentNotFound) || errors.As(err, &verrs) {
			return err
		}
		return fmt.Errorf("failed to end salary assignment: %w", err)
	}

	s.observer.Record(audit.NewEvent(audit.ActionSalaryAssignmentEnded, audit.EntitySalaryAssignment, assignmentID, actorID, s.calendar.Now()).
		With("end_date", utils.FormatDate(endDate)))
	return nil
}

func (s *SalaryServiceImpl) ListAssignments(ctx context.Context, employeeID string) ([]salary.Assignment, error) {
	assignments, err := s.salaryRepo.ListAssignments(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary assignments: %w", err)
	}
	return assignments, nil
}

// ActiveForEmployee implements salary.Service.
func (s *SalaryServiceImpl) ActiveForEmployee(ctx context.Context, employeeID string, asOf time.Time) ([]salary.AppliedComponent, error) {
	applied, err := s.salaryRepo.ListActive(ctx, salary.ActiveFilter{
		EmployeeID: employeeID,
		AsOf:       utils.DateOf(asOf),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list active salary components: %w", err)
	}
	return applied, nil
}
