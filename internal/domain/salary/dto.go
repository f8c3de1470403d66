package salary

import (
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/utils"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== COMPONENT DTOs ==========

type CreateComponentRequest struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"` // "allowance" or "deduction"
	IsFixed    bool            `json:"is_fixed"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
	SortOrder  int             `json:"sort_order"`
}

func (r *CreateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if !ComponentType(r.Type).IsValid() {
		errs.Add("type", "type must be 'allowance' or 'deduction'")
	}
	if !validator.IsNonNegative(r.Amount) {
		errs.Add("amount", "amount must not be negative")
	}
	if !validator.IsPercentage(r.Percentage) {
		errs.Add("percentage", "percentage must be between 0 and 100")
	}
	if r.IsFixed && !r.Percentage.IsZero() {
		errs.Add("percentage", "fixed components carry an amount, not a percentage")
	}

	return errs.Err()
}

type ComponentResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Type       ComponentType   `json:"type"`
	IsFixed    bool            `json:"is_fixed"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
	IsActive   bool            `json:"is_active"`
	SortOrder  int             `json:"sort_order"`
}

func NewComponentResponse(c Component) ComponentResponse {
	return ComponentResponse{
		ID:         c.ID,
		Name:       c.Name,
		Type:       c.Type,
		IsFixed:    c.IsFixed,
		Amount:     c.Amount,
		Percentage: c.Percentage,
		IsActive:   c.IsActive,
		SortOrder:  c.SortOrder,
	}
}

// ========== ASSIGNMENT DTOs ==========

type AssignComponentRequest struct {
	EmployeeID    string           `json:"employee_id"`
	ComponentID   string           `json:"component_id"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Percentage    *decimal.Decimal `json:"percentage,omitempty"`
	EffectiveDate *string          `json:"effective_date,omitempty"`
	EndDate       *string          `json:"end_date,omitempty"`
}

func (r *AssignComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.ComponentID) {
		errs.Add("component_id", "component_id is required")
	}
	if r.Amount != nil && !validator.IsNonNegative(*r.Amount) {
		errs.Add("amount", "amount must not be negative")
	}
	if r.Percentage != nil && !validator.IsPercentage(*r.Percentage) {
		errs.Add("percentage", "percentage must be between 0 and 100")
	}

	var effective, end time.Time
	var okEffective, okEnd bool
	if r.EffectiveDate != nil {
		if effective, okEffective = validator.IsValidDate(*r.EffectiveDate); !okEffective {
			errs.Add("effective_date", "effective_date must be YYYY-MM-DD")
		}
	}
	if r.EndDate != nil {
		if end, okEnd = validator.IsValidDate(*r.EndDate); !okEnd {
			errs.Add("end_date", "end_date must be YYYY-MM-DD")
		}
	}
	if okEffective && okEnd && end.Before(effective) {
		errs.Add("end_date", "end_date must not be before effective_date")
	}

	return errs.Err()
}

type EndAssignmentRequest struct {
	EndDate string `json:"end_date"`
}

func (r *EndAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs.Add("end_date", "end_date must be YYYY-MM-DD")
	}
	return errs.Err()
}

type AssignmentResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	ComponentID   string          `json:"component_id"`
	ComponentName *string         `json:"component_name,omitempty"`
	ComponentType *ComponentType  `json:"component_type,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Percentage    decimal.Decimal `json:"percentage"`
	EffectiveDate *string         `json:"effective_date,omitempty"`
	EndDate       *string         `json:"end_date,omitempty"`
	IsActive      bool            `json:"is_active"`
}

func NewAssignmentResponse(a Assignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		ComponentID:   a.ComponentID,
		ComponentName: a.ComponentName,
		ComponentType: a.ComponentType,
		Amount:        a.Amount,
		Percentage:    a.Percentage,
		IsActive:      a.IsActive,
	}
	if a.EffectiveDate != nil {
		s := utils.FormatDate(*a.EffectiveDate)
		resp.EffectiveDate = &s
	}
	if a.EndDate != nil {
		s := utils.FormatDate(*a.EndDate)
		resp.EndDate = &s
	}
	return resp
}

type AppliedComponentResponse struct {
	AssignmentID string          `json:"assignment_id"`
	ComponentID  string          `json:"component_id"`
	Name         string          `json:"name"`
	Type         ComponentType   `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Percentage   decimal.Decimal `json:"percentage"`
}

func NewAppliedComponentResponse(c AppliedComponent) AppliedComponentResponse {
	return AppliedComponentResponse{
		AssignmentID: c.AssignmentID,
		ComponentID:  c.ComponentID,
		Name:         c.Name,
		Type:         c.Type,
		Amount:       c.Amount,
		Percentage:   c.Percentage,
	}
}
