package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentType enum
type ComponentType string

const (
	ComponentTypeAllowance ComponentType = "allowance"
	ComponentTypeDeduction ComponentType = "deduction"
)

func (t ComponentType) IsValid() bool {
	return t == ComponentTypeAllowance || t == ComponentTypeDeduction
}

// Component - catalog definition of an allowance or deduction
type Component struct {
	ID         string
	Name       string
	Type       ComponentType
	IsFixed    bool
	Amount     decimal.Decimal
	Percentage decimal.Decimal
	IsActive   bool
	SortOrder  int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Assignment - component assigned to one employee with an optional validity window
type Assignment struct {
	ID            string
	EmployeeID    string
	ComponentID   string
	Amount        decimal.Decimal
	Percentage    decimal.Decimal
	EffectiveDate *time.Time
	EndDate       *time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	ComponentName *string
	ComponentType *ComponentType
}

// AppliedComponent is an active assignment joined to its catalog definition.
type AppliedComponent struct {
	AssignmentID string
	ComponentID  string
	Name         string
	Type         ComponentType
	Amount       decimal.Decimal
	Percentage   decimal.Decimal
	SortOrder    int
}

var hundred = decimal.NewFromInt(100)

// EffectiveAmount is the fixed amount when one is set, otherwise the percentage of base
// rounded to currency minor units.
func (c AppliedComponent) EffectiveAmount(base decimal.Decimal) decimal.Decimal {
	if c.Amount.IsPositive() {
		return c.Amount
	}
	return base.Mul(c.Percentage).Div(hundred).Round(2)
}

// ActiveFilter selects the assignments in force for an employee on a given day.
type ActiveFilter struct {
	EmployeeID string
	AsOf       time.Time
}
