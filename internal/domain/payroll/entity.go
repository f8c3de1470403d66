package payroll

import (
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/salary"
	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusDraft     Status = "draft"
	StatusApproved  Status = "approved"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Period identifies one payroll cycle.
type Period struct {
	Year  int
	Month int
}

// Record - one employee's payroll for one period. Never deleted.
type Record struct {
	ID              string
	EmployeeID      string
	PeriodYear      int
	PeriodMonth     int
	BasicSalary     decimal.Decimal
	TotalAllowances decimal.Decimal
	TotalDeductions decimal.Decimal
	OvertimeHours   decimal.Decimal
	OvertimeAmount  decimal.Decimal
	GrossSalary     decimal.Decimal
	NetSalary       decimal.Decimal
	Status          Status
	PaymentDate     *time.Time
	ApprovedBy      *string
	ApprovedAt      *time.Time
	CreatedBy       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Details []Detail

	// Joined fields
	EmployeeName *string
}

func (r Record) Period() Period {
	return Period{Year: r.PeriodYear, Month: r.PeriodMonth}
}

// Detail is one applied salary component on a computed record.
type Detail struct {
	ID            string
	PayrollID     string
	ComponentID   string
	ComponentName string
	ComponentType salary.ComponentType
	Amount        decimal.Decimal
}

// Summary aggregates a period. Money totals exclude cancelled records.
type Summary struct {
	Period          Period
	RecordCount     int
	StatusCounts    map[Status]int
	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal
}
