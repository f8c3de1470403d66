package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// Employee is the slice of the employee record the payroll and leave core reads.
type Employee struct {
	ID               string
	FullName         string
	EmploymentStatus EmploymentStatus
	BaseSalary       decimal.Decimal
	HireDate         time.Time
}

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}
