package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent      Status = "present"
	StatusAbsent       Status = "absent"
	StatusLate         Status = "late"
	StatusOnLeave      Status = "on_leave"
	StatusBusinessTrip Status = "business_trip"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusOnLeave, StatusBusinessTrip:
		return true
	}
	return false
}

// Attendance is one employee's record for one calendar date.
type Attendance struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	CheckIn       *time.Time
	CheckOut      *time.Time
	Status        Status
	WorkHours     decimal.Decimal
	OvertimeHours decimal.Decimal
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	EmployeeName *string
}

// RangeFilter selects one employee's records with from <= date <= to.
type RangeFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
}

// MonthlyStats counts an employee's records per status for one month.
type MonthlyStats struct {
	EmployeeID    string
	Year          int
	Month         int
	Counts        map[Status]int
	OvertimeHours decimal.Decimal
}
