package leave

import (
	"time"
)

// LeaveType entity
type LeaveType struct {
	ID               string
	Name             string
	DefaultDays      int
	IsPaid           bool
	RequiresApproval bool
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Balance is an employee's allowance of one leave type for one year.
// RemainingDays always equals TotalDays + CarriedOverDays - UsedDays.
type Balance struct {
	ID              string
	EmployeeID      string
	LeaveTypeID     string
	Year            int
	TotalDays       int
	UsedDays        int
	RemainingDays   int
	CarriedOverDays int
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	LeaveTypeName *string
}

// Debit returns b with days moved into UsedDays.
func (b Balance) Debit(days int) (Balance, error) {
	used := b.UsedDays + days
	remaining := b.TotalDays + b.CarriedOverDays - used
	if remaining < 0 {
		return b, ErrInsufficientBalance
	}
	b.UsedDays = used
	b.RemainingDays = remaining
	return b, nil
}

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Request is one leave application. Only a pending request can change status.
type Request struct {
	ID              string
	EmployeeID      string
	LeaveTypeID     string
	StartDate       time.Time
	EndDate         time.Time
	TotalDays       int
	Reason          *string
	Status          Status
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	EmployeeName  *string
	LeaveTypeName *string
}

// OverlapQuery finds an employee's pending or approved requests intersecting [StartDate, EndDate].
type OverlapQuery struct {
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	ExcludeID  string
}
