package leave

import (
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/utils"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/validator"
)

// ========== REQUEST DTOs ==========

type CreateLeaveRequest struct {
	EmployeeID  string  `json:"employee_id"`
	LeaveTypeID string  `json:"leave_type_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Reason      *string `json:"reason,omitempty"`
}

// Validate checks the wire format only; business rules run in the ledger.
func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs.Add("start_date", "start_date must be YYYY-MM-DD")
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs.Add("end_date", "end_date must be YYYY-MM-DD")
	}

	return errs.Err()
}

func (r *CreateLeaveRequest) ToRequest() Request {
	start, _ := utils.ParseDate(r.StartDate)
	end, _ := utils.ParseDate(r.EndDate)
	return Request{
		EmployeeID:  r.EmployeeID,
		LeaveTypeID: r.LeaveTypeID,
		StartDate:   start,
		EndDate:     end,
		Reason:      r.Reason,
	}
}

type RejectLeaveRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectLeaveRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "rejection reason is required")
	}
	return errs.Err()
}

type ValidateResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

type LeaveRequestResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	EmployeeName    *string    `json:"employee_name,omitempty"`
	LeaveTypeID     string     `json:"leave_type_id"`
	LeaveTypeName   *string    `json:"leave_type_name,omitempty"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	TotalDays       int        `json:"total_days"`
	Reason          *string    `json:"reason,omitempty"`
	Status          Status     `json:"status"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func NewLeaveRequestResponse(r Request) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		LeaveTypeID:     r.LeaveTypeID,
		LeaveTypeName:   r.LeaveTypeName,
		StartDate:       utils.FormatDate(r.StartDate),
		EndDate:         utils.FormatDate(r.EndDate),
		TotalDays:       r.TotalDays,
		Reason:          r.Reason,
		Status:          r.Status,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
	}
}

// ========== TYPE & BALANCE DTOs ==========

type LeaveTypeResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	DefaultDays      int    `json:"default_days"`
	IsPaid           bool   `json:"is_paid"`
	RequiresApproval bool   `json:"requires_approval"`
}

func NewLeaveTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:               t.ID,
		Name:             t.Name,
		DefaultDays:      t.DefaultDays,
		IsPaid:           t.IsPaid,
		RequiresApproval: t.RequiresApproval,
	}
}

type BalanceResponse struct {
	LeaveTypeID     string  `json:"leave_type_id"`
	LeaveTypeName   *string `json:"leave_type_name,omitempty"`
	Year            int     `json:"year"`
	TotalDays       int     `json:"total_days"`
	UsedDays        int     `json:"used_days"`
	RemainingDays   int     `json:"remaining_days"`
	CarriedOverDays int     `json:"carried_over_days"`
}

func NewBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		LeaveTypeID:     b.LeaveTypeID,
		LeaveTypeName:   b.LeaveTypeName,
		Year:            b.Year,
		TotalDays:       b.TotalDays,
		UsedDays:        b.UsedDays,
		RemainingDays:   b.RemainingDays,
		CarriedOverDays: b.CarriedOverDays,
	}
}
