package attendance

import (
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/utils"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CheckRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *CheckRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	return errs.Err()
}

// ManualEntryRequest is a back-office attendance entry for a past or current date.
type ManualEntryRequest struct {
	EmployeeID    string           `json:"employee_id"`
	Date          string           `json:"date"`
	CheckIn       *string          `json:"check_in,omitempty"`
	CheckOut      *string          `json:"check_out,omitempty"`
	Status        string           `json:"status"`
	OvertimeHours *decimal.Decimal `json:"overtime_hours,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be YYYY-MM-DD")
	}
	if !Status(r.Status).IsValid() {
		errs.Add("status", "invalid attendance status")
	}
	if r.OvertimeHours != nil && !validator.IsNonNegative(*r.OvertimeHours) {
		errs.Add("overtime_hours", "overtime_hours must not be negative")
	}

	var in, out time.Time
	var okIn, okOut bool
	if r.CheckIn != nil {
		if in, okIn = parseDateTime(*r.CheckIn); !okIn {
			errs.Add("check_in", "check_in must be an RFC3339 timestamp")
		}
	}
	if r.CheckOut != nil {
		if out, okOut = parseDateTime(*r.CheckOut); !okOut {
			errs.Add("check_out", "check_out must be an RFC3339 timestamp")
		}
		if r.CheckIn == nil {
			errs.Add("check_out", "check_out requires check_in")
		}
	}
	if okIn && okOut && out.Before(in) {
		errs.Add("check_out", "check_out must not be before check_in")
	}

	return errs.Err()
}

func parseDateTime(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, s)
	return t, err == nil
}

// ToAttendance converts a validated request.
func (r *ManualEntryRequest) ToAttendance() Attendance {
	date, _ := utils.ParseDate(r.Date)
	record := Attendance{
		EmployeeID:    r.EmployeeID,
		Date:          date,
		Status:        Status(r.Status),
		WorkHours:     decimal.Zero,
		OvertimeHours: decimal.Zero,
		Notes:         r.Notes,
	}
	if r.CheckIn != nil {
		in, _ := parseDateTime(*r.CheckIn)
		record.CheckIn = &in
	}
	if r.CheckOut != nil {
		out, _ := parseDateTime(*r.CheckOut)
		record.CheckOut = &out
	}
	if r.OvertimeHours != nil {
		record.OvertimeHours = *r.OvertimeHours
	}
	return record
}

type AttendanceResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  *string         `json:"employee_name,omitempty"`
	Date          string          `json:"date"`
	CheckIn       *time.Time      `json:"check_in,omitempty"`
	CheckOut      *time.Time      `json:"check_out,omitempty"`
	Status        Status          `json:"status"`
	WorkHours     decimal.Decimal `json:"work_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	Notes         *string         `json:"notes,omitempty"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		EmployeeName:  a.EmployeeName,
		Date:          utils.FormatDate(a.Date),
		CheckIn:       a.CheckIn,
		CheckOut:      a.CheckOut,
		Status:        a.Status,
		WorkHours:     a.WorkHours,
		OvertimeHours: a.OvertimeHours,
		Notes:         a.Notes,
	}
}

type MonthlyStatsResponse struct {
	EmployeeID    string          `json:"employee_id"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Counts        map[Status]int  `json:"counts"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
}

func NewMonthlyStatsResponse(s MonthlyStats) MonthlyStatsResponse {
	return MonthlyStatsResponse{
		EmployeeID:    s.EmployeeID,
		Year:          s.Year,
		Month:         s.Month,
		Counts:        s.Counts,
		OvertimeHours: s.OvertimeHours,
	}
}
