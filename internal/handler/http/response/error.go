package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/salary"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var rejected *leave.RejectedError
	if errors.As(err, &rejected) {
		ValidationError(w, map[string]string{"leave_request": rejected.Reason})
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, "Invalid token")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Conflict(w, "Employee is not active")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollNotDraft):
		Conflict(w, "Payroll record is not in draft")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Salary domain errors
	case errors.Is(err, salary.ErrComponentNotFound):
		NotFound(w, "Salary component not found")
	case errors.Is(err, salary.ErrAssignmentNotFound):
		NotFound(w, "Salary component assignment not found")
	case errors.Is(err, salary.ErrComponentNameExists):
		Conflict(w, "Salary component name already exists")
	case errors.Is(err, salary.ErrComponentInactive):
		Conflict(w, "Salary component is not active")
	case errors.Is(err, salary.ErrInvalidComponentType):
		BadRequest(w, "Invalid component type", nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveTypeInactive):
		Conflict(w, "Leave type is not active")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrFutureDate):
		BadRequest(w, "Attendance date cannot be in the future", nil)

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
