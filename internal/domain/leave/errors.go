package leave

import (
	"errors"
)

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrLeaveTypeInactive    = errors.New("leave type is not active")
	ErrBalanceNotFound      = errors.New("leave balance not found")
	ErrInsufficientBalance  = errors.New("insufficient leave balance")
	ErrInvalidLeaveRequest  = errors.New("invalid leave request")
)

// RejectedError carries the reason a request failed validation.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return "leave request rejected: " + e.Reason
}

func (e *RejectedError) Unwrap() error {
	return ErrInvalidLeaveRequest
}
