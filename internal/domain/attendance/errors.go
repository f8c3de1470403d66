package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAlreadyCheckedIn   = errors.New("already checked in today")
	ErrNotCheckedIn       = errors.New("not checked in today")
	ErrAlreadyCheckedOut  = errors.New("already checked out today")
	ErrFutureDate         = errors.New("attendance date cannot be in the future")
)
