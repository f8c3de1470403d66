package payroll

import "errors"

var (
	ErrPayrollRecordNotFound = errors.New("payroll record not found")
	ErrPayrollNotDraft       = errors.New("payroll record is not in draft")
	ErrInvalidPeriod         = errors.New("invalid payroll period")
)
