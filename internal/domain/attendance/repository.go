package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// Create inserts a record unless one already exists for (employee, date); created reports which happened.
	Create(ctx context.Context, record Attendance) (created bool, err error)
	GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)
	// CloseOpen sets check-out on the record only while its check-out is still empty.
	CloseOpen(ctx context.Context, id string, checkOut time.Time, workHours, overtimeHours decimal.Decimal) (bool, error)
	ListByRange(ctx context.Context, filter RangeFilter) ([]Attendance, error)
	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)
	CountByStatus(ctx context.Context, filter RangeFilter) (map[Status]int, error)
	SumOvertimeHours(ctx context.Context, filter RangeFilter) (decimal.Decimal, error)
}
