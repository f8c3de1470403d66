package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	// CheckIn opens today's record; false when one already exists.
	CheckIn(ctx context.Context, employeeID string) (bool, error)
	// CheckOut closes today's open record; false when there is none or it is already closed.
	CheckOut(ctx context.Context, employeeID string) (bool, error)
	AddManual(ctx context.Context, req ManualEntryRequest, actorID string) (bool, error)

	ListByRange(ctx context.Context, filter RangeFilter) ([]Attendance, error)
	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)
	MonthlyStats(ctx context.Context, employeeID string, year, month int) (MonthlyStats, error)
	OvertimeHours(ctx context.Context, employeeID string, year, month int) (decimal.Decimal, error)
}
