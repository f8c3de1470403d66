package payroll

import (
	"context"
	"time"
)

type Repository interface {
	// CreateDraft inserts record unless (employee, year, month) already has one.
	CreateDraft(ctx context.Context, record Record) (bool, error)
	GetByID(ctx context.Context, id string) (Record, error)
	// ListByPeriod returns the period's records ordered by employee name.
	ListByPeriod(ctx context.Context, period Period) ([]Record, error)
	GetDetails(ctx context.Context, payrollID string) ([]Detail, error)

	// SaveComputation writes totals and replaces details while the record is still a draft.
	SaveComputation(ctx context.Context, record Record) (bool, error)

	MarkApproved(ctx context.Context, id, approverID string, at time.Time) (bool, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error)
	MarkCancelled(ctx context.Context, id string, at time.Time) (bool, error)

	Summarize(ctx context.Context, period Period) (Summary, error)
}
