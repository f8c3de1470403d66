package payroll

import "context"

type Service interface {
	// GenerateForPeriod creates and computes a draft for every active employee lacking one.
	GenerateForPeriod(ctx context.Context, period Period, initiatorID string) (int, error)
	// Compute recalculates a draft from scratch; false when the record is not a draft.
	Compute(ctx context.Context, payrollID, actorID string) (bool, error)
	Approve(ctx context.Context, payrollID, approverID string) (bool, error)
	Pay(ctx context.Context, payrollID, actorID string) (bool, error)
	Cancel(ctx context.Context, payrollID, actorID string) (bool, error)

	Get(ctx context.Context, payrollID string) (Record, error)
	ListByPeriod(ctx context.Context, period Period) ([]Record, error)
	Summary(ctx context.Context, period Period) (Summary, error)
}
