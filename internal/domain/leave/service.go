package leave

import "context"

type Service interface {
	// Validate reports whether req may be filed and, if not, why.
	Validate(ctx context.Context, req Request) (bool, string)
	Request(ctx context.Context, req Request) (Request, error)
	Approve(ctx context.Context, id, approverID string) (bool, error)
	Reject(ctx context.Context, id, approverID, reason string) (bool, error)
	Cancel(ctx context.Context, id, actorID string) (bool, error)

	Get(ctx context.Context, id string) (Request, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Request, error)
	ListPending(ctx context.Context) ([]Request, error)

	ListLeaveTypes(ctx context.Context) ([]LeaveType, error)
	Balances(ctx context.Context, employeeID string, year int) ([]Balance, error)
	AllocateBalances(ctx context.Context, year int, actorID string) (int, error)
}
