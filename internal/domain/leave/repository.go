package leave

import (
	"context"
	"time"
)

type TypeRepository interface {
	GetByID(ctx context.Context, id string) (LeaveType, error)
	// ListActive returns active leave types ordered by name.
	ListActive(ctx context.Context) ([]LeaveType, error)
}

type BalanceRepository interface {
	Get(ctx context.Context, employeeID, leaveTypeID string, year int) (Balance, error)
	ListByEmployee(ctx context.Context, employeeID string, year int) ([]Balance, error)
	// CreateIfAbsent inserts unless (employee, leave type, year) already has a row.
	CreateIfAbsent(ctx context.Context, balance Balance) (bool, error)
	UpdateUsage(ctx context.Context, id string, usedDays, remainingDays int) error
}

type RequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Request, error)
	// ListPending returns pending requests, oldest first.
	ListPending(ctx context.Context) ([]Request, error)
	FindOverlapping(ctx context.Context, q OverlapQuery) ([]Request, error)

	// The transitions below update only a pending row and report whether one was updated.
	Approve(ctx context.Context, id, approverID string, at time.Time) (bool, error)
	Reject(ctx context.Context, id, approverID, reason string, at time.Time) (bool, error)
	Cancel(ctx context.Context, id string, at time.Time) (bool, error)
}
