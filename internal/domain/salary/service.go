package salary

import (
	"context"
	"time"
)

type Service interface {
	CreateComponent(ctx context.Context, req CreateComponentRequest, actorID string) (Component, error)
	ListComponents(ctx context.Context, activeOnly bool) ([]Component, error)

	Assign(ctx context.Context, req AssignComponentRequest, actorID string) (Assignment, error)
	EndAssignment(ctx context.Context, assignmentID string, endDate time.Time, actorID string) error
	ListAssignments(ctx context.Context, employeeID string) ([]Assignment, error)

	// ActiveForEmployee returns the components that apply to the employee on asOf.
	ActiveForEmployee(ctx context.Context, employeeID string, asOf time.Time) ([]AppliedComponent, error)
}
