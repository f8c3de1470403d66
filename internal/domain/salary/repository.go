package salary

import (
	"context"
	"time"
)

type Repository interface {
	// Catalog
	CreateComponent(ctx context.Context, component Component) (Component, error)
	GetComponentByID(ctx context.Context, id string) (Component, error)
	ListComponents(ctx context.Context, activeOnly bool) ([]Component, error)

	// Assignments
	CreateAssignment(ctx context.Context, assignment Assignment) (Assignment, error)
	GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
	ListAssignments(ctx context.Context, employeeID string) ([]Assignment, error)
	EndAssignment(ctx context.Context, id string, endDate time.Time) error

	// ListActive returns the assignments matching filter joined to the catalog, by sort order.
	ListActive(ctx context.Context, filter ActiveFilter) ([]AppliedComponent, error)
}
