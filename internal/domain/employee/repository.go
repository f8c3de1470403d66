package employee

import "context"

// Directory is read-only access to employees. Employee maintenance lives outside this service.
type Directory interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// ListActive returns active employees ordered by full name.
	ListActive(ctx context.Context) ([]Employee, error)
}
