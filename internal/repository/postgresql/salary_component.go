package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/salary"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryComponentRepositoryImpl struct {
	db *database.DB
}

func NewSalaryComponentRepository(db *database.DB) salary.Repository {
	return &salaryComponentRepositoryImpl{db: db}
}

// ========== CATALOG ==========

const salaryComponentSelect = `
	SELECT id, name, type, is_fixed, amount, percentage, is_active, sort_order, created_at, updated_at
	FROM salary_components
`

func scanSalaryComponent(row pgx.Row) (salary.Component, error) {
	var c salary.Component
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.IsFixed, &c.Amount, &c.Percentage, &c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CreateComponent implements salary.Repository.
func (r *salaryComponentRepositoryImpl) CreateComponent(ctx context.Context, c salary.Component) (salary.Component, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_components (id, name, type, is_fixed, amount, percentage, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	if c.ID == "" {
		c.ID = newID()
	}
	err := q.QueryRow(ctx, query,
		c.ID, c.Name, string(c.Type), c.IsFixed, c.Amount, c.Percentage, c.IsActive, c.SortOrder,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "salary_components_name_key") {
			return salary.Component{}, salary.ErrComponentNameExists
		}
		return salary.Component{}, fmt.Errorf("failed to create salary component: %w", err)
	}

	return c, nil
}

// GetComponentByID implements salary.Repository.
func (r *salaryComponentRepositoryImpl) GetComponentByID(ctx context.Context, id string) (salary.Component, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanSalaryComponent(q.QueryRow(ctx, salaryComponentSelect+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Component{}, salary.ErrComponentNotFound
		}
		return salary.Component{}, fmt.Errorf("failed to get salary component: %w", err)
	}

	return c, nil
}

// ListComponents implements salary.Repository.
func (r *salaryComponentRepositoryImpl) ListComponents(ctx context.Context, activeOnly bool) ([]salary.Component, error) {
	q := GetQuerier(ctx, r.db)

	query := salaryComponentSelect + `
		WHERE ($1 = FALSE OR is_active = TRUE)
		ORDER BY sort_order, name
	`

	rows, err := q.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary components: %w", err)
	}
	defer rows.Close()

	var components []salary.Component
	for rows.Next() {
		c, err := scanSalaryComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary component: %w", err)
		}
		components = append(components, c)
	}

	return components, rows.Err()
}

// ========== ASSIGNMENTS ==========

const assignmentSelect = `
	SELECT esc.id, esc.employee_id, esc.salary_component_id, esc.amount, esc.percentage,
		   esc.effective_date, esc.end_date, esc.is_active, esc.created_at, esc.updated_at, sc.name, sc.type
	FROM employee_salary_components esc
	JOIN salary_components sc ON sc.id = esc.salary_component_id
`

func scanAssignment(row pgx.Row) (salary.Assignment, error) {
	var a salary.Assignment
	var name, componentType string
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.ComponentID, &a.Amount, &a.Percentage,
		&a.EffectiveDate, &a.EndDate, &a.IsActive, &a.CreatedAt, &a.UpdatedAt, &name, &componentType,
	)
	if err != nil {
		return salary.Assignment{}, err
	}
	t := salary.ComponentType(componentType)
	a.ComponentName = &name
	a.ComponentType = &t
	return a, nil
}

// CreateAssignment implements salary.Repository.
func (r *salaryComponentRepositoryImpl) CreateAssignment(ctx context.Context, a salary.Assignment) (salary.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_salary_components
			(id, employee_id, salary_component_id, amount, percentage, effective_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if a.ID == "" {
		a.ID = newID()
	}
	_, err := q.Exec(ctx, query,
		a.ID, a.EmployeeID, a.ComponentID, a.Amount, a.Percentage,
		a.EffectiveDate, a.EndDate, a.IsActive,
	)
	if err != nil {
		return salary.Assignment{}, fmt.Errorf("failed to assign salary component: %w", err)
	}

	return r.GetAssignmentByID(ctx, a.ID)
}

// GetAssignmentByID implements salary.Repository.
func (r *salaryComponentRepositoryImpl) GetAssignmentByID(ctx context.Context, id string) (salary.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAssignment(q.QueryRow(ctx, assignmentSelect+`WHERE esc.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Assignment{}, salary.ErrAssignmentNotFound
		}
		return salary.Assignment{}, fmt.Errorf("failed to get salary assignment: %w", err)
	}

	return a, nil
}

// ListAssignments implements salary.Repository.
func (r *salaryComponentRepositoryImpl) ListAssignments(ctx context.Context, employeeID string) ([]salary.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := assignmentSelect + `
		WHERE esc.employee_id = $1
		ORDER BY sc.sort_order, sc.name, esc.created_at
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary assignments: %w", err)
	}
	defer rows.Close()

	var assignments []salary.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

// EndAssignment implements salary.Repository.
func (r *salaryComponentRepositoryImpl) EndAssignment(ctx context.Context, id string, endDate time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employee_salary_components
		SET end_date = $1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := q.Exec(ctx, query, endDate, id)
	if err != nil {
		return fmt.Errorf("failed to end salary assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrAssignmentNotFound
	}

	return nil
}

// ListActive implements salary.Repository.
func (r *salaryComponentRepositoryImpl) ListActive(ctx context.Context, filter salary.ActiveFilter) ([]salary.AppliedComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT esc.id, sc.id, sc.name, sc.type, esc.amount, esc.percentage, sc.sort_order
		FROM employee_salary_components esc
		JOIN salary_components sc ON sc.id = esc.salary_component_id
		WHERE esc.employee_id = $1
		  AND esc.is_active = TRUE
		  AND (esc.end_date IS NULL OR esc.end_date >= $2)
		ORDER BY sc.sort_order, sc.name, esc.id
	`

	rows, err := q.Query(ctx, query, filter.EmployeeID, filter.AsOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list active salary components: %w", err)
	}
	defer rows.Close()

	var applied []salary.AppliedComponent
	for rows.Next() {
		var c salary.AppliedComponent
		if err := rows.Scan(&c.AssignmentID, &c.ComponentID, &c.Name, &c.Type, &c.Amount, &c.Percentage, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan active salary component: %w", err)
		}
		applied = append(applied, c)
	}

	return applied, rows.Err()
}
