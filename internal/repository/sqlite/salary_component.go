package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/salary"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
)

type salaryComponentRepository struct {
	db *database.SQLiteDB
}

func NewSalaryComponentRepository(db *database.SQLiteDB) salary.Repository {
	return &salaryComponentRepository{db: db}
}

// ========== CATALOG ==========

const salaryComponentColumns = `id, name, type, is_fixed, amount, percentage, is_active, sort_order, created_at, updated_at`

func scanSalaryComponent(scan func(dest ...any) error) (salary.Component, error) {
	var c salary.Component
	err := scan(&c.ID, &c.Name, &c.Type, &c.IsFixed, &c.Amount, &c.Percentage, &c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *salaryComponentRepository) CreateComponent(ctx context.Context, c salary.Component) (salary.Component, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO salary_components (id, name, type, is_fixed, amount, percentage, is_active, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	if c.ID == "" {
		c.ID = newID()
	}
	_, err := q.ExecContext(ctx, query, c.ID, c.Name, string(c.Type), c.IsFixed, c.Amount, c.Percentage, c.IsActive, c.SortOrder)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: salary_components.name") {
			return salary.Component{}, salary.ErrComponentNameExists
		}
		return salary.Component{}, fmt.Errorf("failed to create salary component: %w", err)
	}
	return r.GetComponentByID(ctx, c.ID)
}

func (r *salaryComponentRepository) GetComponentByID(ctx context.Context, id string) (salary.Component, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + salaryComponentColumns + ` FROM salary_components WHERE id = ?`

	c, err := scanSalaryComponent(q.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return salary.Component{}, salary.ErrComponentNotFound
		}
		return salary.Component{}, fmt.Errorf("failed to get salary component: %w", err)
	}
	return c, nil
}

func (r *salaryComponentRepository) ListComponents(ctx context.Context, activeOnly bool) ([]salary.Component, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + salaryComponentColumns + ` FROM salary_components`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY sort_order, name`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary components: %w", err)
	}
	defer rows.Close()

	var components []salary.Component
	for rows.Next() {
		c, err := scanSalaryComponent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary component: %w", err)
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

// ========== ASSIGNMENTS ==========

const assignmentColumns = `
	esc.id, esc.employee_id, esc.salary_component_id, esc.amount, esc.percentage,
	esc.effective_date, esc.end_date, esc.is_active, esc.created_at, esc.updated_at, sc.name, sc.type`

func scanAssignment(scan func(dest ...any) error) (salary.Assignment, error) {
	var a salary.Assignment
	var effective, end sql.NullTime
	var name, componentType sql.NullString
	err := scan(
		&a.ID, &a.EmployeeID, &a.ComponentID, &a.Amount, &a.Percentage,
		&effective, &end, &a.IsActive, &a.CreatedAt, &a.UpdatedAt, &name, &componentType,
	)
	if err != nil {
		return salary.Assignment{}, err
	}
	if effective.Valid {
		a.EffectiveDate = &effective.Time
	}
	if end.Valid {
		a.EndDate = &end.Time
	}
	a.ComponentName = nullString(name)
	if componentType.Valid {
		t := salary.ComponentType(componentType.String)
		a.ComponentType = &t
	}
	return a, nil
}

func (r *salaryComponentRepository) CreateAssignment(ctx context.Context, a salary.Assignment) (salary.Assignment, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO employee_salary_components
			(id, employee_id, salary_component_id, amount, percentage, effective_date, end_date, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	if a.ID == "" {
		a.ID = newID()
	}
	_, err := q.ExecContext(ctx, query,
		a.ID, a.EmployeeID, a.ComponentID, a.Amount, a.Percentage,
		nullableDateArg(a.EffectiveDate), nullableDateArg(a.EndDate), a.IsActive,
	)
	if err != nil {
		return salary.Assignment{}, fmt.Errorf("failed to assign salary component: %w", err)
	}
	return r.GetAssignmentByID(ctx, a.ID)
}

func (r *salaryComponentRepository) GetAssignmentByID(ctx context.Context, id string) (salary.Assignment, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + assignmentColumns + `
		FROM employee_salary_components esc
		JOIN salary_components sc ON sc.id = esc.salary_component_id
		WHERE esc.id = ?`

	a, err := scanAssignment(q.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return salary.Assignment{}, salary.ErrAssignmentNotFound
		}
		return salary.Assignment{}, fmt.Errorf("failed to get salary assignment: %w", err)
	}
	return a, nil
}

func (r *salaryComponentRepository) ListAssignments(ctx context.Context, employeeID string) ([]salary.Assignment, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + assignmentColumns + `
		FROM employee_salary_components esc
		JOIN salary_components sc ON sc.id = esc.salary_component_id
		WHERE esc.employee_id = ?
		ORDER BY sc.sort_order, sc.name, esc.created_at`

	rows, err := q.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary assignments: %w", err)
	}
	defer rows.Close()

	var assignments []salary.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *salaryComponentRepository) EndAssignment(ctx context.Context, id string, endDate time.Time) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE employee_salary_components
		SET end_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	res, err := q.ExecContext(ctx, query, dateArg(endDate), id)
	if err != nil {
		return fmt.Errorf("failed to end salary assignment: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to end salary assignment: %w", err)
	} else if n == 0 {
		return salary.ErrAssignmentNotFound
	}
	return nil
}

func (r *salaryComponentRepository) ListActive(ctx context.Context, filter salary.ActiveFilter) ([]salary.AppliedComponent, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT esc.id, sc.id, sc.name, sc.type, esc.amount, esc.percentage, sc.sort_order
		FROM employee_salary_components esc
		JOIN salary_components sc ON sc.id = esc.salary_component_id
		WHERE esc.employee_id = ?
		  AND esc.is_active = 1
		  AND (esc.end_date IS NULL OR esc.end_date >= ?)
		ORDER BY sc.sort_order, sc.name, esc.id`

	rows, err := q.QueryContext(ctx, query, filter.EmployeeID, dateArg(filter.AsOf))
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
