package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
)

type employeeRepository struct {
	db *database.SQLiteDB
}

func NewEmployeeRepository(db *database.SQLiteDB) employee.Directory {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, full_name, employment_status, base_salary, hire_date
		FROM employees
		WHERE id = ?`

	var e employee.Employee
	err := q.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.FullName, &e.EmploymentStatus, &e.BaseSalary, &e.HireDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, full_name, employment_status, base_salary, hire_date
		FROM employees
		WHERE employment_status = ?
		ORDER BY full_name, id`

	rows, err := q.QueryContext(ctx, query, string(employee.EmploymentStatusActive))
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(&e.ID, &e.FullName, &e.EmploymentStatus, &e.BaseSalary, &e.HireDate); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
