package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
)

type leaveBalanceRepository struct {
	db *database.SQLiteDB
}

func NewLeaveBalanceRepository(db *database.SQLiteDB) leave.BalanceRepository {
	return &leaveBalanceRepository{db: db}
}

const leaveBalanceColumns = `
	b.id, b.employee_id, b.leave_type_id, b.year, b.total_days, b.used_days,
	b.remaining_days, b.carried_over_days, b.created_at, b.updated_at, lt.name`

func scanLeaveBalance(scan func(dest ...any) error) (leave.Balance, error) {
	var b leave.Balance
	var typeName sql.NullString
	err := scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year, &b.TotalDays, &b.UsedDays,
		&b.RemainingDays, &b.CarriedOverDays, &b.CreatedAt, &b.UpdatedAt, &typeName,
	)
	if typeName.Valid {
		b.LeaveTypeName = &typeName.String
	}
	return b, err
}

func (r *leaveBalanceRepository) Get(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + leaveBalanceColumns + `
		FROM leave_balances b
		LEFT JOIN leave_types lt ON lt.id = b.leave_type_id
		WHERE b.employee_id = ? AND b.leave_type_id = ? AND b.year = ?`

	b, err := scanLeaveBalance(q.QueryRowContext(ctx, query, employeeID, leaveTypeID, year).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

func (r *leaveBalanceRepository) ListByEmployee(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + leaveBalanceColumns + `
		FROM leave_balances b
		LEFT JOIN leave_types lt ON lt.id = b.leave_type_id
		WHERE b.employee_id = ? AND b.year = ?
		ORDER BY lt.name`

	rows, err := q.QueryContext(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.Balance
	for rows.Next() {
		b, err := scanLeaveBalance(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (r *leaveBalanceRepository) CreateIfAbsent(ctx context.Context, b leave.Balance) (bool, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO leave_balances (id, employee_id, leave_type_id, year, total_days, used_days, remaining_days, carried_over_days)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING`

	if b.ID == "" {
		b.ID = newID()
	}
	res, err := q.ExecContext(ctx, query,
		b.ID, b.EmployeeID, b.LeaveTypeID, b.Year, b.TotalDays, b.UsedDays, b.RemainingDays, b.CarriedOverDays,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create leave balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to create leave balance: %w", err)
	}
	return n == 1, nil
}

func (r *leaveBalanceRepository) UpdateUsage(ctx context.Context, id string, usedDays, remainingDays int) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_balances
		SET used_days = ?, remaining_days = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	res, err := q.ExecContext(ctx, query, usedDays, remainingDays, id)
	if err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	} else if n == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}
