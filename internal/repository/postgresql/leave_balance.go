package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const leaveBalanceSelect = `
	SELECT b.id, b.employee_id, b.leave_type_id, b.year, b.total_days, b.used_days,
		   b.remaining_days, b.carried_over_days, b.created_at, b.updated_at, lt.name
	FROM leave_balances b
	LEFT JOIN leave_types lt ON lt.id = b.leave_type_id
`

func scanLeaveBalance(row pgx.Row) (leave.Balance, error) {
	var b leave.Balance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year, &b.TotalDays, &b.UsedDays,
		&b.RemainingDays, &b.CarriedOverDays, &b.CreatedAt, &b.UpdatedAt, &b.LeaveTypeName,
	)
	return b, err
}

// Get implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := leaveBalanceSelect + `WHERE b.employee_id = $1 AND b.leave_type_id = $2 AND b.year = $3`

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return b, nil
}

// ListByEmployee implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := leaveBalanceSelect + `
		WHERE b.employee_id = $1 AND b.year = $2
		ORDER BY lt.name
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.Balance
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// CreateIfAbsent implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) CreateIfAbsent(ctx context.Context, b leave.Balance) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (id, employee_id, leave_type_id, year, total_days, used_days, remaining_days, carried_over_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING
	`

	if b.ID == "" {
		b.ID = newID()
	}
	tag, err := q.Exec(ctx, query,
		b.ID, b.EmployeeID, b.LeaveTypeID, b.Year, b.TotalDays, b.UsedDays, b.RemainingDays, b.CarriedOverDays,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create leave balance: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// UpdateUsage implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) UpdateUsage(ctx context.Context, id string, usedDays, remainingDays int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_days = $1, remaining_days = $2, updated_at = NOW()
		WHERE id = $3
	`

	tag, err := q.Exec(ctx, query, usedDays, remainingDays, id)
	if err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}

	return nil
}
