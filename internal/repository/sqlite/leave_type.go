package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
)

type leaveTypeRepository struct {
	db *database.SQLiteDB
}

func NewLeaveTypeRepository(db *database.SQLiteDB) leave.TypeRepository {
	return &leaveTypeRepository{db: db}
}

const leaveTypeColumns = `id, name, default_days, is_paid, requires_approval, is_active, created_at, updated_at`

func scanLeaveType(scan func(dest ...any) error) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := scan(&lt.ID, &lt.Name, &lt.DefaultDays, &lt.IsPaid, &lt.RequiresApproval, &lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt)
	return lt, err
}

func (r *leaveTypeRepository) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + leaveTypeColumns + ` FROM leave_types WHERE id = ?`

	lt, err := scanLeaveType(q.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	return lt, nil
}

func (r *leaveTypeRepository) ListActive(ctx context.Context) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + leaveTypeColumns + ` FROM leave_types WHERE is_active = 1 ORDER BY name`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		lt, err := scanLeaveType(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}
