package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
)

type leaveRequestRepository struct {
	db *database.SQLiteDB
}

func NewLeaveRequestRepository(db *database.SQLiteDB) leave.RequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.leave_type_id, lr.start_date, lr.end_date, lr.total_days, lr.reason,
	lr.status, lr.approved_by, lr.approved_at, lr.rejection_reason, lr.created_at, lr.updated_at,
	e.full_name, lt.name`

const leaveRequestFrom = `
	FROM leave_requests lr
	LEFT JOIN employees e ON e.id = lr.employee_id
	LEFT JOIN leave_types lt ON lt.id = lr.leave_type_id`

func scanLeaveRequest(scan func(dest ...any) error) (leave.Request, error) {
	var lr leave.Request
	var reason, approvedBy, rejectionReason, employeeName, typeName sql.NullString
	var approvedAt sql.NullTime
	err := scan(
		&lr.ID, &lr.EmployeeID, &lr.LeaveTypeID, &lr.StartDate, &lr.EndDate, &lr.TotalDays, &reason,
		&lr.Status, &approvedBy, &approvedAt, &rejectionReason, &lr.CreatedAt, &lr.UpdatedAt,
		&employeeName, &typeName,
	)
	if err != nil {
		return leave.Request{}, err
	}
	lr.Reason = nullString(reason)
	lr.ApprovedBy = nullString(approvedBy)
	lr.RejectionReason = nullString(rejectionReason)
	lr.EmployeeName = nullString(employeeName)
	lr.LeaveTypeName = nullString(typeName)
	if approvedAt.Valid {
		lr.ApprovedAt = &approvedAt.Time
	}
	return lr, nil
}

func (r *leaveRequestRepository) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO leave_requests (id, employee_id, leave_type_id, start_date, end_date, total_days, reason, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	if req.ID == "" {
		req.ID = newID()
	}
	_, err := q.ExecContext(ctx, query,
		req.ID, req.EmployeeID, req.LeaveTypeID, dateArg(req.StartDate), dateArg(req.EndDate),
		req.TotalDays, req.Reason, string(req.Status),
	)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return r.GetByID(ctx, req.ID)
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + leaveRequestColumns + leaveRequestFrom + ` WHERE lr.id = ?`

	lr, err := scanLeaveRequest(q.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Request, error) {
	query := `SELECT ` + leaveRequestColumns + leaveRequestFrom + `
		WHERE lr.employee_id = ?
		ORDER BY lr.start_date DESC`
	return r.list(ctx, query, employeeID)
}

func (r *leaveRequestRepository) ListPending(ctx context.Context) ([]leave.Request, error) {
	query := `SELECT ` + leaveRequestColumns + leaveRequestFrom + `
		WHERE lr.status = ?
		ORDER BY lr.created_at, lr.id`
	return r.list(ctx, query, string(leave.StatusPending))
}

func (r *leaveRequestRepository) FindOverlapping(ctx context.Context, oq leave.OverlapQuery) ([]leave.Request, error) {
	query := `SELECT ` + leaveRequestColumns + leaveRequestFrom + `
		WHERE lr.employee_id = ?
		  AND lr.status IN (?, ?)
		  AND lr.start_date <= ?
		  AND lr.end_date >= ?
		  AND lr.id <> ?
		ORDER BY lr.start_date`
	return r.list(ctx, query,
		oq.EmployeeID, string(leave.StatusPending), string(leave.StatusApproved),
		dateArg(oq.EndDate), dateArg(oq.StartDate), oq.ExcludeID,
	)
}

func (r *leaveRequestRepository) list(ctx context.Context, query string, args ...any) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		lr, err := scanLeaveRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// ========== STATUS TRANSITIONS ==========

func (r *leaveRequestRepository) Approve(ctx context.Context, id, approverID string, at time.Time) (bool, error) {
	query := `
		UPDATE leave_requests
		SET status = ?, approved_by = ?, approved_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?`
	return r.transition(ctx, query, string(leave.StatusApproved), approverID, at, id, string(leave.StatusPending))
}

func (r *leaveRequestRepository) Reject(ctx context.Context, id, approverID, reason string, at time.Time) (bool, error) {
	query := `
		UPDATE leave_requests
		SET status = ?, approved_by = ?, approved_at = ?, rejection_reason = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?`
	return r.transition(ctx, query, string(leave.StatusRejected), approverID, at, reason, id, string(leave.StatusPending))
}

func (r *leaveRequestRepository) Cancel(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE leave_requests
		SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?`
	return r.transition(ctx, query, string(leave.StatusCancelled), at, id, string(leave.StatusPending))
}

func (r *leaveRequestRepository) transition(ctx context.Context, query string, args ...any) (bool, error) {
	q := GetQuerier(ctx, r.db)
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update leave request status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update leave request status: %w", err)
	}
	return n == 1, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
