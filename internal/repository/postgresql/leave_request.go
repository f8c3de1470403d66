package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestSelect = `
	SELECT lr.id, lr.employee_id, lr.leave_type_id, lr.start_date, lr.end_date, lr.total_days, lr.reason,
		   lr.status, lr.approved_by, lr.approved_at, lr.rejection_reason, lr.created_at, lr.updated_at,
		   e.full_name, lt.name
	FROM leave_requests lr
	LEFT JOIN employees e ON e.id = lr.employee_id
	LEFT JOIN leave_types lt ON lt.id = lr.leave_type_id
`

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var lr leave.Request
	err := row.Scan(
		&lr.ID,
		&lr.EmployeeID,
		&lr.LeaveTypeID,
		&lr.StartDate,
		&lr.EndDate,
		&lr.TotalDays,
		&lr.Reason,
		&lr.Status,
		&lr.ApprovedBy,
		&lr.ApprovedAt,
		&lr.RejectionReason,
		&lr.CreatedAt,
		&lr.UpdatedAt,
		&lr.EmployeeName,
		&lr.LeaveTypeName,
	)
	return lr, err
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id,
			start_date, end_date, total_days,
			reason, status
		) VALUES (
			$1, $2, $3,
			$4, $5, $6,
			$7, $8
		)
	`

	if request.ID == "" {
		request.ID = newID()
	}
	_, err := q.Exec(ctx, query,
		request.ID, request.EmployeeID, request.LeaveTypeID,
		request.StartDate, request.EndDate, request.TotalDays,
		request.Reason, string(request.Status),
	)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return r.GetByID(ctx, request.ID)
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	lr, err := scanLeaveRequest(q.QueryRow(ctx, leaveRequestSelect+`WHERE lr.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	return lr, nil
}

// ListByEmployee implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Request, error) {
	query := leaveRequestSelect + `
		WHERE lr.employee_id = $1
		ORDER BY lr.start_date DESC
	`
	return r.list(ctx, query, employeeID)
}

// ListPending implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListPending(ctx context.Context) ([]leave.Request, error) {
	query := leaveRequestSelect + `
		WHERE lr.status = $1
		ORDER BY lr.created_at, lr.id
	`
	return r.list(ctx, query, string(leave.StatusPending))
}

// FindOverlapping implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) FindOverlapping(ctx context.Context, oq leave.OverlapQuery) ([]leave.Request, error) {
	query := leaveRequestSelect + `
		WHERE lr.employee_id = $1
		  AND lr.status IN ($2, $3)
		  AND lr.start_date <= $4
		  AND lr.end_date >= $5
		  AND ($6 = '' OR lr.id::text <> $6)
		ORDER BY lr.start_date
	`
	return r.list(ctx, query,
		oq.EmployeeID, string(leave.StatusPending), string(leave.StatusApproved),
		oq.EndDate, oq.StartDate, oq.ExcludeID,
	)
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}

	return requests, rows.Err()
}

// ========== STATUS TRANSITIONS ==========

// Approve implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Approve(ctx context.Context, id, approverID string, at time.Time) (bool, error) {
	query := `
		UPDATE leave_requests
		SET status = $1, approved_by = $2, approved_at = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
	`
	return r.transition(ctx, query, string(leave.StatusApproved), approverID, at, id, string(leave.StatusPending))
}

// Reject implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Reject(ctx context.Context, id, approverID, reason string, at time.Time) (bool, error) {
	query := `
		UPDATE leave_requests
		SET status = $1, approved_by = $2, approved_at = $3, rejection_reason = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
	`
	return r.transition(ctx, query, string(leave.StatusRejected), approverID, at, reason, id, string(leave.StatusPending))
}

// Cancel implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Cancel(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE leave_requests
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	return r.transition(ctx, query, string(leave.StatusCancelled), at, id, string(leave.StatusPending))
}

func (r *leaveRequestRepositoryImpl) transition(ctx context.Context, query string, args ...any) (bool, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update leave request status: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
