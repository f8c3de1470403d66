package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceSelect = `
	SELECT a.id, a.employee_id, a.date, a.check_in, a.check_out, a.status,
		   a.work_hours, a.overtime_hours, a.notes, a.created_at, a.updated_at, e.full_name
	FROM attendances a
	LEFT JOIN employees e ON e.id = a.employee_id
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date, &a.CheckIn, &a.CheckOut, &a.Status,
		&a.WorkHours, &a.OvertimeHours, &a.Notes, &a.CreatedAt, &a.UpdatedAt, &a.EmployeeName,
	)
	return a, err
}

// Create implements attendance.Repository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, record attendance.Attendance) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (id, employee_id, date, check_in, check_out, status, work_hours, overtime_hours, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	if record.ID == "" {
		record.ID = newID()
	}
	tag, err := q.Exec(ctx, query,
		record.ID, record.EmployeeID, record.Date, record.CheckIn, record.CheckOut,
		string(record.Status), record.WorkHours, record.OvertimeHours, record.Notes,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create attendance: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// GetByEmployeeDate implements attendance.Repository.
func (r *attendanceRepositoryImpl) GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + `WHERE a.employee_id = $1 AND a.date = $2`

	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return a, nil
}

// CloseOpen implements attendance.Repository.
func (r *attendanceRepositoryImpl) CloseOpen(ctx context.Context, id string, checkOut time.Time, workHours, overtimeHours decimal.Decimal) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_out = $1, work_hours = $2, overtime_hours = $3, updated_at = NOW()
		WHERE id = $4 AND check_out IS NULL
	`

	tag, err := q.Exec(ctx, query, checkOut, workHours, overtimeHours, id)
	if err != nil {
		return false, fmt.Errorf("failed to check out: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// ListByRange implements attendance.Repository.
func (r *attendanceRepositoryImpl) ListByRange(ctx context.Context, filter attendance.RangeFilter) ([]attendance.Attendance, error) {
	query := attendanceSelect + `
		WHERE a.employee_id = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date
	`
	return r.list(ctx, query, filter.EmployeeID, filter.From, filter.To)
}

// ListByDate implements attendance.Repository.
func (r *attendanceRepositoryImpl) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	query := attendanceSelect + `
		WHERE a.date = $1
		ORDER BY e.full_name, a.employee_id
	`
	return r.list(ctx, query, date)
}

func (r *attendanceRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}

	return records, rows.Err()
}

// CountByStatus implements attendance.Repository.
func (r *attendanceRepositoryImpl) CountByStatus(ctx context.Context, filter attendance.RangeFilter) (map[attendance.Status]int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT status, COUNT(*)
		FROM attendances
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		GROUP BY status
	`

	rows, err := q.Query(ctx, query, filter.EmployeeID, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance: %w", err)
	}
	defer rows.Close()

	counts := make(map[attendance.Status]int)
	for rows.Next() {
		var status attendance.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan attendance count: %w", err)
		}
		counts[status] = n
	}

	return counts, rows.Err()
}

// SumOvertimeHours implements attendance.Repository.
func (r *attendanceRepositoryImpl) SumOvertimeHours(ctx context.Context, filter attendance.RangeFilter) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(overtime_hours), 0)
		FROM attendances
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, filter.EmployeeID, filter.From, filter.To).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum overtime hours: %w", err)
	}

	return total, nil
}
