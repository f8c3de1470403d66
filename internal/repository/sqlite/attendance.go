package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type attendanceRepository struct {
	db *database.SQLiteDB
}

func NewAttendanceRepository(db *database.SQLiteDB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.check_in, a.check_out, a.status,
	a.work_hours, a.overtime_hours, a.notes, a.created_at, a.updated_at, e.full_name`

func scanAttendance(scan func(dest ...any) error) (attendance.Attendance, error) {
	var a attendance.Attendance
	var checkIn, checkOut sql.NullTime
	var notes, employeeName sql.NullString
	err := scan(
		&a.ID, &a.EmployeeID, &a.Date, &checkIn, &checkOut, &a.Status,
		&a.WorkHours, &a.OvertimeHours, &notes, &a.CreatedAt, &a.UpdatedAt, &employeeName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if checkIn.Valid {
		a.CheckIn = &checkIn.Time
	}
	if checkOut.Valid {
		a.CheckOut = &checkOut.Time
	}
	if notes.Valid {
		a.Notes = &notes.String
	}
	if employeeName.Valid {
		a.EmployeeName = &employeeName.String
	}
	return a, nil
}

func (r *attendanceRepository) Create(ctx context.Context, record attendance.Attendance) (bool, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO attendances (id, employee_id, date, check_in, check_out, status, work_hours, overtime_hours, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (employee_id, date) DO NOTHING`

	if record.ID == "" {
		record.ID = newID()
	}
	res, err := q.ExecContext(ctx, query,
		record.ID, record.EmployeeID, dateArg(record.Date), record.CheckIn, record.CheckOut,
		string(record.Status), record.WorkHours, record.OvertimeHours, record.Notes,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create attendance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to create attendance: %w", err)
	}
	return n == 1, nil
}

func (r *attendanceRepository) GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = ? AND a.date = ?`

	a, err := scanAttendance(q.QueryRowContext(ctx, query, employeeID, dateArg(date)).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

func (r *attendanceRepository) CloseOpen(ctx context.Context, id string, checkOut time.Time, workHours, overtimeHours decimal.Decimal) (bool, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE attendances
		SET check_out = ?, work_hours = ?, overtime_hours = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND check_out IS NULL`

	res, err := q.ExecContext(ctx, query, checkOut, workHours, overtimeHours, id)
	if err != nil {
		return false, fmt.Errorf("failed to check out: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check out: %w", err)
	}
	return n == 1, nil
}

func (r *attendanceRepository) ListByRange(ctx context.Context, filter attendance.RangeFilter) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = ? AND a.date >= ? AND a.date <= ?
		ORDER BY a.date`
	return r.list(ctx, query, filter.EmployeeID, dateArg(filter.From), dateArg(filter.To))
}

func (r *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.date = ?
		ORDER BY e.full_name, a.employee_id`
	return r.list(ctx, query, dateArg(date))
}

func (r *attendanceRepository) list(ctx context.Context, query string, args ...any) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

func (r *attendanceRepository) CountByStatus(ctx context.Context, filter attendance.RangeFilter) (map[attendance.Status]int, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT status, COUNT(*)
		FROM attendances
		WHERE employee_id = ? AND date >= ? AND date <= ?
		GROUP BY status`

	rows, err := q.QueryContext(ctx, query, filter.EmployeeID, dateArg(filter.From), dateArg(filter.To))
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

// SumOvertimeHours adds the TEXT decimals in Go; SQLite's SUM would go through floating point.
func (r *attendanceRepository) SumOvertimeHours(ctx context.Context, filter attendance.RangeFilter) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT overtime_hours
		FROM attendances
		WHERE employee_id = ? AND date >= ? AND date <= ?`

	rows, err := q.QueryContext(ctx, query, filter.EmployeeID, dateArg(filter.From), dateArg(filter.To))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum overtime hours: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var hours decimal.Decimal
		if err := rows.Scan(&hours); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan overtime hours: %w", err)
		}
		total = total.Add(hours)
	}
	return total, rows.Err()
}
