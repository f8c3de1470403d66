package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.SQLiteDB
}

func NewPayrollRepository(db *database.SQLiteDB) payroll.Repository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	pr.id, pr.employee_id, pr.period_year, pr.period_month, pr.basic_salary,
	pr.total_allowances, pr.total_deductions, pr.overtime_hours, pr.overtime_amount,
	pr.gross_salary, pr.net_salary, pr.status, pr.payment_date, pr.approved_by, pr.approved_at,
	pr.created_by, pr.created_at, pr.updated_at, e.full_name`

const payrollFrom = `
	FROM payroll_records pr
	LEFT JOIN employees e ON e.id = pr.employee_id`

func scanPayroll(scan func(dest ...any) error) (payroll.Record, error) {
	var r payroll.Record
	var paymentDate, approvedAt sql.NullTime
	var approvedBy, createdBy, employeeName sql.NullString
	err := scan(
		&r.ID, &r.EmployeeID, &r.PeriodYear, &r.PeriodMonth, &r.BasicSalary,
		&r.TotalAllowances, &r.TotalDeductions, &r.OvertimeHours, &r.OvertimeAmount,
		&r.GrossSalary, &r.NetSalary, &r.Status, &paymentDate, &approvedBy, &approvedAt,
		&createdBy, &r.CreatedAt, &r.UpdatedAt, &employeeName,
	)
	if err != nil {
		return payroll.Record{}, err
	}
	if paymentDate.Valid {
		r.PaymentDate = &paymentDate.Time
	}
	if approvedAt.Valid {
		r.ApprovedAt = &approvedAt.Time
	}
	r.ApprovedBy = nullString(approvedBy)
	r.CreatedBy = nullString(createdBy)
	r.EmployeeName = nullString(employeeName)
	return r, nil
}

// ========== RECORDS ==========

func (r *payrollRepository) CreateDraft(ctx context.Context, rec payroll.Record) (bool, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO payroll_records (id, employee_id, period_year, period_month, basic_salary, status, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (employee_id, period_year, period_month) DO NOTHING`

	if rec.ID == "" {
		rec.ID = newID()
	}
	res, err := q.ExecContext(ctx, query,
		rec.ID, rec.EmployeeID, rec.PeriodYear, rec.PeriodMonth, rec.BasicSalary,
		string(payroll.StatusDraft), rec.CreatedBy,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create payroll draft: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to create payroll draft: %w", err)
	}
	return n == 1, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + payrollColumns + payrollFrom + ` WHERE pr.id = ?`

	rec, err := scanPayroll(q.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return payroll.Record{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) ListByPeriod(ctx context.Context, period payroll.Period) ([]payroll.Record, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + payrollColumns + payrollFrom + `
		WHERE pr.period_year = ? AND pr.period_month = ?
		ORDER BY e.full_name, pr.employee_id`

	rows, err := q.QueryContext(ctx, query, period.Year, period.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		rec, err := scanPayroll(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *payrollRepository) GetDetails(ctx context.Context, payrollID string) ([]payroll.Detail, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, payroll_id, salary_component_id, component_name, component_type, amount
		FROM payroll_details
		WHERE payroll_id = ?
		ORDER BY rowid`

	rows, err := q.QueryContext(ctx, query, payrollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll details: %w", err)
	}
	defer rows.Close()

	var details []payroll.Detail
	for rows.Next() {
		var d payroll.Detail
		if err := rows.Scan(&d.ID, &d.PayrollID, &d.ComponentID, &d.ComponentName, &d.ComponentType, &d.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan payroll detail: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// SaveComputation must run inside a transaction: totals and details change together.
func (r *payrollRepository) SaveComputation(ctx context.Context, rec payroll.Record) (bool, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE payroll_records
		SET total_allowances = ?, total_deductions = ?, overtime_hours = ?, overtime_amount = ?,
		    gross_salary = ?, net_salary = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?`

	res, err := q.ExecContext(ctx, query,
		rec.TotalAllowances, rec.TotalDeductions, rec.OvertimeHours, rec.OvertimeAmount,
		rec.GrossSalary, rec.NetSalary, rec.ID, string(payroll.StatusDraft),
	)
	if err != nil {
		return false, fmt.Errorf("failed to save payroll computation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to save payroll computation: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM payroll_details WHERE payroll_id = ?`, rec.ID); err != nil {
		return false, fmt.Errorf("failed to clear payroll details: %w", err)
	}
	for _, d := range rec.Details {
		if d.ID == "" {
			d.ID = newID()
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO payroll_details (id, payroll_id, salary_component_id, component_name, component_type, amount)
			VALUES (?, ?, ?, ?, ?, ?)`,
			d.ID, rec.ID, d.ComponentID, d.ComponentName, string(d.ComponentType), d.Amount,
		)
		if err != nil {
			return false, fmt.Errorf("failed to insert payroll detail: %w", err)
		}
	}
	return true, nil
}

// ========== STATUS TRANSITIONS ==========

func (r *payrollRepository) MarkApproved(ctx context.Context, id, approverID string, at time.Time) (bool, error) {
	query := `
		UPDATE payroll_records
		SET status = ?, approved_by = ?, approved_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?`
	return r.transition(ctx, query, string(payroll.StatusApproved), approverID, at, id, string(payroll.StatusDraft))
}

func (r *payrollRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	query := `
		UPDATE payroll_records
		SET status = ?, payment_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?`
	return r.transition(ctx, query, string(payroll.StatusPaid), paidAt, id, string(payroll.StatusApproved))
}

func (r *payrollRepository) MarkCancelled(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE payroll_records
		SET status = ?, updated_at = ?
		WHERE id = ? AND status IN (?, ?)`
	return r.transition(ctx, query,
		string(payroll.StatusCancelled), at, id, string(payroll.StatusDraft), string(payroll.StatusApproved),
	)
}

func (r *payrollRepository) transition(ctx context.Context, query string, args ...any) (bool, error) {
	q := GetQuerier(ctx, r.db)
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update payroll status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update payroll status: %w", err)
	}
	return n == 1, nil
}

// ========== AGGREGATIONS ==========

func (r *payrollRepository) Summarize(ctx context.Context, period payroll.Period) (payroll.Summary, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT status, gross_salary, total_deductions, net_salary
		FROM payroll_records
		WHERE period_year = ? AND period_month = ?`

	rows, err := q.QueryContext(ctx, query, period.Year, period.Month)
	if err != nil {
		return payroll.Summary{}, fmt.Errorf("failed to summarize payroll: %w", err)
	}
	defer rows.Close()

	summary := payroll.Summary{
		Period:          period,
		StatusCounts:    make(map[payroll.Status]int),
		TotalGross:      decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalNet:        decimal.Zero,
	}
	for rows.Next() {
		var status payroll.Status
		var gross, deductions, net decimal.Decimal
		if err := rows.Scan(&status, &gross, &deductions, &net); err != nil {
			return payroll.Summary{}, fmt.Errorf("failed to scan payroll summary: %w", err)
		}
		summary.RecordCount++
		summary.StatusCounts[status]++
		if status == payroll.StatusCancelled {
			continue
		}
		summary.TotalGross = summary.TotalGross.Add(gross)
		summary.TotalDeductions = summary.TotalDeductions.Add(deductions)
		summary.TotalNet = summary.TotalNet.Add(net)
	}
	return summary, rows.Err()
}
