package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepository{db: db}
}

const payrollSelect = `
	SELECT pr.id, pr.employee_id, pr.period_year, pr.period_month, pr.basic_salary,
		   pr.total_allowances, pr.total_deductions, pr.overtime_hours, pr.overtime_amount,
		   pr.gross_salary, pr.net_salary, pr.status, pr.payment_date, pr.approved_by, pr.approved_at,
		   pr.created_by, pr.created_at, pr.updated_at, e.full_name
	FROM payroll_records pr
	LEFT JOIN employees e ON e.id = pr.employee_id
`

func scanPayrollRecord(row pgx.Row) (payroll.Record, error) {
	var r payroll.Record
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.PeriodYear, &r.PeriodMonth, &r.BasicSalary,
		&r.TotalAllowances, &r.TotalDeductions, &r.OvertimeHours, &r.OvertimeAmount,
		&r.GrossSalary, &r.NetSalary, &r.Status, &r.PaymentDate, &r.ApprovedBy, &r.ApprovedAt,
		&r.CreatedBy, &r.CreatedAt, &r.UpdatedAt, &r.EmployeeName,
	)
	return r, err
}

// ========== RECORDS ==========

func (r *payrollRepository) CreateDraft(ctx context.Context, rec payroll.Record) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (id, employee_id, period_year, period_month, basic_salary, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, period_year, period_month) DO NOTHING
	`

	if rec.ID == "" {
		rec.ID = newID()
	}
	tag, err := q.Exec(ctx, query,
		rec.ID, rec.EmployeeID, rec.PeriodYear, rec.PeriodMonth, rec.BasicSalary,
		string(payroll.StatusDraft), rec.CreatedBy,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create payroll draft: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanPayrollRecord(q.QueryRow(ctx, payrollSelect+`WHERE pr.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) ListByPeriod(ctx context.Context, period payroll.Period) ([]payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := payrollSelect + `
		WHERE pr.period_year = $1 AND pr.period_month = $2
		ORDER BY e.full_name, pr.employee_id
	`

	rows, err := q.Query(ctx, query, period.Year, period.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
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
		WHERE payroll_id = $1
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, payrollID)
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
		SET total_allowances = $1, total_deductions = $2, overtime_hours = $3, overtime_amount = $4,
			gross_salary = $5, net_salary = $6, updated_at = NOW()
		WHERE id = $7 AND status = $8
	`

	tag, err := q.Exec(ctx, query,
		rec.TotalAllowances, rec.TotalDeductions, rec.OvertimeHours, rec.OvertimeAmount,
		rec.GrossSalary, rec.NetSalary, rec.ID, string(payroll.StatusDraft),
	)
	if err != nil {
		return false, fmt.Errorf("failed to save payroll computation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := q.Exec(ctx, `DELETE FROM payroll_details WHERE payroll_id = $1`, rec.ID); err != nil {
		return false, fmt.Errorf("failed to clear payroll details: %w", err)
	}

	// Ordered ids keep details in component order for GetDetails.
	for _, d := range rec.Details {
		if d.ID == "" {
			d.ID = newID()
		}
		_, err := q.Exec(ctx, `
			INSERT INTO payroll_details (id, payroll_id, salary_component_id, component_name, component_type, amount)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, d.ID, rec.ID, d.ComponentID, d.ComponentName, string(d.ComponentType), d.Amount)
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
		SET status = $1, approved_by = $2, approved_at = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
	`
	return r.transition(ctx, query, string(payroll.StatusApproved), approverID, at, id, string(payroll.StatusDraft))
}

func (r *payrollRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	query := `
		UPDATE payroll_records
		SET status = $1, payment_date = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`
	return r.transition(ctx, query, string(payroll.StatusPaid), paidAt, id, string(payroll.StatusApproved))
}

func (r *payrollRepository) MarkCancelled(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE payroll_records
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status IN ($4, $5)
	`
	return r.transition(ctx, query,
		string(payroll.StatusCancelled), at, id, string(payroll.StatusDraft), string(payroll.StatusApproved),
	)
}

func (r *payrollRepository) transition(ctx context.Context, query string, args ...any) (bool, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update payroll status: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// ========== AGGREGATIONS ==========

func (r *payrollRepository) Summarize(ctx context.Context, period payroll.Period) (payroll.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT status,
			   COUNT(*),
			   COALESCE(SUM(gross_salary), 0),
			   COALESCE(SUM(total_deductions), 0),
			   COALESCE(SUM(net_salary), 0)
		FROM payroll_records
		WHERE period_year = $1 AND period_month = $2
		GROUP BY status
	`

	rows, err := q.Query(ctx, query, period.Year, period.Month)
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
		var count int
		var gross, deductions, net decimal.Decimal
		if err := rows.Scan(&status, &count, &gross, &deductions, &net); err != nil {
			return payroll.Summary{}, fmt.Errorf("failed to scan payroll summary: %w", err)
		}
		summary.RecordCount += count
		summary.StatusCounts[status] = count
		if status == payroll.StatusCancelled {
			continue
		}
		summary.TotalGross = summary.TotalGross.Add(gross)
		summary.TotalDeductions = summary.TotalDeductions.Add(deductions)
		summary.TotalNet = summary.TotalNet.Add(net)
	}

	return summary, rows.Err()
}
