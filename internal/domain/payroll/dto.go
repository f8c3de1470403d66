package payroll

import (
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/salary"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

func (p Period) Validate() error {
	if !validator.IsValidPeriod(p.Year, p.Month) {
		return ErrInvalidPeriod
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type DetailResponse struct {
	ComponentID   string               `json:"component_id"`
	ComponentName string               `json:"component_name"`
	ComponentType salary.ComponentType `json:"component_type"`
	Amount        decimal.Decimal      `json:"amount"`
}

type RecordResponse struct {
	ID              string           `json:"id"`
	EmployeeID      string           `json:"employee_id"`
	EmployeeName    *string          `json:"employee_name,omitempty"`
	PeriodYear      int              `json:"period_year"`
	PeriodMonth     int              `json:"period_month"`
	BasicSalary     decimal.Decimal  `json:"basic_salary"`
	TotalAllowances decimal.Decimal  `json:"total_allowances"`
	TotalDeductions decimal.Decimal  `json:"total_deductions"`
	OvertimeHours   decimal.Decimal  `json:"overtime_hours"`
	OvertimeAmount  decimal.Decimal  `json:"overtime_amount"`
	GrossSalary     decimal.Decimal  `json:"gross_salary"`
	NetSalary       decimal.Decimal  `json:"net_salary"`
	Status          Status           `json:"status"`
	PaymentDate     *time.Time       `json:"payment_date,omitempty"`
	ApprovedBy      *string          `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time       `json:"approved_at,omitempty"`
	Details         []DetailResponse `json:"details,omitempty"`
}

func NewRecordResponse(r Record) RecordResponse {
	resp := RecordResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		PeriodYear:      r.PeriodYear,
		PeriodMonth:     r.PeriodMonth,
		BasicSalary:     r.BasicSalary,
		TotalAllowances: r.TotalAllowances,
		TotalDeductions: r.TotalDeductions,
		OvertimeHours:   r.OvertimeHours,
		OvertimeAmount:  r.OvertimeAmount,
		GrossSalary:     r.GrossSalary,
		NetSalary:       r.NetSalary,
		Status:          r.Status,
		PaymentDate:     r.PaymentDate,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
	}
	for _, d := range r.Details {
		resp.Details = append(resp.Details, DetailResponse{
			ComponentID:   d.ComponentID,
			ComponentName: d.ComponentName,
			ComponentType: d.ComponentType,
			Amount:        d.Amount,
		})
	}
	return resp
}

type GenerateResponse struct {
	PeriodYear   int `json:"period_year"`
	PeriodMonth  int `json:"period_month"`
	CreatedCount int `json:"created_count"`
}

type SummaryResponse struct {
	PeriodYear      int             `json:"period_year"`
	PeriodMonth     int             `json:"period_month"`
	RecordCount     int             `json:"record_count"`
	StatusCounts    map[Status]int  `json:"status_counts"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
}

func NewSummaryResponse(s Summary) SummaryResponse {
	return SummaryResponse{
		PeriodYear:      s.Period.Year,
		PeriodMonth:     s.Period.Month,
		RecordCount:     s.RecordCount,
		StatusCounts:    s.StatusCounts,
		TotalGross:      s.TotalGross,
		TotalDeductions: s.TotalDeductions,
		TotalNet:        s.TotalNet,
	}
}
