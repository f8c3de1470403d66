package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/utils"
)

const (
	JobPayrollPeriodOpener   = "payroll-period-opener"
	JobLeaveBalanceAllocator = "leave-balance-allocator"
)

// PeriodJobs open the current payroll period and the current leave year. Both
// operations are insert-if-absent, so every run after the first only fills gaps.
type PeriodJobs struct {
	payrollSvc payroll.Service
	leaveSvc   leave.Service
	calendar   utils.Calendar
	actorID    string
}

func NewPeriodJobs(payrollSvc payroll.Service, leaveSvc leave.Service, calendar utils.Calendar, actorID string) *PeriodJobs {
	return &PeriodJobs{
		payrollSvc: payrollSvc,
		leaveSvc:   leaveSvc,
		calendar:   calendar,
		actorID:    actorID,
	}
}

// RegisterJobs adds the enabled jobs to the scheduler
func (j *PeriodJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration, payrollEnabled, leaveEnabled bool) {
	if payrollEnabled {
		scheduler.AddJob(JobPayrollPeriodOpener, interval, j.OpenPayrollPeriod)
	}
	if leaveEnabled {
		scheduler.AddJob(JobLeaveBalanceAllocator, interval, j.AllocateLeaveYear)
	}
}

// OpenPayrollPeriod generates drafts for the current month.
func (j *PeriodJobs) OpenPayrollPeriod(ctx context.Context) error {
	today := j.calendar.Today()
	period := payroll.Period{Year: today.Year(), Month: int(today.Month())}

	if _, err := j.payrollSvc.GenerateForPeriod(ctx, period, j.actorID); err != nil {
		return fmt.Errorf("open payroll period %04d-%02d: %w", period.Year, period.Month, err)
	}
	return nil
}

// AllocateLeaveYear creates missing balances for the current year.
func (j *PeriodJobs) AllocateLeaveYear(ctx context.Context) error {
	year := j.calendar.Today().Year()
	if _, err := j.leaveSvc.AllocateBalances(ctx, year, j.actorID); err != nil {
		return fmt.Errorf("allocate leave balances %d: %w", year, err)
	}
	return nil
}
