package audit

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionPayrollGenerated      Action = "payroll.generated"
	ActionPayrollGenerateFailed Action = "payroll.generate_failed"
	ActionPayrollComputed       Action = "payroll.computed"
	ActionPayrollApproved       Action = "payroll.approved"
	ActionPayrollPaid           Action = "payroll.paid"
	ActionPayrollCancelled      Action = "payroll.cancelled"

	ActionLeaveRequested          Action = "leave.requested"
	ActionLeaveApproved           Action = "leave.approved"
	ActionLeaveRejected           Action = "leave.rejected"
	ActionLeaveCancelled          Action = "leave.cancelled"
	ActionLeaveOverlapCheckFailed Action = "leave.overlap_check_failed"
	ActionLeaveBalancesAllocated  Action = "leave.balances_allocated"

	ActionAttendanceCheckedIn   Action = "attendance.checked_in"
	ActionAttendanceCheckedOut  Action = "attendance.checked_out"
	ActionAttendanceManualEntry Action = "attendance.manual_entry"

	ActionSalaryComponentCreated  Action = "salary.component_created"
	ActionSalaryComponentAssigned Action = "salary.component_assigned"
	ActionSalaryAssignmentEnded   Action = "salary.assignment_ended"
)

// Entity types carried on events.
const (
	EntityPayrollRecord    = "payroll_record"
	EntityPayrollPeriod    = "payroll_period"
	EntityLeaveRequest     = "leave_request"
	EntityLeaveBalance     = "leave_balance"
	EntityAttendance       = "attendance"
	EntitySalaryComponent  = "salary_component"
	EntitySalaryAssignment = "salary_assignment"
)

// Event describes one state change made by the core.
type Event struct {
	ID         string         `json:"id"`
	Action     Action         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	ActorID    string         `json:"actor_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

func NewEvent(action Action, entityType, entityID, actorID string, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		OccurredAt: at,
	}
}

// With returns a copy of e carrying an extra attribute.
func (e Event) With(key string, value any) Event {
	attrs := make(map[string]any, len(e.Attributes)+1)
	for k, v := range e.Attributes {
		attrs[k] = v
	}
	attrs[key] = value
	e.Attributes = attrs
	return e
}
