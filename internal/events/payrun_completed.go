package events

import "time"

const PayRunCompletedTopic = "payroll.payrun.completed.v1"

// PayRunCompletedEvent fans out payslip rendering and downstream exports once
// the completion transaction commits.
type PayRunCompletedEvent struct {
	EventType     string    `json:"event_type"`
	PayRunID      string    `json:"pay_run_id"`
	CompanyID     string    `json:"company_id"`
	PeriodStart   string    `json:"period_start"`
	PeriodEnd     string    `json:"period_end"`
	EmployeeCount int       `json:"employee_count"`
	TotalGross    int64     `json:"total_gross"`
	TotalNet      int64     `json:"total_net"`
	CompletedBy   string    `json:"completed_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}
