package events

import "time"

const WageAdvanceRepaymentPostedTopic = "payroll.wage_advance.repayment_posted.v1"

type WageAdvanceRepaymentPostedEvent struct {
	EventType  string    `json:"event_type"`
	AdvanceID  string    `json:"advance_id"`
	PayRunID   string    `json:"pay_run_id"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	Amount     int64     `json:"amount"`
	Settled    bool      `json:"settled"`
	OccurredAt time.Time `json:"occurred_at"`
}
