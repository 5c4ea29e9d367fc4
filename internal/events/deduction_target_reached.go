package events

import "time"

const DeductionTargetReachedTopic = "payroll.deduction.target_reached.v1"

type DeductionTargetReachedEvent struct {
	EventType           string    `json:"event_type"`
	EmployeeDeductionID string    `json:"employee_deduction_id"`
	PayRunID            string    `json:"pay_run_id"`
	CompanyID           string    `json:"company_id"`
	EmployeeID          string    `json:"employee_id"`
	Code                string    `json:"code"`
	OccurredAt          time.Time `json:"occurred_at"`
}
