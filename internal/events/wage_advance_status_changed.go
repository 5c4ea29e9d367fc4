package events

import "time"

const WageAdvanceStatusChangedTopic = "payroll.wage_advance.status_changed.v1"

type WageAdvanceStatusChangedEvent struct {
	EventType  string    `json:"event_type"`
	AdvanceID  string    `json:"advance_id"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
