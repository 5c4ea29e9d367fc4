package events

import "time"

const PayRunStatusChangedTopic = "payroll.payrun.status_changed.v1"

type PayRunStatusChangedEvent struct {
	EventType  string    `json:"event_type"`
	PayRunID   string    `json:"pay_run_id"`
	CompanyID  string    `json:"company_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
