package events

import "time"

const DeductionChangedTopic = "payroll.deduction.changed.v1"

// DeductionChangedEvent records one catalog or binding mutation with its
// before/after snapshots for the audit trail.
type DeductionChangedEvent struct {
	EventType  string    `json:"event_type"`
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entity_id"`
	CompanyID  string    `json:"company_id"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actor_id"`
	Before     any       `json:"before,omitempty"`
	After      any       `json:"after,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
