package domain

import "time"

// DomainEvent is a post-commit notification of a state change. Events are
// written inside the same commit boundary as the mutation they describe, so a
// published event always corresponds to committed state. Delivery to
// subscribers is best effort.
type DomainEvent struct {
	EventID    string         `json:"eventID"` // Primary Key (UUID)
	CommandID  string         `json:"commandID"`
	EventType  string         `json:"eventType"` // e.g. LOAN_DISBURSED
	Entity     string         `json:"entity"`
	Action     string         `json:"action"`
	OccurredAt time.Time      `json:"occurredAt"`
	Payload    map[string]any `json:"payload,omitempty"`
}
