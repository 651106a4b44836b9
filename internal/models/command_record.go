package models

import (
	"time"
)

// CommandRecord is the database representation of an audit log entry.
// The payload and result columns are JSONB.
type CommandRecord struct {
	CommandID     string     `db:"command_id"`
	Entity        string     `db:"entity"`
	Action        string     `db:"action"`
	OriginatorID  string     `db:"originator_id"`
	Payload       []byte     `db:"payload"`
	SubmittedAt   time.Time  `db:"submitted_at"`
	Status        string     `db:"status"`
	ApproverID    *string    `db:"approver_id"`
	ResolvedAt    *time.Time `db:"resolved_at"`
	Result        []byte     `db:"result"`
	FailureReason *string    `db:"failure_reason"`
}

// ApprovalRequest is the database representation of a pending or resolved
// maker-checker approval.
type ApprovalRequest struct {
	CommandID   string     `db:"command_id"`
	Status      string     `db:"status"`
	RequestedAt time.Time  `db:"requested_at"`
	ApproverID  *string    `db:"approver_id"`
	DecidedAt   *time.Time `db:"decided_at"`
}

// DomainEvent is the database representation of an outbox event row.
type DomainEvent struct {
	EventID    string    `db:"event_id"`
	CommandID  string    `db:"command_id"`
	EventType  string    `db:"event_type"`
	Entity     string    `db:"entity"`
	Action     string    `db:"action"`
	OccurredAt time.Time `db:"occurred_at"`
	Payload    []byte    `db:"payload"`
}
