package dto

import (
	"encoding/json"
	"time"

	"github.com/nimbusfin/coreledger/internal/core/domain"
)

// SubmitCommandRequest is the inbound payload for submitting a command.
type SubmitCommandRequest struct {
	Entity  string          `json:"entity" binding:"required"`
	Action  string          `json:"action" binding:"required"`
	Payload json.RawMessage `json:"payload"`
}

// DecisionRequest is the checker's decision on a pending command.
type DecisionRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// OutcomeResponse is the caller-visible result of a submit or decide.
type OutcomeResponse struct {
	CommandID string         `json:"commandID"`
	Status    string         `json:"status"`
	Result    map[string]any `json:"result,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

// ToOutcomeResponse converts a domain.Outcome to its response DTO.
func ToOutcomeResponse(out domain.Outcome) OutcomeResponse {
	return OutcomeResponse{
		CommandID: out.CommandID,
		Status:    string(out.Status),
		Result:    out.Result,
		Reason:    out.Reason,
	}
}

// CommandRecordResponse is an audit log entry as returned to callers.
type CommandRecordResponse struct {
	CommandID     string          `json:"commandID"`
	Entity        string          `json:"entity"`
	Action        string          `json:"action"`
	OriginatorID  string          `json:"originatorID"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	SubmittedAt   time.Time       `json:"submittedAt"`
	Status        string          `json:"status"`
	ApproverID    *string         `json:"approverID,omitempty"`
	ResolvedAt    *time.Time      `json:"resolvedAt,omitempty"`
	Result        map[string]any  `json:"result,omitempty"`
	FailureReason string          `json:"failureReason,omitempty"`
}

// ToCommandRecordResponse converts a domain.CommandRecord to its response DTO.
func ToCommandRecordResponse(rec *domain.CommandRecord) CommandRecordResponse {
	return CommandRecordResponse{
		CommandID:     rec.CommandID,
		Entity:        rec.Entity,
		Action:        rec.Action,
		OriginatorID:  rec.OriginatorID,
		Payload:       rec.Payload,
		SubmittedAt:   rec.SubmittedAt,
		Status:        string(rec.Status),
		ApproverID:    rec.ApproverID,
		ResolvedAt:    rec.ResolvedAt,
		Result:        rec.Result,
		FailureReason: rec.FailureReason,
	}
}

// EventResponse is a published domain event as returned to callers.
type EventResponse struct {
	EventID    string         `json:"eventID"`
	CommandID  string         `json:"commandID"`
	EventType  string         `json:"eventType"`
	Entity     string         `json:"entity"`
	Action     string         `json:"action"`
	OccurredAt time.Time      `json:"occurredAt"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// ToEventResponse converts a domain.DomainEvent to its response DTO.
func ToEventResponse(ev *domain.DomainEvent) EventResponse {
	return EventResponse{
		EventID:    ev.EventID,
		CommandID:  ev.CommandID,
		EventType:  ev.EventType,
		Entity:     ev.Entity,
		Action:     ev.Action,
		OccurredAt: ev.OccurredAt,
		Payload:    ev.Payload,
	}
}

// ListCommandsParams narrows and paginates audit log queries.
type ListCommandsParams struct {
	OriginatorID *string    `form:"originatorID"`
	Entity       *string    `form:"entity"`
	After        *time.Time `form:"after" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit        int        `form:"limit"`
	NextToken    *string    `form:"nextToken"`
}

// ListCommandsResponse is a page of audit log entries.
type ListCommandsResponse struct {
	Commands  []CommandRecordResponse `json:"commands"`
	NextToken *string                 `json:"nextToken,omitempty"`
}
