package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/nimbusfin/coreledger/internal/core/domain"
	"github.com/nimbusfin/coreledger/internal/models"
)

// ToModelCommandRecord converts a domain CommandRecord to a model CommandRecord.
func ToModelCommandRecord(d domain.CommandRecord) (models.CommandRecord, error) {
	m := models.CommandRecord{
		CommandID:    d.CommandID,
		Entity:       d.Entity,
		Action:       d.Action,
		OriginatorID: d.OriginatorID,
		Payload:      []byte(d.Payload),
		SubmittedAt:  d.SubmittedAt,
		Status:       string(d.Status),
		ApproverID:   d.ApproverID,
		ResolvedAt:   d.ResolvedAt,
	}
	if d.FailureReason != "" {
		reason := d.FailureReason
		m.FailureReason = &reason
	}
	if d.Result != nil {
		resultBytes, err := json.Marshal(d.Result)
		if err != nil {
			return models.CommandRecord{}, fmt.Errorf("failed to marshal command result: %w", err)
		}
		m.Result = resultBytes
	}
	return m, nil
}

// ToDomainCommandRecord converts a model CommandRecord to a domain CommandRecord.
func ToDomainCommandRecord(m models.CommandRecord) (domain.CommandRecord, error) {
	d := domain.CommandRecord{
		Command: domain.Command{
			CommandID:    m.CommandID,
			Entity:       m.Entity,
			Action:       m.Action,
			OriginatorID: m.OriginatorID,
			Payload:      json.RawMessage(m.Payload),
			SubmittedAt:  m.SubmittedAt,
		},
		Status:     domain.CommandStatus(m.Status),
		ApproverID: m.ApproverID,
		ResolvedAt: m.ResolvedAt,
	}
	if m.FailureReason != nil {
		d.FailureReason = *m.FailureReason
	}
	if len(m.Result) > 0 {
		if err := json.Unmarshal(m.Result, &d.Result); err != nil {
			return domain.CommandRecord{}, fmt.Errorf("failed to unmarshal command result: %w", err)
		}
	}
	return d, nil
}

// ToDomainApprovalRequest converts a model ApprovalRequest to its domain form.
func ToDomainApprovalRequest(m models.ApprovalRequest) domain.ApprovalRequest {
	return domain.ApprovalRequest{
		CommandID:   m.CommandID,
		Status:      domain.ApprovalStatus(m.Status),
		RequestedAt: m.RequestedAt,
		ApproverID:  m.ApproverID,
		DecidedAt:   m.DecidedAt,
	}
}

// ToModelDomainEvent converts a domain event to its outbox row form.
func ToModelDomainEvent(d domain.DomainEvent) (models.DomainEvent, error) {
	m := models.DomainEvent{
		EventID:    d.EventID,
		CommandID:  d.CommandID,
		EventType:  d.EventType,
		Entity:     d.Entity,
		Action:     d.Action,
		OccurredAt: d.OccurredAt,
	}
	if d.Payload != nil {
		payloadBytes, err := json.Marshal(d.Payload)
		if err != nil {
			return models.DomainEvent{}, fmt.Errorf("failed to marshal event payload: %w", err)
		}
		m.Payload = payloadBytes
	}
	return m, nil
}

// ToDomainDomainEvent converts an outbox row to its domain form.
func ToDomainDomainEvent(m models.DomainEvent) (domain.DomainEvent, error) {
	d := domain.DomainEvent{
		EventID:    m.EventID,
		CommandID:  m.CommandID,
		EventType:  m.EventType,
		Entity:     m.Entity,
		Action:     m.Action,
		OccurredAt: m.OccurredAt,
	}
	if len(m.Payload) > 0 {
		if err := json.Unmarshal(m.Payload, &d.Payload); err != nil {
			return domain.DomainEvent{}, fmt.Errorf("failed to unmarshal event payload: %w", err)
		}
	}
	return d, nil
}
