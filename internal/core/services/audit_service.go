package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
	"github.com/nimbusfin/coreledger/internal/dto"
	"github.com/nimbusfin/coreledger/internal/middleware"
)

// auditService serves read queries over the command audit log and the events
// published alongside it.
type auditService struct {
	auditRepo portsrepo.AuditRepository
	eventRepo portsrepo.EventRepository
}

// NewAuditService creates a new audit query service.
func NewAuditService(auditRepo portsrepo.AuditRepository, eventRepo portsrepo.EventRepository) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo, eventRepo: eventRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// GetCommandRecord retrieves a single audit entry by command identity.
func (s *auditService) GetCommandRecord(ctx context.Context, commandID string) (*domain.CommandRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	record, err := s.auditRepo.FindByCommandID(ctx, commandID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find command record", slog.String("error", err.Error()), slog.String("command_id", commandID))
		}
		return nil, fmt.Errorf("failed to find command record %s: %w", commandID, err)
	}
	return record, nil
}

// ListCommandRecords retrieves a filtered, paginated slice of the audit log.
func (s *auditService) ListCommandRecords(ctx context.Context, params dto.ListCommandsParams) (*dto.ListCommandsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	filter := portsrepo.CommandFilter{
		OriginatorID: params.OriginatorID,
		Entity:       params.Entity,
		After:        params.After,
	}

	records, nextToken, err := s.auditRepo.ListCommandRecords(ctx, filter, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve command records: %w", err)
	}

	responses := make([]dto.CommandRecordResponse, len(records))
	for i := range records {
		responses[i] = dto.ToCommandRecordResponse(&records[i])
	}

	return &dto.ListCommandsResponse{
		Commands:  responses,
		NextToken: nextToken,
	}, nil
}

// ListCommandEvents retrieves the events a command published on commit. An
// unknown command is an error; a known command with no events is an empty list.
func (s *auditService) ListCommandEvents(ctx context.Context, commandID string) ([]dto.EventResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.auditRepo.FindByCommandID(ctx, commandID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find command record", slog.String("error", err.Error()), slog.String("command_id", commandID))
		}
		return nil, fmt.Errorf("failed to find command record %s: %w", commandID, err)
	}

	events, err := s.eventRepo.ListByCommandID(ctx, commandID)
	if err != nil {
		logger.Error("Failed to list command events", slog.String("error", err.Error()), slog.String("command_id", commandID))
		return nil, fmt.Errorf("failed to list events for command %s: %w", commandID, err)
	}

	responses := make([]dto.EventResponse, len(events))
	for i := range events {
		responses[i] = dto.ToEventResponse(&events[i])
	}
	return responses, nil
}
