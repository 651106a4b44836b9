package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
	"github.com/nimbusfin/coreledger/internal/dto"
	"github.com/nimbusfin/coreledger/internal/middleware"
)

// approvalService is the checker side of the maker-checker state machine.
// PENDING -> {EXECUTED, REJECTED}; terminal states are final, and re-deciding
// an already-resolved request returns the original outcome, so checker actions
// are safe to retry.
type approvalService struct {
	auditRepo    portsrepo.AuditRepository
	approvalRepo portsrepo.ApprovalRepository
	coordinator  portssvc.CoordinatorSvcFacade
}

// NewApprovalService creates a new approval service.
func NewApprovalService(
	auditRepo portsrepo.AuditRepository,
	approvalRepo portsrepo.ApprovalRepository,
	coordinator portssvc.CoordinatorSvcFacade,
) portssvc.ApprovalSvcFacade {
	return &approvalService{
		auditRepo:    auditRepo,
		approvalRepo: approvalRepo,
		coordinator:  coordinator,
	}
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// Decide records a checker decision on a pending command.
func (s *approvalService) Decide(ctx context.Context, commandID string, approverID string, approve bool) (domain.Outcome, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	approvalReq, err := s.approvalRepo.FindByCommandID(ctx, commandID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Outcome{}, fmt.Errorf("%w: no approval request for command %s", apperrors.ErrUnknownCommand, commandID)
		}
		return domain.Outcome{}, fmt.Errorf("%w: failed to fetch approval request: %v", apperrors.ErrInfrastructure, err)
	}

	record, err := s.auditRepo.FindByCommandID(ctx, commandID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Outcome{}, fmt.Errorf("%w: command %s", apperrors.ErrUnknownCommand, commandID)
		}
		return domain.Outcome{}, fmt.Errorf("%w: failed to fetch command record: %v", apperrors.ErrInfrastructure, err)
	}

	// Maker and checker must differ; checked before any state change
	if record.OriginatorID == approverID {
		logger.Warn("Self-approval attempt denied", slog.String("command_id", commandID), slog.String("approver_id", approverID))
		return domain.Outcome{}, fmt.Errorf("%w: approver %s originated command %s", apperrors.ErrSelfApproval, approverID, commandID)
	}

	// Idempotent re-decision: an already-resolved command answers with its
	// recorded outcome, no error, no re-execution.
	if record.Status.IsTerminal() {
		// A crash between the record transition and closing the approval
		// row can leave the row PENDING; reconcile it here so the checker
		// worklist does not keep a dead entry.
		if approvalReq.Status == domain.ApprovalPending {
			closer := approverID
			if record.ApproverID != nil {
				closer = *record.ApproverID
			}
			closedAs := domain.ApprovalApproved
			if record.Status == domain.CommandRejected {
				closedAs = domain.ApprovalRejected
			}
			s.closeApproval(ctx, commandID, closedAs, closer, time.Now().UTC())
		}
		logger.Info("Decision on already-resolved command returns recorded outcome", slog.String("command_id", commandID), slog.String("status", string(record.Status)))
		return domain.OutcomeFromRecord(record), nil
	}

	now := time.Now().UTC()

	if !approve {
		// The command record transition is the authoritative guard; the
		// approval row follows it.
		prior, applied, err := s.auditRepo.Resolve(ctx, commandID, domain.CommandRejected, nil, "", &approverID, now)
		if err != nil {
			return domain.Outcome{}, fmt.Errorf("%w: failed to record rejection: %v", apperrors.ErrInfrastructure, err)
		}
		if !applied {
			// A concurrent decision won; return its outcome
			return domain.OutcomeFromRecord(prior), nil
		}

		s.closeApproval(ctx, commandID, domain.ApprovalRejected, approverID, now)

		logger.Info("Command rejected by checker", slog.String("command_id", commandID), slog.String("approver_id", approverID))
		return domain.Outcome{
			CommandID: commandID,
			Status:    domain.OutcomeRejected,
		}, nil
	}

	// Approve: execute through the coordinator. The PENDING -> EXECUTED
	// transition inside Execute is the single atomic guard, so concurrent
	// approvals race safely and only one invokes the handler.
	outcome, execErr := s.coordinator.Execute(ctx, record.Command, &approverID)
	if execErr != nil && errors.Is(execErr, apperrors.ErrInfrastructure) {
		// Nothing became durable; the approval stays PENDING for a retry
		return domain.Outcome{}, execErr
	}

	s.closeApproval(ctx, commandID, domain.ApprovalApproved, approverID, now)
	return outcome, execErr
}

// closeApproval resolves the approval request to match the authoritative
// command record. Best effort: losing the guarded update means a concurrent
// decision already closed it.
func (s *approvalService) closeApproval(ctx context.Context, commandID string, status domain.ApprovalStatus, approverID string, now time.Time) {
	logger := middleware.GetLoggerFromCtx(ctx)

	applied, err := s.approvalRepo.Resolve(ctx, commandID, status, approverID, now)
	if err != nil {
		logger.Error("Failed to close approval request", slog.String("command_id", commandID), slog.String("error", err.Error()))
		return
	}
	if !applied {
		logger.Debug("Approval request already closed", slog.String("command_id", commandID))
	}
}

// ListPending retrieves pending approval requests for checker worklists.
func (s *approvalService) ListPending(ctx context.Context, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	requests, nextToken, err := s.approvalRepo.ListPending(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve pending approvals: %w", err)
	}

	responses := make([]dto.ApprovalRequestResponse, len(requests))
	for i := range requests {
		responses[i] = dto.ToApprovalRequestResponse(&requests[i])
	}

	return &dto.ListApprovalsResponse{
		Approvals: responses,
		NextToken: nextToken,
	}, nil
}
