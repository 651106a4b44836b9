package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
	"github.com/nimbusfin/coreledger/internal/dto"
	"github.com/nimbusfin/coreledger/internal/middleware"
)

// routerService is the write-path entry point: it assigns command identity,
// appends the durable PENDING audit record before any side effect, consults
// the approval policy, and either executes synchronously or parks the command
// behind a maker-checker approval.
type routerService struct {
	auditRepo    portsrepo.AuditRepository
	approvalRepo portsrepo.ApprovalRepository
	registry     portssvc.HandlerRegistry
	policy       portssvc.ApprovalPolicy
	coordinator  portssvc.CoordinatorSvcFacade
}

// NewCommandRouterService creates a new command router.
func NewCommandRouterService(
	auditRepo portsrepo.AuditRepository,
	approvalRepo portsrepo.ApprovalRepository,
	registry portssvc.HandlerRegistry,
	policy portssvc.ApprovalPolicy,
	coordinator portssvc.CoordinatorSvcFacade,
) portssvc.CommandRouterSvcFacade {
	return &routerService{
		auditRepo:    auditRepo,
		approvalRepo: approvalRepo,
		registry:     registry,
		policy:       policy,
		coordinator:  coordinator,
	}
}

var _ portssvc.CommandRouterSvcFacade = (*routerService)(nil)

// Submit accepts a mutating operation and returns its outcome.
func (s *routerService) Submit(ctx context.Context, req dto.SubmitCommandRequest, originatorID string) (domain.Outcome, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	key := NormalizeKey(req.Entity, req.Action)

	// Reject unroutable commands before any durable write
	if _, ok := s.registry.Resolve(key); !ok {
		logger.Warn("No handler registered for command", slog.String("entity", key.Entity), slog.String("action", key.Action))
		return domain.Outcome{}, fmt.Errorf("%w: %s/%s", apperrors.ErrNoHandler, key.Entity, key.Action)
	}

	now := time.Now().UTC()
	cmd := domain.Command{
		CommandID:    uuid.NewString(),
		Entity:       key.Entity,
		Action:       key.Action,
		OriginatorID: originatorID,
		Payload:      req.Payload,
		SubmittedAt:  now,
	}

	// The PENDING audit append must be durable before any side effect runs,
	// so every attempted mutation is attributable even on crash.
	record := domain.CommandRecord{Command: cmd, Status: domain.CommandPending}
	if err := s.auditRepo.Append(ctx, record); err != nil {
		logger.Error("Failed to append command record", slog.String("command_id", cmd.CommandID), slog.String("error", err.Error()))
		return domain.Outcome{}, fmt.Errorf("%w: failed to append command record: %v", apperrors.ErrInfrastructure, err)
	}

	if s.policy.RequiresApproval(key) {
		request := domain.ApprovalRequest{
			CommandID:   cmd.CommandID,
			Status:      domain.ApprovalPending,
			RequestedAt: now,
		}
		if err := s.approvalRepo.Create(ctx, request); err != nil {
			logger.Error("Failed to create approval request", slog.String("command_id", cmd.CommandID), slog.String("error", err.Error()))
			return domain.Outcome{}, fmt.Errorf("%w: failed to create approval request: %v", apperrors.ErrInfrastructure, err)
		}

		logger.Info("Command awaiting approval", slog.String("command_id", cmd.CommandID), slog.String("entity", key.Entity), slog.String("action", key.Action))
		return domain.Outcome{
			CommandID: cmd.CommandID,
			Status:    domain.OutcomeAwaitingApproval,
		}, nil
	}

	return s.coordinator.Execute(ctx, cmd, nil)
}
