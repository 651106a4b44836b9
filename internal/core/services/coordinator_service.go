package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
	"github.com/nimbusfin/coreledger/internal/middleware"
)

// errAlreadyResolved signals inside the transaction that another writer won
// the guarded status transition. The duplicate attempt's work is rolled back
// and the prior result is returned instead.
var errAlreadyResolved = errors.New("command record already resolved")

// coordinatorService executes a cleared command as one logical transaction:
// handler mutation, entry set commit, event publish and the PENDING->EXECUTED
// command record transition all succeed together or none do.
type coordinatorService struct {
	uow       portsrepo.UnitOfWork
	auditRepo portsrepo.AuditRepository
	registry  portssvc.HandlerRegistry
	ledgerSvc portssvc.LedgerSvcFacade
	notifier  portssvc.Notifier
}

// NewCoordinatorService creates a new transaction coordinator.
func NewCoordinatorService(
	uow portsrepo.UnitOfWork,
	auditRepo portsrepo.AuditRepository,
	registry portssvc.HandlerRegistry,
	ledgerSvc portssvc.LedgerSvcFacade,
	notifier portssvc.Notifier,
) portssvc.CoordinatorSvcFacade {
	return &coordinatorService{
		uow:       uow,
		auditRepo: auditRepo,
		registry:  registry,
		ledgerSvc: ledgerSvc,
		notifier:  notifier,
	}
}

var _ portssvc.CoordinatorSvcFacade = (*coordinatorService)(nil)

// isTerminalFailure classifies errors that resolve the command to FAILED.
// Anything else is treated as a transient infrastructure failure: the record
// stays PENDING and the caller may retry safely.
func isTerminalFailure(err error) bool {
	return errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrUnbalanced) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrConflict)
}

// Execute runs the command inside one transaction boundary.
func (s *coordinatorService) Execute(ctx context.Context, cmd domain.Command, approverID *string) (domain.Outcome, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	handler, ok := s.registry.Resolve(portssvc.HandlerKey{Entity: cmd.Entity, Action: cmd.Action})
	if !ok {
		return domain.Outcome{}, fmt.Errorf("%w: %s/%s", apperrors.ErrNoHandler, cmd.Entity, cmd.Action)
	}

	var outcome domain.Outcome
	var prior *domain.CommandRecord

	txErr := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if err := handler.Validate(ctx, cmd, repos); err != nil {
			return err
		}

		effect, err := handler.Apply(ctx, cmd, repos)
		if err != nil {
			return err
		}
		if effect == nil {
			effect = &domain.Effect{}
		}

		result := effect.Result
		if result == nil {
			result = domain.Result{}
		}

		// Post the proposed entry set. An unbalanced proposal aborts the
		// whole transaction, including the handler's domain mutation, so
		// ledger and business state can never desynchronize.
		if effect.EntrySet != nil {
			set := *effect.EntrySet
			set.CommandID = cmd.CommandID
			set.CreatedBy = cmd.OriginatorID
			posted, err := s.ledgerSvc.PostEntrySet(ctx, repos, set)
			if err != nil {
				return err
			}
			result["entrySetID"] = posted.EntrySetID
		}

		now := time.Now().UTC()
		for _, event := range effect.Events {
			event.EventID = uuid.NewString()
			event.CommandID = cmd.CommandID
			event.Entity = cmd.Entity
			event.Action = cmd.Action
			event.OccurredAt = now
			if err := repos.Events.Append(ctx, event); err != nil {
				return fmt.Errorf("failed to append event: %w", err)
			}
			// Inside the commit boundary; subscriber errors are swallowed by
			// the notifier and cannot roll back the transaction.
			s.notifier.Publish(ctx, event)
		}

		// The single guarded PENDING -> EXECUTED transition. Losing the race
		// means a concurrent attempt already executed this command: roll back
		// everything this attempt did and answer with the prior result.
		priorRec, applied, err := repos.Audit.Resolve(ctx, cmd.CommandID, domain.CommandExecuted, result, "", approverID, now)
		if err != nil {
			return fmt.Errorf("failed to resolve command record: %w", err)
		}
		if !applied {
			prior = priorRec
			return errAlreadyResolved
		}

		outcome = domain.Outcome{
			CommandID: cmd.CommandID,
			Status:    domain.OutcomeExecuted,
			Result:    result,
		}
		return nil
	})

	switch {
	case txErr == nil:
		logger.Info("Command executed", slog.String("command_id", cmd.CommandID), slog.String("entity", cmd.Entity), slog.String("action", cmd.Action))
		return outcome, nil

	case errors.Is(txErr, errAlreadyResolved):
		logger.Info("Duplicate execution attempt resolved with prior result", slog.String("command_id", cmd.CommandID))
		return domain.OutcomeFromRecord(prior), nil

	case isTerminalFailure(txErr):
		// Business-rule and contract violations are terminal. The failed
		// transaction rolled back; the FAILED status write is its own tiny
		// transaction, distinct from the aborted one.
		s.markFailed(ctx, cmd.CommandID, approverID, txErr)
		return domain.Outcome{
			CommandID: cmd.CommandID,
			Status:    domain.OutcomeFailed,
			Reason:    txErr.Error(),
		}, txErr

	default:
		// Transient infrastructure failure: nothing became visible and the
		// record stays PENDING, so a retry is safe.
		logger.Error("Command execution rolled back on infrastructure failure", slog.String("command_id", cmd.CommandID), slog.String("error", txErr.Error()))
		return domain.Outcome{}, fmt.Errorf("%w: %v", apperrors.ErrInfrastructure, txErr)
	}
}

// markFailed records the terminal FAILED status with the failure reason. Best
// effort: if another writer resolved the record first, the guarded update is a
// no-op and the prior resolution stands.
func (s *coordinatorService) markFailed(ctx context.Context, commandID string, approverID *string, cause error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	prior, applied, err := s.auditRepo.Resolve(ctx, commandID, domain.CommandFailed, nil, cause.Error(), approverID, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to record command failure", slog.String("command_id", commandID), slog.String("error", err.Error()))
		return
	}
	if !applied && prior != nil {
		logger.Warn("Command already resolved while recording failure", slog.String("command_id", commandID), slog.String("prior_status", string(prior.Status)))
	}
}
