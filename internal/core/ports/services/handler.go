package services

import (
	"context"

	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
)

// HandlerKey identifies the handler for an (entity, action) pair. Resolved
// once at startup, never re-parsed per request.
type HandlerKey struct {
	Entity string
	Action string
}

// Handler is domain-specific logic plugged into the engine. Both methods run
// inside the coordinator's transaction boundary; repositories passed in are
// bound to that transaction.
//
// Handlers must be safe to invoke exactly once after approval at an arbitrary
// later time; the coordinator guarantees single execution via the guarded
// command record transition.
type Handler interface {
	// Validate rejects malformed or business-rule-violating commands before
	// any mutation. Failures are terminal (FAILED), not retried.
	Validate(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) error

	// Apply performs domain mutations through the transactional repositories
	// and returns the effect: result data, an optional entry set proposal,
	// and events to publish on commit.
	Apply(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) (*domain.Effect, error)
}

// HandlerRegistry maps handler keys to registered handlers.
type HandlerRegistry interface {
	Register(entity, action string, handler Handler)
	Resolve(key HandlerKey) (Handler, bool)
}

// ApprovalPolicy decides whether an (entity, action) pair requires a
// second-party approval before execution. Static configuration.
type ApprovalPolicy interface {
	RequiresApproval(key HandlerKey) bool
}

// Notifier dispatches committed domain events to in-process subscribers.
// Publish is called inside the commit boundary; subscriber failures are
// logged, never propagated, so they cannot roll back the transaction.
type Notifier interface {
	Subscribe(fn func(ctx context.Context, event domain.DomainEvent) error)
	Publish(ctx context.Context, event domain.DomainEvent)
}
