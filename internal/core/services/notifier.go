package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nimbusfin/coreledger/internal/core/domain"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
	"github.com/nimbusfin/coreledger/internal/middleware"
)

// inProcNotifier dispatches domain events to in-process subscribers. Publish
// runs inside the coordinator's commit boundary, so subscriber errors must
// never propagate: they are logged and swallowed. Durability comes from the
// event outbox written in the same transaction, not from the subscribers.
type inProcNotifier struct {
	mu   sync.RWMutex
	subs []func(ctx context.Context, event domain.DomainEvent) error
}

// NewNotifier creates an in-process event notifier.
func NewNotifier() portssvc.Notifier {
	return &inProcNotifier{}
}

var _ portssvc.Notifier = (*inProcNotifier)(nil)

// Subscribe registers a subscriber. Intended for startup wiring; safe to call
// concurrently regardless.
func (n *inProcNotifier) Subscribe(fn func(ctx context.Context, event domain.DomainEvent) error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, fn)
}

// Publish delivers the event to every subscriber. Best effort: a failing
// subscriber is logged and the rest still run.
func (n *inProcNotifier) Publish(ctx context.Context, event domain.DomainEvent) {
	logger := middleware.GetLoggerFromCtx(ctx)

	n.mu.RLock()
	subs := make([]func(ctx context.Context, event domain.DomainEvent) error, len(n.subs))
	copy(subs, n.subs)
	n.mu.RUnlock()

	for _, fn := range subs {
		if err := fn(ctx, event); err != nil {
			logger.Warn("Event subscriber failed",
				slog.String("event_id", event.EventID),
				slog.String("event_type", event.EventType),
				slog.String("error", err.Error()))
		}
	}
}
