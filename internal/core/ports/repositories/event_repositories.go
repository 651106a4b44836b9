package repositories

import (
	"context"

	"github.com/nimbusfin/coreledger/internal/core/domain"
)

// EventRepository is the durable outbox for domain events. Appends happen
// inside the same transaction as the mutation the event describes, so an
// event exists iff its command committed.
type EventRepository interface {
	Append(ctx context.Context, event domain.DomainEvent) error
	ListByCommandID(ctx context.Context, commandID string) ([]domain.DomainEvent, error)
}
