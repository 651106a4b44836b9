package repositories

import (
	"context"
	"time"

	"github.com/nimbusfin/coreledger/internal/core/domain"
)

// CommandFilter narrows audit log queries. Nil fields match everything.
type CommandFilter struct {
	OriginatorID *string
	Entity       *string
	After        *time.Time
}

// AuditRepository persists command records. Records are append-mostly: the
// single status resolution is the only permitted update, and nothing is ever
// deleted.
type AuditRepository interface {
	// Append durably creates a PENDING command record. Must complete before
	// any side effect of the command runs.
	Append(ctx context.Context, record domain.CommandRecord) error

	FindByCommandID(ctx context.Context, commandID string) (*domain.CommandRecord, error)

	// Resolve performs the single guarded PENDING -> terminal transition. If
	// another writer already resolved the record, applied is false and the
	// previously recorded state is returned, so the duplicate attempt can be
	// answered with the original outcome instead of an error.
	Resolve(ctx context.Context, commandID string, status domain.CommandStatus, result domain.Result, reason string, approverID *string, resolvedAt time.Time) (prior *domain.CommandRecord, applied bool, err error)

	// ListCommandRecords supports audit queries with keyset pagination.
	ListCommandRecords(ctx context.Context, filter CommandFilter, limit int, nextToken *string) ([]domain.CommandRecord, *string, error)
}
