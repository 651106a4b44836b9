package repositories

import (
	"context"
	"time"

	"github.com/nimbusfin/coreledger/internal/core/domain"
)

// ApprovalRepository persists maker-checker approval requests. A request is
// durable state, so pending commands survive process restarts.
type ApprovalRepository interface {
	Create(ctx context.Context, request domain.ApprovalRequest) error
	FindByCommandID(ctx context.Context, commandID string) (*domain.ApprovalRequest, error)

	// Resolve performs the guarded PENDING -> terminal transition. Returns
	// false without error when the request was already resolved, so
	// concurrent decisions race safely.
	Resolve(ctx context.Context, commandID string, status domain.ApprovalStatus, approverID string, decidedAt time.Time) (bool, error)

	ListPending(ctx context.Context, limit int, nextToken *string) ([]domain.ApprovalRequest, *string, error)
}
