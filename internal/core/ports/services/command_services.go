package services

import (
	"context"

	"github.com/nimbusfin/coreledger/internal/core/domain"
	"github.com/nimbusfin/coreledger/internal/dto"
)

// CommandRouterSvcFacade is the inbound entry point for mutating operations.
// Any transport layer (REST, CLI, message consumer) calls Submit and nothing
// else on the write path.
type CommandRouterSvcFacade interface {
	Submit(ctx context.Context, req dto.SubmitCommandRequest, originatorID string) (domain.Outcome, error)
}

// CoordinatorSvcFacade executes a cleared command: handler mutation, entry set
// commit, event publish and command record resolution in one atomic unit.
type CoordinatorSvcFacade interface {
	Execute(ctx context.Context, cmd domain.Command, approverID *string) (domain.Outcome, error)
}

// ApprovalSvcFacade is the checker side of the maker-checker workflow.
type ApprovalSvcFacade interface {
	Decide(ctx context.Context, commandID string, approverID string, approve bool) (domain.Outcome, error)
	ListPending(ctx context.Context, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error)
}

// AuditSvcFacade serves audit log queries.
type AuditSvcFacade interface {
	GetCommandRecord(ctx context.Context, commandID string) (*domain.CommandRecord, error)
	ListCommandRecords(ctx context.Context, params dto.ListCommandsParams) (*dto.ListCommandsResponse, error)
	ListCommandEvents(ctx context.Context, commandID string) ([]dto.EventResponse, error)
}
