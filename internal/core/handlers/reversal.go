package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
)

// reversalPayload identifies the entry set to reverse.
type reversalPayload struct {
	EntrySetID string `json:"entrySetID"`
	Notes      string `json:"notes"`
}

// reversalHandler commits a compensating entry set with every direction
// flipped, then links the original to its reversal. The original is never
// edited or deleted; correction is always a new entry set.
type reversalHandler struct {
	ledgerSvc portssvc.LedgerSvcFacade
}

// NewReversalHandler creates the LEDGER/REVERSE handler.
func NewReversalHandler(ledgerSvc portssvc.LedgerSvcFacade) portssvc.Handler {
	return &reversalHandler{ledgerSvc: ledgerSvc}
}

var _ portssvc.Handler = (*reversalHandler)(nil)

func (h *reversalHandler) Validate(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) error {
	var payload reversalPayload
	if err := decodePayload(cmd, &payload); err != nil {
		return err
	}
	if payload.EntrySetID == "" {
		return fmt.Errorf("%w: entrySetID is required", apperrors.ErrValidation)
	}

	original, err := repos.Ledger.FindEntrySetByID(ctx, payload.EntrySetID)
	if err != nil {
		return fmt.Errorf("failed to fetch entry set: %w", err)
	}
	if original.Status != domain.Posted {
		return fmt.Errorf("%w: entry set %s status is %s, expected POSTED", apperrors.ErrConflict, payload.EntrySetID, original.Status)
	}
	if original.OriginalEntrySetID != nil {
		return fmt.Errorf("%w: entry set %s is itself a reversal", apperrors.ErrConflict, payload.EntrySetID)
	}
	return nil
}

func (h *reversalHandler) Apply(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) (*domain.Effect, error) {
	var payload reversalPayload
	if err := decodePayload(cmd, &payload); err != nil {
		return nil, err
	}

	original, err := repos.Ledger.FindEntrySetByID(ctx, payload.EntrySetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entry set: %w", err)
	}
	entries, err := repos.Ledger.FindEntriesByEntrySetID(ctx, payload.EntrySetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries for entry set %s: %w", payload.EntrySetID, err)
	}
	original.Entries = entries

	now := time.Now().UTC()
	reversal := h.ledgerSvc.BuildReversal(ctx, *original, cmd.CommandID, cmd.OriginatorID, now)
	if payload.Notes != "" {
		reversal.Description = payload.Notes
	}

	// Post directly through the transactional repositories and link the
	// original, all inside the coordinator's boundary.
	posted, err := h.ledgerSvc.PostEntrySet(ctx, repos, reversal)
	if err != nil {
		return nil, err
	}
	if err := repos.Ledger.MarkEntrySetReversed(ctx, original.EntrySetID, posted.EntrySetID, cmd.OriginatorID, now); err != nil {
		return nil, fmt.Errorf("failed to mark entry set reversed: %w", err)
	}

	return &domain.Effect{
		Result: domain.Result{
			"originalEntrySetID":  original.EntrySetID,
			"reversingEntrySetID": posted.EntrySetID,
		},
		Events: []domain.DomainEvent{
			{
				EventType: "ENTRY_SET_REVERSED",
				Payload: map[string]any{
					"originalEntrySetID":  original.EntrySetID,
					"reversingEntrySetID": posted.EntrySetID,
				},
			},
		},
	}, nil
}
