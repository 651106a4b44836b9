package handlers

import (
	"context"
	"fmt"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
	"github.com/nimbusfin/coreledger/internal/dto"
)

// accountOpenPayload describes a new chart-of-accounts entry. Pure
// configuration: no entry set is produced.
type accountOpenPayload struct {
	Name         string `json:"name"`
	AccountType  string `json:"accountType"`
	CurrencyCode string `json:"currencyCode"`
	Description  string `json:"description"`
}

var validAccountTypes = map[domain.AccountType]bool{
	domain.Asset:     true,
	domain.Liability: true,
	domain.Equity:    true,
	domain.Income:    true,
	domain.Expense:   true,
}

// accountOpenHandler creates a ledger account through the command pipeline so
// chart-of-accounts changes carry the same audit trail as postings.
type accountOpenHandler struct {
	ledgerSvc portssvc.LedgerSvcFacade
}

// NewAccountOpenHandler creates the ACCOUNT/OPEN handler.
func NewAccountOpenHandler(ledgerSvc portssvc.LedgerSvcFacade) portssvc.Handler {
	return &accountOpenHandler{ledgerSvc: ledgerSvc}
}

var _ portssvc.Handler = (*accountOpenHandler)(nil)

func (h *accountOpenHandler) Validate(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) error {
	var payload accountOpenPayload
	if err := decodePayload(cmd, &payload); err != nil {
		return err
	}
	if payload.Name == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if !validAccountTypes[domain.AccountType(payload.AccountType)] {
		return fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, payload.AccountType)
	}
	if len(payload.CurrencyCode) != 3 {
		return fmt.Errorf("%w: currencyCode must be a 3-letter code", apperrors.ErrValidation)
	}
	return nil
}

func (h *accountOpenHandler) Apply(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) (*domain.Effect, error) {
	var payload accountOpenPayload
	if err := decodePayload(cmd, &payload); err != nil {
		return nil, err
	}

	account, err := h.ledgerSvc.CreateAccount(ctx, repos, dto.CreateAccountRequest{
		Name:         payload.Name,
		AccountType:  domain.AccountType(payload.AccountType),
		CurrencyCode: payload.CurrencyCode,
		Description:  payload.Description,
	}, cmd.OriginatorID)
	if err != nil {
		return nil, err
	}

	return &domain.Effect{
		Result: domain.Result{
			"accountID": account.AccountID,
		},
		Events: []domain.DomainEvent{
			{
				EventType: "ACCOUNT_OPENED",
				Payload: map[string]any{
					"accountID":   account.AccountID,
					"accountType": payload.AccountType,
				},
			},
		},
	}, nil
}

// accountClosePayload identifies the account to close.
type accountClosePayload struct {
	AccountID string `json:"accountID"`
}

// accountCloseHandler flags an account inactive. Accounts are never deleted,
// and only an account with a zero balance may be closed.
type accountCloseHandler struct {
	ledgerSvc portssvc.LedgerSvcFacade
}

// NewAccountCloseHandler creates the ACCOUNT/CLOSE handler.
func NewAccountCloseHandler(ledgerSvc portssvc.LedgerSvcFacade) portssvc.Handler {
	return &accountCloseHandler{ledgerSvc: ledgerSvc}
}

var _ portssvc.Handler = (*accountCloseHandler)(nil)

func (h *accountCloseHandler) Validate(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) error {
	var payload accountClosePayload
	if err := decodePayload(cmd, &payload); err != nil {
		return err
	}
	if payload.AccountID == "" {
		return fmt.Errorf("%w: accountID is required", apperrors.ErrValidation)
	}

	account, err := repos.Ledger.FindAccountByID(ctx, payload.AccountID)
	if err != nil {
		return fmt.Errorf("failed to fetch account: %w", err)
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is already closed", apperrors.ErrConflict, payload.AccountID)
	}
	if !account.Balance.IsZero() {
		return fmt.Errorf("%w: account %s has balance %s", apperrors.ErrValidation, payload.AccountID, account.Balance.String())
	}
	return nil
}

func (h *accountCloseHandler) Apply(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) (*domain.Effect, error) {
	var payload accountClosePayload
	if err := decodePayload(cmd, &payload); err != nil {
		return nil, err
	}

	if err := h.ledgerSvc.DeactivateAccount(ctx, repos, payload.AccountID, cmd.OriginatorID); err != nil {
		return nil, err
	}

	return &domain.Effect{
		Result: domain.Result{
			"accountID": payload.AccountID,
		},
		Events: []domain.DomainEvent{
			{
				EventType: "ACCOUNT_CLOSED",
				Payload: map[string]any{
					"accountID": payload.AccountID,
				},
			},
		},
	}, nil
}
