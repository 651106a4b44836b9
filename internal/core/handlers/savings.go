package handlers

import (
	"context"
	"fmt"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// savingsMovementPayload is shared by deposit and withdrawal: a value movement
// between a customer savings account (liability) and the bank's cash account.
type savingsMovementPayload struct {
	SavingsAccountID string          `json:"savingsAccountID"`
	CashAccountID    string          `json:"cashAccountID"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currencyCode"`
	Notes            string          `json:"notes"`
}

func (p savingsMovementPayload) validate(ctx context.Context, repos portsrepo.TxRepositories) error {
	if p.SavingsAccountID == "" || p.CashAccountID == "" {
		return fmt.Errorf("%w: savingsAccountID and cashAccountID are required", apperrors.ErrValidation)
	}
	if p.SavingsAccountID == p.CashAccountID {
		return fmt.Errorf("%w: savings and cash accounts must differ", apperrors.ErrValidation)
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if len(p.CurrencyCode) != 3 {
		return fmt.Errorf("%w: currencyCode must be a 3-letter code", apperrors.ErrValidation)
	}

	accounts, err := repos.Ledger.FindAccountsByIDs(ctx, []string{p.SavingsAccountID, p.CashAccountID})
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, accID := range []string{p.SavingsAccountID, p.CashAccountID} {
		acc, found := accounts[accID]
		if !found {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accID)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, accID)
		}
		if acc.CurrencyCode != p.CurrencyCode {
			return fmt.Errorf("%w: account %s currency %s does not match %s", apperrors.ErrValidation, accID, acc.CurrencyCode, p.CurrencyCode)
		}
	}
	return nil
}

func (p savingsMovementPayload) entryPair(cashDirection domain.EntryDirection, description string) *domain.EntrySet {
	return &domain.EntrySet{
		Description: description,
		Entries: []domain.Entry{
			{
				AccountID:    p.CashAccountID,
				Amount:       p.Amount,
				Direction:    cashDirection,
				CurrencyCode: p.CurrencyCode,
			},
			{
				AccountID:    p.SavingsAccountID,
				Amount:       p.Amount,
				Direction:    cashDirection.Flip(),
				CurrencyCode: p.CurrencyCode,
			},
		},
	}
}

// savingsDepositHandler records a customer deposit: DEBIT cash (asset grows),
// CREDIT the savings liability.
type savingsDepositHandler struct{}

// NewSavingsDepositHandler creates the SAVINGS/DEPOSIT handler.
func NewSavingsDepositHandler() portssvc.Handler {
	return &savingsDepositHandler{}
}

var _ portssvc.Handler = (*savingsDepositHandler)(nil)

func (h *savingsDepositHandler) Validate(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) error {
	var payload savingsMovementPayload
	if err := decodePayload(cmd, &payload); err != nil {
		return err
	}
	return payload.validate(ctx, repos)
}

func (h *savingsDepositHandler) Apply(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) (*domain.Effect, error) {
	var payload savingsMovementPayload
	if err := decodePayload(cmd, &payload); err != nil {
		return nil, err
	}

	description := payload.Notes
	if description == "" {
		description = fmt.Sprintf("Deposit to %s", payload.SavingsAccountID)
	}

	return &domain.Effect{
		Result: domain.Result{
			"savingsAccountID": payload.SavingsAccountID,
			"amount":           payload.Amount.String(),
			"currencyCode":     payload.CurrencyCode,
		},
		EntrySet: payload.entryPair(domain.Debit, description),
		Events: []domain.DomainEvent{
			{
				EventType: "SAVINGS_DEPOSITED",
				Payload: map[string]any{
					"savingsAccountID": payload.SavingsAccountID,
					"amount":           payload.Amount.String(),
				},
			},
		},
	}, nil
}

// savingsWithdrawHandler records a customer withdrawal: DEBIT the savings
// liability, CREDIT cash. Withdrawals exceeding the savings balance are a
// business-rule failure, terminal for the command.
type savingsWithdrawHandler struct{}

// NewSavingsWithdrawHandler creates the SAVINGS/WITHDRAW handler.
func NewSavingsWithdrawHandler() portssvc.Handler {
	return &savingsWithdrawHandler{}
}

var _ portssvc.Handler = (*savingsWithdrawHandler)(nil)

func (h *savingsWithdrawHandler) Validate(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) error {
	var payload savingsMovementPayload
	if err := decodePayload(cmd, &payload); err != nil {
		return err
	}
	if err := payload.validate(ctx, repos); err != nil {
		return err
	}

	savingsAcc, err := repos.Ledger.FindAccountByID(ctx, payload.SavingsAccountID)
	if err != nil {
		return fmt.Errorf("failed to fetch savings account: %w", err)
	}
	if savingsAcc.Balance.LessThan(payload.Amount) {
		return fmt.Errorf("%w: insufficient funds: balance %s, requested %s", apperrors.ErrValidation, savingsAcc.Balance.String(), payload.Amount.String())
	}
	return nil
}

func (h *savingsWithdrawHandler) Apply(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) (*domain.Effect, error) {
	var payload savingsMovementPayload
	if err := decodePayload(cmd, &payload); err != nil {
		return nil, err
	}

	description := payload.Notes
	if description == "" {
		description = fmt.Sprintf("Withdrawal from %s", payload.SavingsAccountID)
	}

	return &domain.Effect{
		Result: domain.Result{
			"savingsAccountID": payload.SavingsAccountID,
			"amount":           payload.Amount.String(),
			"currencyCode":     payload.CurrencyCode,
		},
		EntrySet: payload.entryPair(domain.Credit, description),
		Events: []domain.DomainEvent{
			{
				EventType: "SAVINGS_WITHDRAWN",
				Payload: map[string]any{
					"savingsAccountID": payload.SavingsAccountID,
					"amount":           payload.Amount.String(),
				},
			},
		},
	}, nil
}
