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

// loanTransferPayload is shared by loan disbursement and repayment: a value
// movement between a loan portfolio account and a funding account.
type loanTransferPayload struct {
	LoanAccountID    string          `json:"loanAccountID"`
	FundingAccountID string          `json:"fundingAccountID"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currencyCode"`
	Notes            string          `json:"notes"`
}

func (p loanTransferPayload) validate(ctx context.Context, repos portsrepo.TxRepositories) error {
	if p.LoanAccountID == "" || p.FundingAccountID == "" {
		return fmt.Errorf("%w: loanAccountID and fundingAccountID are required", apperrors.ErrValidation)
	}
	if p.LoanAccountID == p.FundingAccountID {
		return fmt.Errorf("%w: loan and funding accounts must differ", apperrors.ErrValidation)
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if len(p.CurrencyCode) != 3 {
		return fmt.Errorf("%w: currencyCode must be a 3-letter code", apperrors.ErrValidation)
	}

	accounts, err := repos.Ledger.FindAccountsByIDs(ctx, []string{p.LoanAccountID, p.FundingAccountID})
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, accID := range []string{p.LoanAccountID, p.FundingAccountID} {
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

// entryPair builds the two-legged entry set for a loan movement. Direction of
// the loan leg depends on whether value flows into or out of the portfolio.
func (p loanTransferPayload) entryPair(loanDirection domain.EntryDirection, description string) *domain.EntrySet {
	return &domain.EntrySet{
		Description: description,
		Entries: []domain.Entry{
			{
				AccountID:    p.LoanAccountID,
				Amount:       p.Amount,
				Direction:    loanDirection,
				CurrencyCode: p.CurrencyCode,
			},
			{
				AccountID:    p.FundingAccountID,
				Amount:       p.Amount,
				Direction:    loanDirection.Flip(),
				CurrencyCode: p.CurrencyCode,
			},
		},
	}
}

// loanDisburseHandler moves disbursed principal from the fund source into the
// loan portfolio: DEBIT loan portfolio, CREDIT fund source.
type loanDisburseHandler struct{}

// NewLoanDisburseHandler creates the LOAN/DISBURSE handler.
func NewLoanDisburseHandler() portssvc.Handler {
	return &loanDisburseHandler{}
}

var _ portssvc.Handler = (*loanDisburseHandler)(nil)

func (h *loanDisburseHandler) Validate(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) error {
	var payload loanTransferPayload
	if err := decodePayload(cmd, &payload); err != nil {
		return err
	}
	return payload.validate(ctx, repos)
}

func (h *loanDisburseHandler) Apply(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) (*domain.Effect, error) {
	var payload loanTransferPayload
	if err := decodePayload(cmd, &payload); err != nil {
		return nil, err
	}

	description := payload.Notes
	if description == "" {
		description = fmt.Sprintf("Loan disbursement to %s", payload.LoanAccountID)
	}

	return &domain.Effect{
		Result: domain.Result{
			"loanAccountID":    payload.LoanAccountID,
			"fundingAccountID": payload.FundingAccountID,
			"amount":           payload.Amount.String(),
			"currencyCode":     payload.CurrencyCode,
		},
		EntrySet: payload.entryPair(domain.Debit, description),
		Events: []domain.DomainEvent{
			{
				EventType: "LOAN_DISBURSED",
				Payload: map[string]any{
					"loanAccountID": payload.LoanAccountID,
					"amount":        payload.Amount.String(),
					"currencyCode":  payload.CurrencyCode,
				},
			},
		},
	}, nil
}

// loanRepayHandler returns principal from the loan portfolio to the fund
// source: CREDIT loan portfolio, DEBIT fund source.
type loanRepayHandler struct{}

// NewLoanRepayHandler creates the LOAN/REPAY handler.
func NewLoanRepayHandler() portssvc.Handler {
	return &loanRepayHandler{}
}

var _ portssvc.Handler = (*loanRepayHandler)(nil)

func (h *loanRepayHandler) Validate(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) error {
	var payload loanTransferPayload
	if err := decodePayload(cmd, &payload); err != nil {
		return err
	}
	if err := payload.validate(ctx, repos); err != nil {
		return err
	}

	// A repayment cannot exceed the outstanding portfolio balance
	loanAcc, err := repos.Ledger.FindAccountByID(ctx, payload.LoanAccountID)
	if err != nil {
		return fmt.Errorf("failed to fetch loan account: %w", err)
	}
	if loanAcc.Balance.LessThan(payload.Amount) {
		return fmt.Errorf("%w: repayment %s exceeds outstanding balance %s", apperrors.ErrValidation, payload.Amount.String(), loanAcc.Balance.String())
	}
	return nil
}

func (h *loanRepayHandler) Apply(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) (*domain.Effect, error) {
	var payload loanTransferPayload
	if err := decodePayload(cmd, &payload); err != nil {
		return nil, err
	}

	description := payload.Notes
	if description == "" {
		description = fmt.Sprintf("Loan repayment from %s", payload.LoanAccountID)
	}

	return &domain.Effect{
		Result: domain.Result{
			"loanAccountID":    payload.LoanAccountID,
			"fundingAccountID": payload.FundingAccountID,
			"amount":           payload.Amount.String(),
			"currencyCode":     payload.CurrencyCode,
		},
		EntrySet: payload.entryPair(domain.Credit, description),
		Events: []domain.DomainEvent{
			{
				EventType: "LOAN_REPAID",
				Payload: map[string]any{
					"loanAccountID": payload.LoanAccountID,
					"amount":        payload.Amount.String(),
					"currencyCode":  payload.CurrencyCode,
				},
			},
		},
	}, nil
}
