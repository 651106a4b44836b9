package accounting

import (
	"fmt"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the correct sign to an entry amount based on account
// type and entry direction. Used in both services and repositories so balance
// arithmetic stays consistent.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/INCOME -> Negative (-)
// CREDIT to LIABILITY/EQUITY/INCOME -> Positive (+)
func SignedAmount(entry domain.Entry, accountType domain.AccountType) (decimal.Decimal, error) {
	signedAmount := entry.Amount
	isDebit := entry.Direction == domain.Debit

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signedAmount = signedAmount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Income:
		if isDebit {
			signedAmount = signedAmount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, entry.AccountID)
	}
	return signedAmount, nil
}

// ValidateEntrySetBalance enforces the ledger invariant: for every currency in
// the set, the sum of debit amounts equals the sum of credit amounts. Amounts
// must be positive. Violations are reported before anything is made durable.
func ValidateEntrySetBalance(entries []domain.Entry) error {
	if len(entries) < 2 {
		return fmt.Errorf("%w: entry set must have at least two entries", apperrors.ErrValidation)
	}

	zero := decimal.NewFromInt(0)
	debitSums := make(map[string]decimal.Decimal)
	creditSums := make(map[string]decimal.Decimal)

	for _, entry := range entries {
		if entry.Amount.LessThanOrEqual(zero) {
			return fmt.Errorf("%w: entry amount must be positive for account %s", apperrors.ErrValidation, entry.AccountID)
		}
		if entry.Direction == domain.Debit {
			debitSums[entry.CurrencyCode] = debitSums[entry.CurrencyCode].Add(entry.Amount)
		} else {
			creditSums[entry.CurrencyCode] = creditSums[entry.CurrencyCode].Add(entry.Amount)
		}
	}

	currencies := make(map[string]struct{}, len(debitSums))
	for code := range debitSums {
		currencies[code] = struct{}{}
	}
	for code := range creditSums {
		currencies[code] = struct{}{}
	}

	for code := range currencies {
		debits := debitSums[code]
		credits := creditSums[code]
		if !debits.Equal(credits) {
			return fmt.Errorf("%w: currency %s has debits %s and credits %s",
				apperrors.ErrUnbalanced, code, debits.String(), credits.String())
		}
	}

	return nil
}

// BalanceChanges computes the net signed balance delta per account for a set
// of entries, given each account's type.
func BalanceChanges(entries []domain.Entry, accountTypes map[string]domain.AccountType) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal)
	for _, entry := range entries {
		accountType, ok := accountTypes[entry.AccountID]
		if !ok {
			return nil, fmt.Errorf("account type not found for account ID %s", entry.AccountID)
		}
		signedAmount, err := SignedAmount(entry, accountType)
		if err != nil {
			return nil, fmt.Errorf("error calculating signed amount for entry %s: %w", entry.EntryID, err)
		}
		changes[entry.AccountID] = changes[entry.AccountID].Add(signedAmount)
	}
	return changes, nil
}
