package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
)

func entry(accountID string, amount int64, direction domain.EntryDirection, currency string) domain.Entry {
	return domain.Entry{
		AccountID:    accountID,
		Amount:       decimal.NewFromInt(amount),
		Direction:    direction,
		CurrencyCode: currency,
	}
}

func TestSignedAmount(t *testing.T) {
	testCases := []struct {
		name        string
		accountType domain.AccountType
		direction   domain.EntryDirection
		want        int64
	}{
		{"debit to asset is positive", domain.Asset, domain.Debit, 100},
		{"credit to asset is negative", domain.Asset, domain.Credit, -100},
		{"debit to expense is positive", domain.Expense, domain.Debit, 100},
		{"credit to expense is negative", domain.Expense, domain.Credit, -100},
		{"debit to liability is negative", domain.Liability, domain.Debit, -100},
		{"credit to liability is positive", domain.Liability, domain.Credit, 100},
		{"debit to equity is negative", domain.Equity, domain.Debit, -100},
		{"credit to equity is positive", domain.Equity, domain.Credit, 100},
		{"debit to income is negative", domain.Income, domain.Debit, -100},
		{"credit to income is positive", domain.Income, domain.Credit, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SignedAmount(entry("acc-1", 100, tc.direction, "USD"), tc.accountType)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.NewFromInt(tc.want)), "expected %d, got %s", tc.want, got.String())
		})
	}
}

func TestSignedAmountUnknownAccountType(t *testing.T) {
	_, err := SignedAmount(entry("acc-1", 100, domain.Debit, "USD"), domain.AccountType("BOGUS"))
	assert.Error(t, err)
}

func TestValidateEntrySetBalance(t *testing.T) {
	t.Run("balanced single currency", func(t *testing.T) {
		err := ValidateEntrySetBalance([]domain.Entry{
			entry("cash", 100, domain.Debit, "USD"),
			entry("savings", 100, domain.Credit, "USD"),
		})
		assert.NoError(t, err)
	})

	t.Run("balanced multi currency", func(t *testing.T) {
		err := ValidateEntrySetBalance([]domain.Entry{
			entry("cash-usd", 100, domain.Debit, "USD"),
			entry("savings-usd", 100, domain.Credit, "USD"),
			entry("cash-eur", 40, domain.Debit, "EUR"),
			entry("savings-eur", 40, domain.Credit, "EUR"),
		})
		assert.NoError(t, err)
	})

	t.Run("unbalanced", func(t *testing.T) {
		err := ValidateEntrySetBalance([]domain.Entry{
			entry("cash", 100, domain.Debit, "USD"),
			entry("savings", 90, domain.Credit, "USD"),
		})
		assert.ErrorIs(t, err, apperrors.ErrUnbalanced)
	})

	t.Run("balanced per currency totals but one currency off", func(t *testing.T) {
		// USD balances, EUR only has a debit leg
		err := ValidateEntrySetBalance([]domain.Entry{
			entry("cash-usd", 100, domain.Debit, "USD"),
			entry("savings-usd", 100, domain.Credit, "USD"),
			entry("cash-eur", 40, domain.Debit, "EUR"),
		})
		assert.ErrorIs(t, err, apperrors.ErrUnbalanced)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		err := ValidateEntrySetBalance([]domain.Entry{
			entry("cash", 0, domain.Debit, "USD"),
			entry("savings", 0, domain.Credit, "USD"),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("fewer than two entries", func(t *testing.T) {
		err := ValidateEntrySetBalance([]domain.Entry{
			entry("cash", 100, domain.Debit, "USD"),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestBalanceChanges(t *testing.T) {
	accountTypes := map[string]domain.AccountType{
		"cash":    domain.Asset,
		"savings": domain.Liability,
	}

	t.Run("deposit raises both balances", func(t *testing.T) {
		changes, err := BalanceChanges([]domain.Entry{
			entry("cash", 100, domain.Debit, "USD"),
			entry("savings", 100, domain.Credit, "USD"),
		}, accountTypes)
		require.NoError(t, err)
		assert.True(t, changes["cash"].Equal(decimal.NewFromInt(100)))
		assert.True(t, changes["savings"].Equal(decimal.NewFromInt(100)))
	})

	t.Run("multiple entries against one account accumulate", func(t *testing.T) {
		changes, err := BalanceChanges([]domain.Entry{
			entry("cash", 100, domain.Debit, "USD"),
			entry("cash", 30, domain.Credit, "USD"),
			entry("savings", 70, domain.Credit, "USD"),
		}, accountTypes)
		require.NoError(t, err)
		assert.True(t, changes["cash"].Equal(decimal.NewFromInt(70)))
		assert.True(t, changes["savings"].Equal(decimal.NewFromInt(70)))
	})

	t.Run("missing account type", func(t *testing.T) {
		_, err := BalanceChanges([]domain.Entry{
			entry("unknown", 100, domain.Debit, "USD"),
			entry("savings", 100, domain.Credit, "USD"),
		}, accountTypes)
		assert.Error(t, err)
	})
}
