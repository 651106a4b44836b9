package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the database representation of a ledger account.
type Account struct {
	AccountID     string          `db:"account_id"`
	Name          string          `db:"name"`
	AccountType   string          `db:"account_type"`
	CurrencyCode  string          `db:"currency_code"`
	Description   string          `db:"description"`
	IsActive      bool            `db:"is_active"`
	Balance       decimal.Decimal `db:"balance"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
	LastUpdatedAt time.Time       `db:"last_updated_at"`
	LastUpdatedBy string          `db:"last_updated_by"`
}
