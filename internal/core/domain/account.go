package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Account represents a ledger participant. Balances are mutated only by
// committed entry sets inside the transaction coordinator. Accounts are never
// deleted; closed accounts are flagged inactive.
type Account struct {
	AccountID    string          `json:"accountID"` // Primary Key (UUID)
	Name         string          `json:"name"`
	AccountType  AccountType     `json:"accountType"`  // ASSET, LIABILITY, etc.
	CurrencyCode string          `json:"currencyCode"` // ISO 4217 code
	Description  string          `json:"description"`
	IsActive     bool            `json:"isActive"` // Closed accounts are flagged, not removed
	Balance      decimal.Decimal `json:"balance"`  // Persisted signed balance
	AuditFields
}
