package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account line in a trial balance report.
type TrialBalanceRow struct {
	AccountID    string          `json:"accountID"`
	AccountName  string          `json:"accountName"`
	AccountType  AccountType     `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"`
	DebitTotal   decimal.Decimal `json:"debitTotal"`
	CreditTotal  decimal.Decimal `json:"creditTotal"`
	Balance      decimal.Decimal `json:"balance"`
}

// TrialBalanceReport groups trial balance rows with report metadata.
type TrialBalanceReport struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	GeneratedAt time.Time         `json:"generatedAt"`
}
