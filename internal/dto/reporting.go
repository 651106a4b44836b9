package dto

import (
	"time"

	"github.com/nimbusfin/coreledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse is one account line of a trial balance.
type TrialBalanceRowResponse struct {
	AccountID    string          `json:"accountID"`
	AccountName  string          `json:"accountName"`
	AccountType  string          `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"`
	DebitTotal   decimal.Decimal `json:"debitTotal"`
	CreditTotal  decimal.Decimal `json:"creditTotal"`
	Balance      decimal.Decimal `json:"balance"`
}

// TrialBalanceResponse is the full trial balance report.
type TrialBalanceResponse struct {
	AsOf        time.Time                 `json:"asOf"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	GeneratedAt time.Time                 `json:"generatedAt"`
}

// ToTrialBalanceResponse converts a domain report to its response DTO.
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(report.Rows))
	for i, row := range report.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID:    row.AccountID,
			AccountName:  row.AccountName,
			AccountType:  string(row.AccountType),
			CurrencyCode: row.CurrencyCode,
			DebitTotal:   row.DebitTotal,
			CreditTotal:  row.CreditTotal,
			Balance:      row.Balance,
		}
	}
	return TrialBalanceResponse{
		AsOf:        report.AsOf,
		Rows:        rows,
		GeneratedAt: report.GeneratedAt,
	}
}
