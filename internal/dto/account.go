package dto

import (
	"time"

	"github.com/nimbusfin/coreledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest opens a new ledger account.
type CreateAccountRequest struct {
	Name         string             `json:"name" binding:"required"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	CurrencyCode string             `json:"currencyCode" binding:"required,len=3"`
	Description  string             `json:"description"`
}

// AccountResponse is an account as returned to callers.
type AccountResponse struct {
	AccountID    string          `json:"accountID"`
	Name         string          `json:"name"`
	AccountType  string          `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"`
	Description  string          `json:"description,omitempty"`
	IsActive     bool            `json:"isActive"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    acc.AccountID,
		Name:         acc.Name,
		AccountType:  string(acc.AccountType),
		CurrencyCode: acc.CurrencyCode,
		Description:  acc.Description,
		IsActive:     acc.IsActive,
		Balance:      acc.Balance,
		CreatedAt:    acc.CreatedAt,
		CreatedBy:    acc.CreatedBy,
	}
}

// ToAccountResponses converts a slice of accounts to response DTOs.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}

// ListAccountsParams paginates account listings.
type ListAccountsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListAccountsResponse is a page of accounts.
type ListAccountsResponse struct {
	Accounts  []AccountResponse `json:"accounts"`
	NextToken *string           `json:"nextToken,omitempty"`
}
