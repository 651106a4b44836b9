package dto

import (
	"time"

	"github.com/nimbusfin/coreledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryResponse is one ledger posting leg as returned to callers.
type EntryResponse struct {
	EntryID        string          `json:"entryID"`
	EntrySetID     string          `json:"entrySetID"`
	AccountID      string          `json:"accountID"`
	Amount         decimal.Decimal `json:"amount"`
	Direction      string          `json:"direction"`
	CurrencyCode   string          `json:"currencyCode"`
	CommandID      string          `json:"commandID"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ToEntryResponse converts a domain.Entry to its response DTO.
func ToEntryResponse(entry *domain.Entry) EntryResponse {
	return EntryResponse{
		EntryID:        entry.EntryID,
		EntrySetID:     entry.EntrySetID,
		AccountID:      entry.AccountID,
		Amount:         entry.Amount,
		Direction:      string(entry.Direction),
		CurrencyCode:   entry.CurrencyCode,
		CommandID:      entry.CommandID,
		RunningBalance: entry.RunningBalance,
		CreatedAt:      entry.CreatedAt,
	}
}

// ToEntryResponses converts a slice of entries to response DTOs.
func ToEntryResponses(entries []domain.Entry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}

// EntrySetResponse is a committed entry set with its entries.
type EntrySetResponse struct {
	EntrySetID          string          `json:"entrySetID"`
	CommandID           string          `json:"commandID"`
	Description         string          `json:"description,omitempty"`
	Status              string          `json:"status"`
	OriginalEntrySetID  *string         `json:"originalEntrySetID,omitempty"`
	ReversingEntrySetID *string         `json:"reversingEntrySetID,omitempty"`
	Entries             []EntryResponse `json:"entries,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	CreatedBy           string          `json:"createdBy"`
}

// ToEntrySetResponse converts a domain.EntrySet to its response DTO.
func ToEntrySetResponse(set *domain.EntrySet) EntrySetResponse {
	return EntrySetResponse{
		EntrySetID:          set.EntrySetID,
		CommandID:           set.CommandID,
		Description:         set.Description,
		Status:              string(set.Status),
		OriginalEntrySetID:  set.OriginalEntrySetID,
		ReversingEntrySetID: set.ReversingEntrySetID,
		Entries:             ToEntryResponses(set.Entries),
		CreatedAt:           set.CreatedAt,
		CreatedBy:           set.CreatedBy,
	}
}

// ListEntriesParams paginates entry listings for an account.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse is a page of entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}
