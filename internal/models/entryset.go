package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySet is the database representation of a committed entry set header.
type EntrySet struct {
	EntrySetID          string    `db:"entry_set_id"`
	CommandID           string    `db:"command_id"`
	Description         string    `db:"description"`
	Status              string    `db:"status"`
	OriginalEntrySetID  *string   `db:"original_entry_set_id"`
	ReversingEntrySetID *string   `db:"reversing_entry_set_id"`
	CreatedAt           time.Time `db:"created_at"`
	CreatedBy           string    `db:"created_by"`
	LastUpdatedAt       time.Time `db:"last_updated_at"`
	LastUpdatedBy       string    `db:"last_updated_by"`
}

// Entry is the database representation of one posting leg.
type Entry struct {
	EntryID        string          `db:"entry_id"`
	EntrySetID     string          `db:"entry_set_id"`
	AccountID      string          `db:"account_id"`
	Amount         decimal.Decimal `db:"amount"`
	Direction      string          `db:"direction"`
	CurrencyCode   string          `db:"currency_code"`
	CommandID      string          `db:"command_id"`
	RunningBalance decimal.Decimal `db:"running_balance"`
	CreatedAt      time.Time       `db:"created_at"`
	CreatedBy      string          `db:"created_by"`
	LastUpdatedAt  time.Time       `db:"last_updated_at"`
	LastUpdatedBy  string          `db:"last_updated_by"`
}
