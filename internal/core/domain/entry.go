package domain

import "github.com/shopspring/decimal"

// EntryDirection indicates whether an entry line is a Debit or a Credit.
type EntryDirection string

const (
	Debit  EntryDirection = "DEBIT"
	Credit EntryDirection = "CREDIT"
)

// Flip returns the opposite direction. Used when building reversals.
func (d EntryDirection) Flip() EntryDirection {
	if d == Debit {
		return Credit
	}
	return Debit
}

// EntrySetStatus indicates the state of a committed entry set.
type EntrySetStatus string

const (
	Posted   EntrySetStatus = "POSTED"
	Reversed EntrySetStatus = "REVERSED"
)

// Entry represents a single leg of a ledger posting, affecting one account.
// Immutable once committed.
type Entry struct {
	EntryID        string          `json:"entryID"`    // Primary Key (UUID)
	EntrySetID     string          `json:"entrySetID"` // FK -> EntrySet (Not Null)
	AccountID      string          `json:"accountID"`  // FK -> Account (Not Null)
	Amount         decimal.Decimal `json:"amount"`     // Positive value; precise decimal
	Direction      EntryDirection  `json:"direction"`  // DEBIT or CREDIT
	CurrencyCode   string          `json:"currencyCode"`
	CommandID      string          `json:"commandID"` // Originating command, for audit correlation
	RunningBalance decimal.Decimal `json:"runningBalance"`
	AuditFields
}

// EntrySet is the atomic unit of ledger mutation: a balanced, non-empty set of
// entries committed together. Entry sets are append-only; correction is a new
// entry set with every direction flipped, never an edit or delete.
type EntrySet struct {
	EntrySetID          string         `json:"entrySetID"` // Primary Key (UUID)
	CommandID           string         `json:"commandID"`  // Originating command lineage
	Description         string         `json:"description"`
	Status              EntrySetStatus `json:"status"`                        // Default: Posted
	OriginalEntrySetID  *string        `json:"originalEntrySetID,omitempty"`  // Set on reversals
	ReversingEntrySetID *string        `json:"reversingEntrySetID,omitempty"` // Set on reversed originals
	Entries             []Entry        `json:"entries,omitempty"`
	AuditFields
}
