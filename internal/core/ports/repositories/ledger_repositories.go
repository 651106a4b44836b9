package repositories

import (
	"context"
	"time"

	"github.com/nimbusfin/coreledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRepository persists accounts, entry sets and entries. Balance updates
// serialize per account via row locking inside SaveEntrySet; entry sets
// touching disjoint accounts commit independently.
type LedgerRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, limit int, nextToken *string) ([]domain.Account, *string, error)

	// DeactivateAccount flags the account inactive. Accounts are never deleted.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error

	// SaveEntrySet persists the entry set and applies the signed balance
	// deltas to every referenced account as one atomic operation, locking the
	// account rows for update. The caller has already validated the balance
	// invariant; the repository is the last line of defense and re-checks it.
	SaveEntrySet(ctx context.Context, set domain.EntrySet, balanceChanges map[string]decimal.Decimal) error

	FindEntrySetByID(ctx context.Context, entrySetID string) (*domain.EntrySet, error)
	FindEntriesByEntrySetID(ctx context.Context, entrySetID string) ([]domain.Entry, error)
	ListEntriesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Entry, *string, error)

	// MarkEntrySetReversed links an original entry set to its reversal and
	// flips its status. The original's entries are never touched.
	MarkEntrySetReversed(ctx context.Context, entrySetID string, reversingEntrySetID string, userID string, now time.Time) error

	// TrialBalanceRows aggregates per-account debit and credit totals as of a
	// point in time.
	TrialBalanceRows(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)
}
