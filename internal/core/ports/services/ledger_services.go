package services

import (
	"context"
	"time"

	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	"github.com/nimbusfin/coreledger/internal/dto"
)

// LedgerSvcFacade is the ledger store surface. Postings happen only through
// PostEntrySet inside a coordinator transaction; nothing else holds a writable
// reference to an account balance.
type LedgerSvcFacade interface {
	// PostEntrySet validates the balance invariant, computes signed balance
	// deltas and persists the set through the transactional repositories.
	PostEntrySet(ctx context.Context, repos portsrepo.TxRepositories, set domain.EntrySet) (*domain.EntrySet, error)

	// BuildReversal constructs the flipped-direction entry set for an
	// original, carrying the command lineage forward. It does not persist.
	BuildReversal(ctx context.Context, original domain.EntrySet, commandID string, userID string, now time.Time) domain.EntrySet

	// CreateAccount and DeactivateAccount run against transaction-bound
	// repositories: account mutations happen only inside a coordinator
	// transaction, like every other mutation.
	CreateAccount(ctx context.Context, repos portsrepo.TxRepositories, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, repos portsrepo.TxRepositories, accountID string, userID string) error

	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error)

	GetEntrySetByID(ctx context.Context, entrySetID string) (*domain.EntrySet, error)
	ListEntriesByAccount(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)
}
