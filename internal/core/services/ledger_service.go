package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
	"github.com/nimbusfin/coreledger/internal/dto"
	"github.com/nimbusfin/coreledger/internal/middleware"
	"github.com/nimbusfin/coreledger/internal/utils/accounting"
)

var (
	ErrEntrySetMinEntries  = fmt.Errorf("%w: entry set must have at least two entries", apperrors.ErrValidation)
	ErrEntrySetMinAccounts = fmt.Errorf("%w: entry set must affect at least two different accounts", apperrors.ErrValidation)
	ErrAccountNotFound     = fmt.Errorf("%w: account not found", apperrors.ErrNotFound)
	ErrAccountInactive     = fmt.Errorf("%w: account is inactive", apperrors.ErrValidation)
	ErrCurrencyMismatch    = fmt.Errorf("%w: account currency does not match entry currency", apperrors.ErrValidation)
	ErrAccountNotEmpty     = fmt.Errorf("%w: account balance must be zero", apperrors.ErrValidation)
	ErrAlreadyReversed     = fmt.Errorf("%w: entry set has already been reversed", apperrors.ErrConflict)
	ErrReversalOfReversal  = fmt.Errorf("%w: cannot reverse an entry set that is itself a reversal", apperrors.ErrConflict)
)

// ledgerService provides the ledger store operations: entry set posting with
// balance-invariant enforcement, reversal construction, and account queries.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepository) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// PostEntrySet validates and persists an entry set through the transactional
// repositories. The balance invariant is enforced here, before anything is
// made durable: an unbalanced set is rejected and no entry is written.
func (s *ledgerService) PostEntrySet(ctx context.Context, repos portsrepo.TxRepositories, set domain.EntrySet) (*domain.EntrySet, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(set.Entries) < 2 {
		return nil, ErrEntrySetMinEntries
	}

	// Entry sets must move value between at least two accounts
	accountSet := make(map[string]bool)
	for _, entry := range set.Entries {
		accountSet[entry.AccountID] = true
	}
	if len(accountSet) < 2 {
		return nil, ErrEntrySetMinAccounts
	}

	if set.EntrySetID == "" {
		set.EntrySetID = uuid.NewString()
	}
	if set.Status == "" {
		set.Status = domain.Posted
	}

	now := set.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
		set.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     set.CreatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: set.CreatedBy,
		}
	}

	accountIDs := make([]string, 0, len(accountSet))
	for accID := range accountSet {
		accountIDs = append(accountIDs, accID)
	}

	for i := range set.Entries {
		if set.Entries[i].EntryID == "" {
			set.Entries[i].EntryID = uuid.NewString()
		}
		set.Entries[i].EntrySetID = set.EntrySetID
		set.Entries[i].CommandID = set.CommandID
		set.Entries[i].AuditFields = set.AuditFields
	}

	// Debits must equal credits per currency before anything is durable
	if err := accounting.ValidateEntrySetBalance(set.Entries); err != nil {
		return nil, err
	}

	accountsMap, err := repos.Ledger.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for entry set posting", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	accountTypes := make(map[string]domain.AccountType, len(accountIDs))
	for _, entry := range set.Entries {
		acc, found := accountsMap[entry.AccountID]
		if !found {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, entry.AccountID)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountInactive, entry.AccountID)
		}
		if acc.CurrencyCode != entry.CurrencyCode {
			return nil, fmt.Errorf("%w: account %s is %s, entry is %s", ErrCurrencyMismatch, entry.AccountID, acc.CurrencyCode, entry.CurrencyCode)
		}
		accountTypes[entry.AccountID] = acc.AccountType
	}

	balanceChanges, err := accounting.BalanceChanges(set.Entries, accountTypes)
	if err != nil {
		logger.Error("Failed to calculate balance changes", slog.String("error", err.Error()), slog.String("entry_set_id", set.EntrySetID))
		return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
	}

	if err := repos.Ledger.SaveEntrySet(ctx, set, balanceChanges); err != nil {
		logger.Error("Failed to save entry set", slog.String("error", err.Error()), slog.String("entry_set_id", set.EntrySetID))
		return nil, fmt.Errorf("failed to save entry set: %w", err)
	}

	logger.Info("Entry set posted", slog.String("entry_set_id", set.EntrySetID), slog.String("command_id", set.CommandID))
	return &set, nil
}

// BuildReversal constructs the compensating entry set for an original: every
// entry direction flipped, amounts unchanged, lineage carried through the
// originating command ID. The original is never mutated.
func (s *ledgerService) BuildReversal(ctx context.Context, original domain.EntrySet, commandID string, userID string, now time.Time) domain.EntrySet {
	reversal := domain.EntrySet{
		EntrySetID:         uuid.NewString(),
		CommandID:          commandID,
		Description:        fmt.Sprintf("Reversal of entry set: %s", original.EntrySetID),
		Status:             domain.Posted,
		OriginalEntrySetID: &original.EntrySetID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	reversal.Entries = make([]domain.Entry, len(original.Entries))
	for i, origEntry := range original.Entries {
		reversal.Entries[i] = domain.Entry{
			EntryID:      uuid.NewString(),
			EntrySetID:   reversal.EntrySetID,
			AccountID:    origEntry.AccountID,
			Amount:       origEntry.Amount,
			Direction:    origEntry.Direction.Flip(),
			CurrencyCode: origEntry.CurrencyCode,
			CommandID:    commandID,
			AuditFields:  reversal.AuditFields,
		}
	}

	return reversal
}

// CreateAccount opens a new ledger account with a zero balance, inside the
// caller's transaction.
func (s *ledgerService) CreateAccount(ctx context.Context, repos portsrepo.TxRepositories, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		Name:         req.Name,
		AccountType:  req.AccountType,
		CurrencyCode: req.CurrencyCode,
		Description:  req.Description,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := repos.Ledger.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID))
	return &account, nil
}

// GetAccountByID retrieves a single account.
func (s *ledgerService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.ledgerRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

// ListAccounts retrieves a paginated list of accounts.
func (s *ledgerService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	accounts, nextToken, err := s.ledgerRepo.ListAccounts(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve accounts: %w", err)
	}

	return &dto.ListAccountsResponse{
		Accounts:  dto.ToAccountResponses(accounts),
		NextToken: nextToken,
	}, nil
}

// DeactivateAccount flags an account inactive inside the caller's
// transaction. Only empty accounts may be closed; accounts are never deleted.
func (s *ledgerService) DeactivateAccount(ctx context.Context, repos portsrepo.TxRepositories, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := repos.Ledger.FindAccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if !account.Balance.IsZero() {
		return fmt.Errorf("%w: account %s has balance %s", ErrAccountNotEmpty, accountID, account.Balance.String())
	}

	if err := repos.Ledger.DeactivateAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}

// GetEntrySetByID retrieves an entry set with its entries.
func (s *ledgerService) GetEntrySetByID(ctx context.Context, entrySetID string) (*domain.EntrySet, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	set, err := s.ledgerRepo.FindEntrySetByID(ctx, entrySetID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry set", slog.String("error", err.Error()), slog.String("entry_set_id", entrySetID))
		}
		return nil, fmt.Errorf("failed to find entry set %s: %w", entrySetID, err)
	}

	entries, err := s.ledgerRepo.FindEntriesByEntrySetID(ctx, entrySetID)
	if err != nil {
		logger.Error("Failed to fetch entries for entry set", slog.String("error", err.Error()), slog.String("entry_set_id", entrySetID))
		return nil, fmt.Errorf("failed to retrieve entries for entry set %s: %w", entrySetID, apperrors.ErrInternal)
	}
	set.Entries = entries

	return set, nil
}

// ListEntriesByAccount retrieves entries for an account with pagination.
func (s *ledgerService) ListEntriesByAccount(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesByAccountID(ctx, accountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	return &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// TrialBalance generates a trial balance report as of a specific date.
func (s *ledgerService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.ledgerRepo.TrialBalanceRows(ctx, asOf)
	if err != nil {
		logger.Error("Failed to generate trial balance", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate trial balance: %w", err)
	}

	return &domain.TrialBalanceReport{
		AsOf:        asOf,
		Rows:        rows,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
