package handlers_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
)

// mockLedgerRepository is the ledger surface the handlers exercise.
type mockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepository = (*mockLedgerRepository)(nil)

func (m *mockLedgerRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockLedgerRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockLedgerRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *mockLedgerRepository) ListAccounts(ctx context.Context, limit int, nextToken *string) ([]domain.Account, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Account), nil, args.Error(2)
}

func (m *mockLedgerRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *mockLedgerRepository) SaveEntrySet(ctx context.Context, set domain.EntrySet, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, set, balanceChanges)
	return args.Error(0)
}

func (m *mockLedgerRepository) FindEntrySetByID(ctx context.Context, entrySetID string) (*domain.EntrySet, error) {
	args := m.Called(ctx, entrySetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntrySet), args.Error(1)
}

func (m *mockLedgerRepository) FindEntriesByEntrySetID(ctx context.Context, entrySetID string) ([]domain.Entry, error) {
	args := m.Called(ctx, entrySetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *mockLedgerRepository) ListEntriesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Entry, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Entry), nil, args.Error(2)
}

func (m *mockLedgerRepository) MarkEntrySetReversed(ctx context.Context, entrySetID string, reversingEntrySetID string, userID string, now time.Time) error {
	args := m.Called(ctx, entrySetID, reversingEntrySetID, userID, now)
	return args.Error(0)
}

func (m *mockLedgerRepository) TrialBalanceRows(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func mustPayload(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
