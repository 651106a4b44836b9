package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
)

// --- Mock AuditRepository ---

type MockAuditRepository struct {
	mock.Mock
}

var _ portsrepo.AuditRepository = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) Append(ctx context.Context, record domain.CommandRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditRepository) FindByCommandID(ctx context.Context, commandID string) (*domain.CommandRecord, error) {
	args := m.Called(ctx, commandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommandRecord), args.Error(1)
}

func (m *MockAuditRepository) Resolve(ctx context.Context, commandID string, status domain.CommandStatus, result domain.Result, reason string, approverID *string, resolvedAt time.Time) (*domain.CommandRecord, bool, error) {
	args := m.Called(ctx, commandID, status, result, reason, approverID, resolvedAt)
	var prior *domain.CommandRecord
	if args.Get(0) != nil {
		prior = args.Get(0).(*domain.CommandRecord)
	}
	return prior, args.Bool(1), args.Error(2)
}

func (m *MockAuditRepository) ListCommandRecords(ctx context.Context, filter portsrepo.CommandFilter, limit int, nextToken *string) ([]domain.CommandRecord, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		token = &tokenVal
	}
	return args.Get(0).([]domain.CommandRecord), token, args.Error(2)
}

// --- Mock ApprovalRepository ---

type MockApprovalRepository struct {
	mock.Mock
}

var _ portsrepo.ApprovalRepository = (*MockApprovalRepository)(nil)

func (m *MockApprovalRepository) Create(ctx context.Context, request domain.ApprovalRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockApprovalRepository) FindByCommandID(ctx context.Context, commandID string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, commandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalRepository) Resolve(ctx context.Context, commandID string, status domain.ApprovalStatus, approverID string, decidedAt time.Time) (bool, error) {
	args := m.Called(ctx, commandID, status, approverID, decidedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockApprovalRepository) ListPending(ctx context.Context, limit int, nextToken *string) ([]domain.ApprovalRequest, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		token = &tokenVal
	}
	return args.Get(0).([]domain.ApprovalRequest), token, args.Error(2)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepository = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockLedgerRepository) ListAccounts(ctx context.Context, limit int, nextToken *string) ([]domain.Account, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		token = &tokenVal
	}
	return args.Get(0).([]domain.Account), token, args.Error(2)
}

func (m *MockLedgerRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockLedgerRepository) SaveEntrySet(ctx context.Context, set domain.EntrySet, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, set, balanceChanges)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindEntrySetByID(ctx context.Context, entrySetID string) (*domain.EntrySet, error) {
	args := m.Called(ctx, entrySetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntrySet), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByEntrySetID(ctx context.Context, entrySetID string) ([]domain.Entry, error) {
	args := m.Called(ctx, entrySetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Entry, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		token = &tokenVal
	}
	return args.Get(0).([]domain.Entry), token, args.Error(2)
}

func (m *MockLedgerRepository) MarkEntrySetReversed(ctx context.Context, entrySetID string, reversingEntrySetID string, userID string, now time.Time) error {
	args := m.Called(ctx, entrySetID, reversingEntrySetID, userID, now)
	return args.Error(0)
}

func (m *MockLedgerRepository) TrialBalanceRows(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

// --- Mock EventRepository ---

type MockEventRepository struct {
	mock.Mock
}

var _ portsrepo.EventRepository = (*MockEventRepository)(nil)

func (m *MockEventRepository) Append(ctx context.Context, event domain.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) ListByCommandID(ctx context.Context, commandID string) ([]domain.DomainEvent, error) {
	args := m.Called(ctx, commandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DomainEvent), args.Error(1)
}

// --- Mock Coordinator ---

type MockCoordinator struct {
	mock.Mock
}

var _ portssvc.CoordinatorSvcFacade = (*MockCoordinator)(nil)

func (m *MockCoordinator) Execute(ctx context.Context, cmd domain.Command, approverID *string) (domain.Outcome, error) {
	args := m.Called(ctx, cmd, approverID)
	return args.Get(0).(domain.Outcome), args.Error(1)
}

// --- Mock Handler ---

type MockHandler struct {
	mock.Mock
}

var _ portssvc.Handler = (*MockHandler)(nil)

func (m *MockHandler) Validate(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) error {
	args := m.Called(ctx, cmd, repos)
	return args.Error(0)
}

func (m *MockHandler) Apply(ctx context.Context, cmd domain.Command, repos portsrepo.TxRepositories) (*domain.Effect, error) {
	args := m.Called(ctx, cmd, repos)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Effect), args.Error(1)
}

// --- Fake UnitOfWork ---

// fakeUnitOfWork runs the transactional function against a fixed repository
// bundle. commitErr simulates a commit failure after fn succeeds.
type fakeUnitOfWork struct {
	repos     portsrepo.TxRepositories
	beginErr  error
	commitErr error
}

var _ portsrepo.UnitOfWork = (*fakeUnitOfWork)(nil)

func (f *fakeUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	if err := fn(ctx, f.repos); err != nil {
		return err
	}
	return f.commitErr
}
