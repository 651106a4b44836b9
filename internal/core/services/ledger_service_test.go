package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
	"github.com/nimbusfin/coreledger/internal/core/services"
	"github.com/nimbusfin/coreledger/internal/dto"
	"github.com/nimbusfin/coreledger/internal/utils/accounting"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	service        portssvc.LedgerSvcFacade
	txRepos        portsrepo.TxRepositories

	cashAccount    domain.Account
	savingsAccount domain.Account
	userID         string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo)
	suite.txRepos = portsrepo.TxRepositories{Ledger: suite.mockLedgerRepo}

	suite.userID = uuid.NewString()
	suite.cashAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Name:         "Teller Cash",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.savingsAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Name:         "Customer Savings",
		AccountType:  domain.Liability,
		CurrencyCode: "USD",
		IsActive:     true,
	}
}

func (suite *LedgerServiceTestSuite) depositSet(amount int64) domain.EntrySet {
	return domain.EntrySet{
		CommandID:   uuid.NewString(),
		Description: "deposit",
		Entries: []domain.Entry{
			{AccountID: suite.cashAccount.AccountID, Amount: decimal.NewFromInt(amount), Direction: domain.Debit, CurrencyCode: "USD"},
			{AccountID: suite.savingsAccount.AccountID, Amount: decimal.NewFromInt(amount), Direction: domain.Credit, CurrencyCode: "USD"},
		},
	}
}

func (suite *LedgerServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		suite.cashAccount.AccountID:    suite.cashAccount,
		suite.savingsAccount.AccountID: suite.savingsAccount,
	}
}

func (suite *LedgerServiceTestSuite) TestPostEntrySet_Success() {
	set := suite.depositSet(100)

	suite.mockLedgerRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(suite.accountsMap(), nil)

	var savedChanges map[string]decimal.Decimal
	suite.mockLedgerRepo.On("SaveEntrySet", mock.Anything, mock.Anything, mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		savedChanges = changes
		return true
	})).Return(nil)

	posted, err := suite.service.PostEntrySet(context.Background(), suite.txRepos, set)

	suite.NoError(err)
	suite.NotEmpty(posted.EntrySetID)
	suite.Equal(domain.Posted, posted.Status)
	for _, entry := range posted.Entries {
		suite.NotEmpty(entry.EntryID)
		suite.Equal(posted.EntrySetID, entry.EntrySetID)
		suite.Equal(set.CommandID, entry.CommandID)
	}
	// Cash (asset, debit) goes up; savings (liability, credit) goes up.
	suite.True(savedChanges[suite.cashAccount.AccountID].Equal(decimal.NewFromInt(100)))
	suite.True(savedChanges[suite.savingsAccount.AccountID].Equal(decimal.NewFromInt(100)))
}

func (suite *LedgerServiceTestSuite) TestPostEntrySet_Unbalanced() {
	set := suite.depositSet(100)
	set.Entries[1].Amount = decimal.NewFromInt(99)

	_, err := suite.service.PostEntrySet(context.Background(), suite.txRepos, set)

	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveEntrySet", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostEntrySet_PerCurrencyBalance() {
	// Balanced in total but unbalanced per currency.
	set := suite.depositSet(100)
	set.Entries[1].CurrencyCode = "EUR"

	_, err := suite.service.PostEntrySet(context.Background(), suite.txRepos, set)

	suite.ErrorIs(err, apperrors.ErrUnbalanced)
}

func (suite *LedgerServiceTestSuite) TestPostEntrySet_SingleEntryRejected() {
	set := suite.depositSet(100)
	set.Entries = set.Entries[:1]

	_, err := suite.service.PostEntrySet(context.Background(), suite.txRepos, set)

	suite.ErrorIs(err, services.ErrEntrySetMinEntries)
}

func (suite *LedgerServiceTestSuite) TestPostEntrySet_SingleAccountRejected() {
	set := suite.depositSet(100)
	set.Entries[1].AccountID = set.Entries[0].AccountID

	_, err := suite.service.PostEntrySet(context.Background(), suite.txRepos, set)

	suite.ErrorIs(err, services.ErrEntrySetMinAccounts)
}

func (suite *LedgerServiceTestSuite) TestPostEntrySet_InactiveAccount() {
	suite.savingsAccount.IsActive = false
	set := suite.depositSet(100)

	suite.mockLedgerRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(suite.accountsMap(), nil)

	_, err := suite.service.PostEntrySet(context.Background(), suite.txRepos, set)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveEntrySet", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostEntrySet_CurrencyMismatch() {
	suite.savingsAccount.CurrencyCode = "EUR"
	set := suite.depositSet(100)

	suite.mockLedgerRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(suite.accountsMap(), nil)

	_, err := suite.service.PostEntrySet(context.Background(), suite.txRepos, set)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestBuildReversal_FlipsDirectionsAndLinksLineage() {
	original := suite.depositSet(100)
	original.EntrySetID = uuid.NewString()
	for i := range original.Entries {
		original.Entries[i].EntryID = uuid.NewString()
		original.Entries[i].EntrySetID = original.EntrySetID
	}

	commandID := uuid.NewString()
	now := time.Now().UTC()
	reversal := suite.service.BuildReversal(context.Background(), original, commandID, suite.userID, now)

	suite.NotEqual(original.EntrySetID, reversal.EntrySetID)
	suite.Equal(&original.EntrySetID, reversal.OriginalEntrySetID)
	suite.Equal(commandID, reversal.CommandID)
	suite.Len(reversal.Entries, len(original.Entries))
	for i, rev := range reversal.Entries {
		orig := original.Entries[i]
		suite.Equal(orig.AccountID, rev.AccountID)
		suite.True(orig.Amount.Equal(rev.Amount))
		suite.Equal(orig.Direction.Flip(), rev.Direction)
		suite.NotEqual(orig.EntryID, rev.EntryID)
	}
}

func (suite *LedgerServiceTestSuite) TestBuildReversal_NetsBalanceChangesToZero() {
	original := suite.depositSet(100)
	original.EntrySetID = uuid.NewString()
	for i := range original.Entries {
		original.Entries[i].EntryID = uuid.NewString()
	}

	reversal := suite.service.BuildReversal(context.Background(), original, uuid.NewString(), suite.userID, time.Now().UTC())

	accountTypes := map[string]domain.AccountType{
		suite.cashAccount.AccountID:    domain.Asset,
		suite.savingsAccount.AccountID: domain.Liability,
	}
	originalChanges, err := accounting.BalanceChanges(original.Entries, accountTypes)
	suite.Require().NoError(err)
	reversalChanges, err := accounting.BalanceChanges(reversal.Entries, accountTypes)
	suite.Require().NoError(err)

	// Posting the original and then its reversal leaves every balance
	// exactly where it started.
	suite.Equal(len(originalChanges), len(reversalChanges))
	for accountID, change := range originalChanges {
		net := change.Add(reversalChanges[accountID])
		suite.True(net.IsZero(), "account %s nets to %s", accountID, net.String())
	}
}

func (suite *LedgerServiceTestSuite) TestCreateAccount_SavesThroughTxRepositories() {
	var saved domain.Account
	suite.mockLedgerRepo.On("SaveAccount", mock.Anything, mock.MatchedBy(func(acc domain.Account) bool {
		saved = acc
		return true
	})).Return(nil)

	account, err := suite.service.CreateAccount(context.Background(), suite.txRepos, dto.CreateAccountRequest{
		Name:         "Branch Cash",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(account.AccountID, saved.AccountID)
	suite.True(saved.IsActive)
	suite.True(saved.Balance.IsZero())
	suite.Equal(suite.userID, saved.CreatedBy)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeactivateAccount_Success() {
	suite.mockLedgerRepo.On("FindAccountByID", mock.Anything, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil)
	suite.mockLedgerRepo.On("DeactivateAccount", mock.Anything, suite.cashAccount.AccountID, suite.userID, mock.Anything).Return(nil)

	err := suite.service.DeactivateAccount(context.Background(), suite.txRepos, suite.cashAccount.AccountID, suite.userID)

	suite.NoError(err)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeactivateAccount_NonZeroBalance() {
	suite.cashAccount.Balance = decimal.NewFromInt(50)
	suite.mockLedgerRepo.On("FindAccountByID", mock.Anything, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil)

	err := suite.service.DeactivateAccount(context.Background(), suite.txRepos, suite.cashAccount.AccountID, suite.userID)

	suite.ErrorIs(err, services.ErrAccountNotEmpty)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTrialBalance() {
	asOf := time.Now().UTC()
	rows := []domain.TrialBalanceRow{
		{AccountID: suite.cashAccount.AccountID, AccountType: domain.Asset, DebitTotal: decimal.NewFromInt(100), CreditTotal: decimal.Zero, Balance: decimal.NewFromInt(100)},
	}
	suite.mockLedgerRepo.On("TrialBalanceRows", mock.Anything, asOf).Return(rows, nil)

	report, err := suite.service.TrialBalance(context.Background(), asOf)

	suite.NoError(err)
	suite.Equal(asOf, report.AsOf)
	suite.Len(report.Rows, 1)
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
