package handlers_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	"github.com/nimbusfin/coreledger/internal/core/handlers"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
)

type LoanHandlerTestSuite struct {
	suite.Suite
	mockLedgerRepo *mockLedgerRepository
	repos          portsrepo.TxRepositories

	loanAccount    domain.Account
	fundingAccount domain.Account
}

func (suite *LoanHandlerTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(mockLedgerRepository)
	suite.repos = portsrepo.TxRepositories{Ledger: suite.mockLedgerRepo}

	suite.loanAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Name:         "Loan Portfolio",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.fundingAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Name:         "Fund Source",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}
}

func (suite *LoanHandlerTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		suite.loanAccount.AccountID:    suite.loanAccount,
		suite.fundingAccount.AccountID: suite.fundingAccount,
	}
}

func (suite *LoanHandlerTestSuite) disburseCommand(amount string) domain.Command {
	return domain.Command{
		CommandID:    uuid.NewString(),
		Entity:       "LOAN",
		Action:       "DISBURSE",
		OriginatorID: uuid.NewString(),
		Payload: mustPayload(map[string]any{
			"loanAccountID":    suite.loanAccount.AccountID,
			"fundingAccountID": suite.fundingAccount.AccountID,
			"amount":           amount,
			"currencyCode":     "USD",
		}),
	}
}

func (suite *LoanHandlerTestSuite) TestDisburse_Apply_BuildsDebitLoanCreditFunding() {
	handler := handlers.NewLoanDisburseHandler()
	cmd := suite.disburseCommand("2500")

	effect, err := handler.Apply(context.Background(), cmd, suite.repos)

	suite.NoError(err)
	suite.Require().NotNil(effect.EntrySet)
	suite.Len(effect.EntrySet.Entries, 2)

	byAccount := map[string]domain.Entry{}
	for _, entry := range effect.EntrySet.Entries {
		byAccount[entry.AccountID] = entry
	}
	suite.Equal(domain.Debit, byAccount[suite.loanAccount.AccountID].Direction)
	suite.Equal(domain.Credit, byAccount[suite.fundingAccount.AccountID].Direction)
	suite.True(byAccount[suite.loanAccount.AccountID].Amount.Equal(decimal.NewFromInt(2500)))

	suite.Require().Len(effect.Events, 1)
	suite.Equal("LOAN_DISBURSED", effect.Events[0].EventType)
}

func (suite *LoanHandlerTestSuite) TestDisburse_Validate_Success() {
	handler := handlers.NewLoanDisburseHandler()
	suite.mockLedgerRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(suite.accountsMap(), nil)

	err := handler.Validate(context.Background(), suite.disburseCommand("100"), suite.repos)

	suite.NoError(err)
}

func (suite *LoanHandlerTestSuite) TestDisburse_Validate_NegativeAmount() {
	handler := handlers.NewLoanDisburseHandler()

	err := handler.Validate(context.Background(), suite.disburseCommand("-5"), suite.repos)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LoanHandlerTestSuite) TestDisburse_Validate_InactiveAccount() {
	suite.fundingAccount.IsActive = false
	handler := handlers.NewLoanDisburseHandler()
	suite.mockLedgerRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(suite.accountsMap(), nil)

	err := handler.Validate(context.Background(), suite.disburseCommand("100"), suite.repos)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LoanHandlerTestSuite) TestDisburse_Validate_MalformedPayload() {
	handler := handlers.NewLoanDisburseHandler()
	cmd := domain.Command{Entity: "LOAN", Action: "DISBURSE", Payload: json.RawMessage(`{not json`)}

	err := handler.Validate(context.Background(), cmd, suite.repos)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LoanHandlerTestSuite) TestRepay_Validate_ExceedsOutstandingBalance() {
	suite.loanAccount.Balance = decimal.NewFromInt(50)
	handler := handlers.NewLoanRepayHandler()
	suite.mockLedgerRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(suite.accountsMap(), nil)
	suite.mockLedgerRepo.On("FindAccountByID", mock.Anything, suite.loanAccount.AccountID).Return(&suite.loanAccount, nil)

	cmd := suite.disburseCommand("100")
	cmd.Action = "REPAY"

	err := handler.Validate(context.Background(), cmd, suite.repos)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LoanHandlerTestSuite) TestRepay_Apply_BuildsCreditLoanDebitFunding() {
	handler := handlers.NewLoanRepayHandler()
	cmd := suite.disburseCommand("75")
	cmd.Action = "REPAY"

	effect, err := handler.Apply(context.Background(), cmd, suite.repos)

	suite.NoError(err)
	suite.Require().NotNil(effect.EntrySet)

	byAccount := map[string]domain.Entry{}
	for _, entry := range effect.EntrySet.Entries {
		byAccount[entry.AccountID] = entry
	}
	suite.Equal(domain.Credit, byAccount[suite.loanAccount.AccountID].Direction)
	suite.Equal(domain.Debit, byAccount[suite.fundingAccount.AccountID].Direction)
}

func TestLoanHandlers(t *testing.T) {
	suite.Run(t, new(LoanHandlerTestSuite))
}
