package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
	"github.com/nimbusfin/coreledger/internal/core/services"
	"github.com/nimbusfin/coreledger/internal/dto"
)

type RouterServiceTestSuite struct {
	suite.Suite
	mockAuditRepo    *MockAuditRepository
	mockApprovalRepo *MockApprovalRepository
	mockCoordinator  *MockCoordinator
	registry         portssvc.HandlerRegistry
	service          portssvc.CommandRouterSvcFacade

	originatorID string
}

func (suite *RouterServiceTestSuite) SetupTest() {
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.mockApprovalRepo = new(MockApprovalRepository)
	suite.mockCoordinator = new(MockCoordinator)

	suite.registry = services.NewHandlerRegistry()
	suite.registry.Register("SAVINGS", "DEPOSIT", new(MockHandler))
	suite.registry.Register("LOAN", "DISBURSE", new(MockHandler))

	policy := services.NewStaticApprovalPolicy([]string{"LOAN:DISBURSE"})
	suite.service = services.NewCommandRouterService(suite.mockAuditRepo, suite.mockApprovalRepo, suite.registry, policy, suite.mockCoordinator)

	suite.originatorID = uuid.NewString()
}

func (suite *RouterServiceTestSuite) TestSubmit_NoHandlerRejectedBeforeDurableWrite() {
	req := dto.SubmitCommandRequest{Entity: "FX", Action: "SETTLE", Payload: json.RawMessage(`{}`)}

	_, err := suite.service.Submit(context.Background(), req, suite.originatorID)

	suite.ErrorIs(err, apperrors.ErrNoHandler)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "Append", mock.Anything, mock.Anything)
}

func (suite *RouterServiceTestSuite) TestSubmit_AppendsPendingRecordBeforeExecution() {
	req := dto.SubmitCommandRequest{Entity: "savings", Action: "deposit", Payload: json.RawMessage(`{"amount":"100"}`)}

	var appended domain.CommandRecord
	suite.mockAuditRepo.On("Append", mock.Anything, mock.MatchedBy(func(rec domain.CommandRecord) bool {
		appended = rec
		return rec.Status == domain.CommandPending &&
			rec.Entity == "SAVINGS" && rec.Action == "DEPOSIT" &&
			rec.OriginatorID == suite.originatorID &&
			rec.CommandID != ""
	})).Return(nil)
	suite.mockCoordinator.On("Execute", mock.Anything, mock.Anything, (*string)(nil)).Return(domain.Outcome{Status: domain.OutcomeExecuted}, nil)

	outcome, err := suite.service.Submit(context.Background(), req, suite.originatorID)

	suite.NoError(err)
	suite.Equal(domain.OutcomeExecuted, outcome.Status)
	suite.NotEmpty(appended.CommandID)
	suite.mockAuditRepo.AssertExpectations(suite.T())
	suite.mockCoordinator.AssertExpectations(suite.T())
}

func (suite *RouterServiceTestSuite) TestSubmit_ApprovalRequiredParksCommand() {
	req := dto.SubmitCommandRequest{Entity: "LOAN", Action: "DISBURSE", Payload: json.RawMessage(`{}`)}

	suite.mockAuditRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	suite.mockApprovalRepo.On("Create", mock.Anything, mock.MatchedBy(func(r domain.ApprovalRequest) bool {
		return r.Status == domain.ApprovalPending && r.CommandID != ""
	})).Return(nil)

	outcome, err := suite.service.Submit(context.Background(), req, suite.originatorID)

	suite.NoError(err)
	suite.Equal(domain.OutcomeAwaitingApproval, outcome.Status)
	suite.NotEmpty(outcome.CommandID)
	suite.mockCoordinator.AssertNotCalled(suite.T(), "Execute", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RouterServiceTestSuite) TestSubmit_AppendFailureIsInfrastructure() {
	req := dto.SubmitCommandRequest{Entity: "SAVINGS", Action: "DEPOSIT", Payload: json.RawMessage(`{}`)}

	suite.mockAuditRepo.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := suite.service.Submit(context.Background(), req, suite.originatorID)

	suite.ErrorIs(err, apperrors.ErrInfrastructure)
	suite.mockCoordinator.AssertNotCalled(suite.T(), "Execute", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouterService(t *testing.T) {
	suite.Run(t, new(RouterServiceTestSuite))
}
