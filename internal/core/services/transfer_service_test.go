package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/core/services"
)

type TransferServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockProvider    *MockTransferProvider
	audit           *recordingAuditSvc
	service         portssvc.TransferSvcFacade
	actor           domain.Actor
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockProvider = new(MockTransferProvider)
	suite.audit = &recordingAuditSvc{}
	suite.service = services.NewTransferService(suite.mockInvoiceRepo, suite.mockProvider, suite.audit)
	suite.actor = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleAccountant}
}

func approvedInvoice() *domain.Invoice {
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	return &domain.Invoice{
		InvoiceID:   uuid.NewString(),
		Status:      domain.StatusApproved,
		InvoiceDate: &date,
		DueDate:     &due,
		TotalAmount: dec(55000),
		VendorName:  "テスト商事",
		Description: "8月分請求",
	}
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_Success() {
	ctx := context.Background()
	inv := approvedInvoice()
	receipt := domain.Document{"id": float64(42), "company_id": float64(7)}

	suite.mockInvoiceRepo.On("WithInvoiceLock", ctx, inv.InvoiceID).Return(nil, inv).Once()
	suite.mockProvider.On("ExecuteTransfer", ctx, mock.MatchedBy(func(o portssvc.TransferOrder) bool {
		return o.InvoiceID == inv.InvoiceID &&
			o.AmountJPY == 55000 &&
			o.PartnerName == "テスト商事" &&
			o.InvoiceDate == "2026-08-01" &&
			o.DueDate == "2026-08-31"
	})).Return(receipt, nil).Once()

	got, err := suite.service.ExecuteTransfer(ctx, inv.InvoiceID, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(receipt, got)
	suite.Equal([]string{domain.AuditActionTransfer}, suite.audit.actions())
	suite.mockProvider.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_RequiresApproverRole() {
	_, err := suite.service.ExecuteTransfer(context.Background(), "inv-1", domain.Actor{UserID: "u1", Role: domain.RoleDepartment})
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "WithInvoiceLock", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_NotApprovedConflicts() {
	ctx := context.Background()
	inv := approvedInvoice()
	inv.Status = domain.StatusExtracted

	suite.mockInvoiceRepo.On("WithInvoiceLock", ctx, inv.InvoiceID).Return(nil, inv).Once()

	_, err := suite.service.ExecuteTransfer(ctx, inv.InvoiceID, suite.actor)

	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.mockProvider.AssertNotCalled(suite.T(), "ExecuteTransfer", mock.Anything, mock.Anything)
	suite.Empty(suite.audit.actions())
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_RetryAfterSuccessConflicts() {
	// A second attempt observes transferred under the lock and refuses.
	ctx := context.Background()
	inv := approvedInvoice()
	inv.Status = domain.StatusTransferred

	suite.mockInvoiceRepo.On("WithInvoiceLock", ctx, inv.InvoiceID).Return(nil, inv).Once()

	_, err := suite.service.ExecuteTransfer(ctx, inv.InvoiceID, suite.actor)

	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.mockProvider.AssertNotCalled(suite.T(), "ExecuteTransfer", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_ProviderFailureLeavesApproved() {
	ctx := context.Background()
	inv := approvedInvoice()

	suite.mockInvoiceRepo.On("WithInvoiceLock", ctx, inv.InvoiceID).Return(nil, inv).Once()
	suite.mockProvider.On("ExecuteTransfer", ctx, mock.AnythingOfType("services.TransferOrder")).
		Return(nil, apperrors.NewExternalError("freee", true, errors.New("502"))).Once()

	_, err := suite.service.ExecuteTransfer(ctx, inv.InvoiceID, suite.actor)

	suite.Require().Error(err)
	suite.True(apperrors.IsRetryable(err))
	suite.Empty(suite.audit.actions())
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_MissingAmount() {
	ctx := context.Background()
	inv := approvedInvoice()
	inv.TotalAmount = nil

	suite.mockInvoiceRepo.On("WithInvoiceLock", ctx, inv.InvoiceID).Return(nil, inv).Once()

	_, err := suite.service.ExecuteTransfer(ctx, inv.InvoiceID, suite.actor)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProvider.AssertNotCalled(suite.T(), "ExecuteTransfer", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestAuthorizationURL_FreshState() {
	suite.mockProvider.On("AuthorizationURL", mock.AnythingOfType("string")).Return("https://example.com/authorize?state=x").Once()

	url, err := suite.service.AuthorizationURL(context.Background())

	suite.Require().NoError(err)
	suite.NotEmpty(url)
	suite.mockProvider.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestCompleteAuthorization_EmptyCode() {
	_, err := suite.service.CompleteAuthorization(context.Background(), "")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
