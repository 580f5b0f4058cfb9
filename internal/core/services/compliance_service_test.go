package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/core/services"
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func completeInvoice() *domain.Invoice {
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	vendorID := uuid.NewString()
	return &domain.Invoice{
		InvoiceID:          uuid.NewString(),
		Status:             domain.StatusExtracted,
		VendorID:           &vendorID,
		RegistrationNumber: "T1234567890123",
		InvoiceDate:        &date,
		Description:        "事務用品",
		RecipientName:      "株式会社サンプル",
		TaxAmount:          dec(1000),
		Tax8Amount:         dec(200),
		Tax10Amount:        dec(800),
	}
}

func TestEvaluateInvoice(t *testing.T) {
	t.Run("complete invoice passes all content checks", func(t *testing.T) {
		check := services.EvaluateInvoice(completeInvoice())
		assert.True(t, check.HasRegistrationNumber)
		assert.True(t, check.HasInvoiceDate)
		assert.True(t, check.HasDescription)
		assert.True(t, check.HasRecipientName)
		assert.True(t, check.HasTaxBreakdown)
		assert.True(t, check.HasTaxAmount)
		assert.Nil(t, check.RegistrationValid)
	})

	t.Run("description from detail lines counts", func(t *testing.T) {
		inv := completeInvoice()
		inv.Description = ""
		inv.Details = []domain.InvoiceDetail{{Description: "コピー用紙"}}
		assert.True(t, services.EvaluateInvoice(inv).HasDescription)

		inv.Details = nil
		assert.False(t, services.EvaluateInvoice(inv).HasDescription)
	})

	t.Run("tax breakdown requires a per-rate amount", func(t *testing.T) {
		inv := completeInvoice()
		inv.Tax8Amount = nil
		inv.Tax10Amount = nil
		assert.False(t, services.EvaluateInvoice(inv).HasTaxBreakdown)
	})

	t.Run("tax breakdown tolerates 1 yen of rounding", func(t *testing.T) {
		inv := completeInvoice()

		inv.TaxAmount = dec(1001) // off by exactly 1
		assert.True(t, services.EvaluateInvoice(inv).HasTaxBreakdown)

		inv.TaxAmount = dec(999)
		assert.True(t, services.EvaluateInvoice(inv).HasTaxBreakdown)

		inv.TaxAmount = dec(1002) // off by 2
		assert.False(t, services.EvaluateInvoice(inv).HasTaxBreakdown)
	})

	t.Run("missing total tax skips the agreement check", func(t *testing.T) {
		inv := completeInvoice()
		inv.TaxAmount = nil
		check := services.EvaluateInvoice(inv)
		assert.True(t, check.HasTaxBreakdown)
		assert.False(t, check.HasTaxAmount)
	})

	t.Run("line taxes must sum to the rate buckets", func(t *testing.T) {
		inv := completeInvoice()
		inv.Details = []domain.InvoiceDetail{
			{Description: "コピー用紙", Tax: dec(120), TaxRate: "8%"},
			{Description: "食品", Tax: dec(80), TaxRate: "8%"},
			{Description: "備品", Tax: dec(800), TaxRate: "10%"},
		}
		assert.True(t, services.EvaluateInvoice(inv).HasTaxBreakdown)

		inv.Details[2].Tax = dec(801) // within tolerance
		assert.True(t, services.EvaluateInvoice(inv).HasTaxBreakdown)

		inv.Details[2].Tax = dec(500)
		assert.False(t, services.EvaluateInvoice(inv).HasTaxBreakdown)
	})

	t.Run("understated line tax fails against the bucket", func(t *testing.T) {
		inv := completeInvoice()
		inv.Tax8Amount = dec(999)
		inv.Tax10Amount = nil
		inv.TaxAmount = dec(999)
		inv.Details = []domain.InvoiceDetail{{Description: "雑費", Tax: dec(1), TaxRate: "8%"}}
		assert.False(t, services.EvaluateInvoice(inv).HasTaxBreakdown)
	})

	t.Run("rated lines without per-line tax amounts still count as a breakdown", func(t *testing.T) {
		inv := completeInvoice()
		inv.Tax8Amount = nil
		inv.Tax10Amount = nil
		inv.TaxAmount = nil
		inv.Details = []domain.InvoiceDetail{{Description: "食品", Amount: dec(1080), TaxRate: "8%"}}
		assert.True(t, services.EvaluateInvoice(inv).HasTaxBreakdown)
	})

	t.Run("line tax with no matching bucket is inconsistent", func(t *testing.T) {
		inv := completeInvoice()
		inv.Tax8Amount = nil
		inv.Tax10Amount = nil
		inv.TaxAmount = nil
		inv.Details = []domain.InvoiceDetail{{Description: "食品", Tax: dec(80), TaxRate: "8%"}}
		assert.False(t, services.EvaluateInvoice(inv).HasTaxBreakdown)
	})
}

type ComplianceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo   *MockInvoiceRepository
	mockVendorRepo    *MockVendorRepository
	mockReportingRepo *MockReportingRepository
	mockRegistry      *MockRegistryClient
	audit             *recordingAuditSvc
	service           portssvc.ComplianceSvcFacade
}

func (suite *ComplianceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockVendorRepo = new(MockVendorRepository)
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockRegistry = new(MockRegistryClient)
	suite.audit = &recordingAuditSvc{}
	suite.service = services.NewComplianceService(
		suite.mockInvoiceRepo,
		suite.mockVendorRepo,
		suite.mockReportingRepo,
		suite.mockRegistry,
		suite.audit,
	)
}

func (suite *ComplianceServiceTestSuite) TestCheckInvoice_ValidRegistration() {
	ctx := context.Background()
	inv := completeInvoice()
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleAccountant}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()
	suite.mockRegistry.On("Verify", ctx, inv.RegistrationNumber).
		Return(&domain.RegistryVerification{RegistrationNumber: inv.RegistrationNumber, IsValid: true, CompanyName: "テスト商事"}, nil).Once()
	suite.mockInvoiceRepo.On("SaveComplianceResult", ctx, inv.InvoiceID, mock.MatchedBy(func(c domain.ComplianceCheck) bool {
		return c.Passed && c.RegistrationValid != nil && *c.RegistrationValid
	}), domain.RegistrationValid, inv.RegistrationNumber, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockVendorRepo.On("UpdateRegistrationCache", ctx, *inv.VendorID, inv.RegistrationNumber, domain.RegistrationValid, mock.AnythingOfType("time.Time")).Return(nil).Once()

	check, err := suite.service.CheckInvoice(ctx, inv.InvoiceID, actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(check)
	suite.True(check.Passed)
	suite.Empty(check.MissingItems)
	suite.Equal([]string{domain.AuditActionCompliance}, suite.audit.actions())

	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockRegistry.AssertExpectations(suite.T())
	suite.mockVendorRepo.AssertExpectations(suite.T())
}

func (suite *ComplianceServiceTestSuite) TestCheckInvoice_MalformedNumberSkipsRegistry() {
	ctx := context.Background()
	inv := completeInvoice()
	inv.RegistrationNumber = "12345"

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()
	suite.mockInvoiceRepo.On("SaveComplianceResult", ctx, inv.InvoiceID, mock.MatchedBy(func(c domain.ComplianceCheck) bool {
		return !c.Passed && c.RegistrationValid != nil && !*c.RegistrationValid
	}), domain.RegistrationInvalid, inv.RegistrationNumber, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockVendorRepo.On("UpdateRegistrationCache", ctx, *inv.VendorID, inv.RegistrationNumber, domain.RegistrationInvalid, mock.AnythingOfType("time.Time")).Return(nil).Once()

	check, err := suite.service.CheckInvoice(ctx, inv.InvoiceID, domain.Actor{UserID: "u1", Role: domain.RoleAdmin})

	suite.Require().NoError(err)
	suite.Contains(check.MissingItems, domain.MissingRegistrationValid)
	suite.mockRegistry.AssertNotCalled(suite.T(), "Verify", mock.Anything, mock.Anything)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *ComplianceServiceTestSuite) TestCheckInvoice_RegistryDownLeavesUnchecked() {
	ctx := context.Background()
	inv := completeInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()
	suite.mockRegistry.On("Verify", ctx, inv.RegistrationNumber).
		Return(nil, errors.New("connection refused")).Once()
	suite.mockInvoiceRepo.On("SaveComplianceResult", ctx, inv.InvoiceID, mock.MatchedBy(func(c domain.ComplianceCheck) bool {
		return c.RegistrationValid == nil && !c.Passed
	}), domain.RegistrationUnchecked, inv.RegistrationNumber, mock.AnythingOfType("time.Time")).Return(nil).Once()

	check, err := suite.service.CheckInvoice(ctx, inv.InvoiceID, domain.Actor{UserID: "u1", Role: domain.RoleAdmin})

	// Registry unavailability degrades, it does not fail the check.
	suite.Require().NoError(err)
	suite.Nil(check.RegistrationValid)
	suite.mockVendorRepo.AssertNotCalled(suite.T(), "UpdateRegistrationCache", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *ComplianceServiceTestSuite) TestCheckInvoice_TerminalStatusConflicts() {
	ctx := context.Background()
	inv := completeInvoice()
	inv.Status = domain.StatusTransferred

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()

	_, err := suite.service.CheckInvoice(ctx, inv.InvoiceID, domain.Actor{UserID: "u1", Role: domain.RoleAdmin})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveComplianceResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ComplianceServiceTestSuite) TestVerifyRegistrationNumber_FormatShortCircuit() {
	ctx := context.Background()

	verification, err := suite.service.VerifyRegistrationNumber(ctx, "not-a-number")

	suite.Require().NoError(err)
	suite.False(verification.IsValid)
	suite.mockRegistry.AssertNotCalled(suite.T(), "Verify", mock.Anything, mock.Anything)
}

func (suite *ComplianceServiceTestSuite) TestVerifyRegistrationNumber_RegistryHit() {
	ctx := context.Background()
	number := "T9876543210987"

	suite.mockRegistry.On("Verify", ctx, number).
		Return(&domain.RegistryVerification{RegistrationNumber: number, IsValid: true, CompanyName: "有限会社テスト"}, nil).Once()

	verification, err := suite.service.VerifyRegistrationNumber(ctx, number)

	suite.Require().NoError(err)
	suite.True(verification.IsValid)
	suite.Equal("有限会社テスト", verification.CompanyName)
	suite.mockRegistry.AssertExpectations(suite.T())
}

func (suite *ComplianceServiceTestSuite) TestDashboard() {
	ctx := context.Background()
	want := &domain.ComplianceDashboard{TotalInvoices: 10, ValidRegistration: 6, InvalidRegistration: 1, UncheckedRegistration: 3}
	suite.mockReportingRepo.On("ComplianceDashboard", ctx).Return(want, nil).Once()

	got, err := suite.service.Dashboard(ctx)

	suite.Require().NoError(err)
	suite.Equal(want, got)
}

func TestComplianceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ComplianceServiceTestSuite))
}
