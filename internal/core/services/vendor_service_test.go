package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/core/services"
	"github.com/hfujimori/invoice_kanri_app/internal/dto"
)

type VendorServiceTestSuite struct {
	suite.Suite
	mockRepo *MockVendorRepository
	audit    *recordingAuditSvc
	service  portssvc.VendorSvcFacade
	actor    domain.Actor
}

func (suite *VendorServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockVendorRepository)
	suite.audit = &recordingAuditSvc{}
	suite.service = services.NewVendorService(suite.mockRepo, suite.audit)
	suite.actor = domain.Actor{UserID: "user-1", Role: domain.RoleAccountant}
}

func (suite *VendorServiceTestSuite) TestCreateVendor_ViewerForbidden() {
	req := dto.CreateVendorRequest{Name: "株式会社テスト"}

	_, err := suite.service.CreateVendor(context.Background(), req, domain.Actor{UserID: "v1", Role: domain.RoleViewer})

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveVendor", mock.Anything, mock.Anything)
}

func (suite *VendorServiceTestSuite) TestCreateVendor_Success() {
	ctx := context.Background()
	req := dto.CreateVendorRequest{Name: "株式会社テスト", RegistrationNumber: "T1234567890123"}

	suite.mockRepo.On("FindVendorByName", ctx, req.Name).Return(nil, nil).Once()
	suite.mockRepo.On("SaveVendor", ctx, mock.MatchedBy(func(v domain.Vendor) bool {
		return v.Name == req.Name &&
			v.RegistrationNumber == req.RegistrationNumber &&
			v.RegistrationStatus == domain.RegistrationUnchecked
	})).Return(nil).Once()

	vendor, err := suite.service.CreateVendor(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.NotEmpty(vendor.VendorID)
	suite.Equal([]string{domain.AuditActionCreate}, suite.audit.actions())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *VendorServiceTestSuite) TestCreateVendor_DuplicateName() {
	ctx := context.Background()
	req := dto.CreateVendorRequest{Name: "株式会社テスト"}

	suite.mockRepo.On("FindVendorByName", ctx, req.Name).
		Return(&domain.Vendor{VendorID: "existing", Name: req.Name}, nil).Once()

	_, err := suite.service.CreateVendor(ctx, req, suite.actor)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *VendorServiceTestSuite) TestCreateVendor_BadRegistrationNumberFormat() {
	req := dto.CreateVendorRequest{Name: "株式会社テスト", RegistrationNumber: "1234567890123"}

	_, err := suite.service.CreateVendor(context.Background(), req, suite.actor)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindVendorByName", mock.Anything, mock.Anything)
}

func (suite *VendorServiceTestSuite) TestUpdateVendor_NumberChangeResetsRegistryCache() {
	ctx := context.Background()
	checked := time.Now().Add(-24 * time.Hour)
	newNumber := "T9876543210987"
	stored := &domain.Vendor{
		VendorID:            "v-1",
		Name:                "株式会社テスト",
		RegistrationNumber:  "T1234567890123",
		RegistrationStatus:  domain.RegistrationValid,
		RegistrationChecked: &checked,
	}

	suite.mockRepo.On("FindVendorByID", ctx, "v-1").Return(stored, nil).Once()
	suite.mockRepo.On("UpdateVendor", ctx, mock.MatchedBy(func(v domain.Vendor) bool {
		return v.RegistrationNumber == newNumber &&
			v.RegistrationStatus == domain.RegistrationUnchecked &&
			v.RegistrationChecked == nil
	})).Return(nil).Once()

	vendor, err := suite.service.UpdateVendor(ctx, "v-1", dto.UpdateVendorRequest{RegistrationNumber: &newNumber}, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.RegistrationUnchecked, vendor.RegistrationStatus)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *VendorServiceTestSuite) TestUpdateVendor_SameNumberKeepsCache() {
	ctx := context.Background()
	checked := time.Now().Add(-24 * time.Hour)
	sameNumber := "T1234567890123"
	name := "新商号"
	stored := &domain.Vendor{
		VendorID:            "v-1",
		Name:                "旧商号",
		RegistrationNumber:  sameNumber,
		RegistrationStatus:  domain.RegistrationValid,
		RegistrationChecked: &checked,
	}

	suite.mockRepo.On("FindVendorByID", ctx, "v-1").Return(stored, nil).Once()
	suite.mockRepo.On("UpdateVendor", ctx, mock.MatchedBy(func(v domain.Vendor) bool {
		return v.Name == name && v.RegistrationStatus == domain.RegistrationValid
	})).Return(nil).Once()

	_, err := suite.service.UpdateVendor(ctx, "v-1", dto.UpdateVendorRequest{Name: &name, RegistrationNumber: &sameNumber}, suite.actor)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *VendorServiceTestSuite) TestUpdateVendor_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindVendorByID", ctx, "ghost").Return(nil, nil).Once()

	_, err := suite.service.UpdateVendor(ctx, "ghost", dto.UpdateVendorRequest{}, suite.actor)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *VendorServiceTestSuite) TestListVendors_NilBecomesEmptySlice() {
	ctx := context.Background()
	suite.mockRepo.On("ListVendors", ctx).Return(nil, nil).Once()

	vendors, err := suite.service.ListVendors(ctx)

	suite.Require().NoError(err)
	suite.NotNil(vendors)
	suite.Empty(vendors)
}

func TestVendorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VendorServiceTestSuite))
}
