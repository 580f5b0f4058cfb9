package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/core/services"
	"github.com/hfujimori/invoice_kanri_app/internal/dto"
)

type DepartmentServiceTestSuite struct {
	suite.Suite
	mockRepo *MockDepartmentRepository
	audit    *recordingAuditSvc
	service  portssvc.DepartmentSvcFacade
	admin    domain.Actor
}

func (suite *DepartmentServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockDepartmentRepository)
	suite.audit = &recordingAuditSvc{}
	suite.service = services.NewDepartmentService(suite.mockRepo, suite.audit)
	suite.admin = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
}

func (suite *DepartmentServiceTestSuite) TestCreateDepartment_AdminOnly() {
	req := dto.CreateDepartmentRequest{Name: "経理部", Code: "KEIRI"}

	_, err := suite.service.CreateDepartment(context.Background(), req, domain.Actor{UserID: "u1", Role: domain.RoleAccountant})

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveDepartment", mock.Anything, mock.Anything)
}

func (suite *DepartmentServiceTestSuite) TestCreateDepartment_Success() {
	ctx := context.Background()
	req := dto.CreateDepartmentRequest{Name: "経理部", Code: "KEIRI"}

	suite.mockRepo.On("FindDepartmentByCode", ctx, "KEIRI").Return(nil, nil).Once()
	suite.mockRepo.On("SaveDepartment", ctx, mock.MatchedBy(func(d domain.Department) bool {
		return d.Name == req.Name && d.Code == req.Code && d.IsActive
	})).Return(nil).Once()

	department, err := suite.service.CreateDepartment(ctx, req, suite.admin)

	suite.Require().NoError(err)
	suite.NotEmpty(department.DepartmentID)
	suite.Equal([]string{domain.AuditActionCreate}, suite.audit.actions())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DepartmentServiceTestSuite) TestCreateDepartment_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateDepartmentRequest{Name: "経理部", Code: "KEIRI"}

	suite.mockRepo.On("FindDepartmentByCode", ctx, "KEIRI").
		Return(&domain.Department{DepartmentID: "existing", Code: "KEIRI"}, nil).Once()

	_, err := suite.service.CreateDepartment(ctx, req, suite.admin)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *DepartmentServiceTestSuite) TestUpdateDepartment_CodeChangeChecksUniqueness() {
	ctx := context.Background()
	newCode := "SOUMU"
	stored := &domain.Department{DepartmentID: "d-1", Name: "総務部", Code: "OLD", IsActive: true}

	suite.mockRepo.On("FindDepartmentByID", ctx, "d-1").Return(stored, nil).Once()
	suite.mockRepo.On("FindDepartmentByCode", ctx, newCode).
		Return(&domain.Department{DepartmentID: "d-2", Code: newCode}, nil).Once()

	_, err := suite.service.UpdateDepartment(ctx, "d-1", dto.UpdateDepartmentRequest{Code: &newCode}, suite.admin)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateDepartment", mock.Anything, mock.Anything)
}

func (suite *DepartmentServiceTestSuite) TestUpdateDepartment_Success() {
	ctx := context.Background()
	name := "総務部"
	stored := &domain.Department{DepartmentID: "d-1", Name: "旧名称", Code: "SOUMU", IsActive: true}

	suite.mockRepo.On("FindDepartmentByID", ctx, "d-1").Return(stored, nil).Once()
	suite.mockRepo.On("UpdateDepartment", ctx, mock.MatchedBy(func(d domain.Department) bool {
		return d.Name == name && d.LastUpdatedBy == "admin-1"
	})).Return(nil).Once()

	department, err := suite.service.UpdateDepartment(ctx, "d-1", dto.UpdateDepartmentRequest{Name: &name}, suite.admin)

	suite.Require().NoError(err)
	suite.Equal(name, department.Name)
	suite.Equal([]string{domain.AuditActionUpdate}, suite.audit.actions())
}

func (suite *DepartmentServiceTestSuite) TestDeactivateDepartment() {
	ctx := context.Background()

	suite.mockRepo.On("DeactivateDepartment", ctx, "d-1", "admin-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateDepartment(ctx, "d-1", suite.admin)

	suite.Require().NoError(err)
	suite.Equal([]string{domain.AuditActionUpdate}, suite.audit.actions())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DepartmentServiceTestSuite) TestDeactivateDepartment_AdminOnly() {
	err := suite.service.DeactivateDepartment(context.Background(), "d-1", domain.Actor{UserID: "u1", Role: domain.RoleDepartment})

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateDepartment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDepartmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DepartmentServiceTestSuite))
}
