package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockReportingRepository
	service  portssvc.ReportingSvcFacade
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportingRepository)
	suite.service = services.NewReportingService(suite.mockRepo)
}

func (suite *ReportingServiceTestSuite) TestSummary_AdminSeesEverything() {
	ctx := context.Background()
	expected := &domain.DashboardSummary{
		ByStatus: map[domain.InvoiceStatus]int64{domain.StatusUploaded: 3},
	}

	suite.mockRepo.On("DashboardSummary", ctx, (*string)(nil), mock.AnythingOfType("time.Time")).
		Return(expected, nil).Once()

	summary, err := suite.service.Summary(ctx, domain.Actor{UserID: "a", Role: domain.RoleAdmin})

	suite.Require().NoError(err)
	suite.Equal(expected, summary)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestSummary_DepartmentRoleIsScoped() {
	ctx := context.Background()
	deptID := "dept-1"
	expected := &domain.DashboardSummary{
		ByStatus: map[domain.InvoiceStatus]int64{domain.StatusApproved: 1},
	}

	suite.mockRepo.On("DashboardSummary", ctx, &deptID, mock.AnythingOfType("time.Time")).
		Return(expected, nil).Once()

	summary, err := suite.service.Summary(ctx, domain.Actor{UserID: "u", Role: domain.RoleDepartment, DepartmentID: &deptID})

	suite.Require().NoError(err)
	suite.Equal(expected, summary)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestSummary_DepartmentRoleWithoutDepartment() {
	summary, err := suite.service.Summary(context.Background(), domain.Actor{UserID: "u", Role: domain.RoleDepartment})

	suite.Require().NoError(err)
	suite.Empty(summary.ByStatus)
	suite.Empty(summary.ByDepartment)
	suite.mockRepo.AssertNotCalled(suite.T(), "DashboardSummary", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
