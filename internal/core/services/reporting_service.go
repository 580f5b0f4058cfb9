package services

import (
	"context"
	"time"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
)

// reportingService serves the dashboard read projection. Everything is
// recomputed per request against the request-time clock; there is no cache
// to invalidate when invoices change.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// Summary computes the dashboard. Department-role callers only see their own
// department's slice of the counts.
func (s *reportingService) Summary(ctx context.Context, actor domain.Actor) (*domain.DashboardSummary, error) {
	var departmentID *string
	if actor.Role == domain.RoleDepartment {
		if actor.DepartmentID == nil {
			return &domain.DashboardSummary{
				ByStatus:     map[domain.InvoiceStatus]int64{},
				ByDepartment: []domain.DepartmentTotal{},
			}, nil
		}
		departmentID = actor.DepartmentID
	}
	return s.reportingRepo.DashboardSummary(ctx, departmentID, time.Now())
}
