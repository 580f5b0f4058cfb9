package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/dto"
)

// departmentService manages the department master data.
type departmentService struct {
	departmentRepo portsrepo.DepartmentRepositoryFacade
	auditSvc       portssvc.AuditSvcFacade
}

// NewDepartmentService creates a new department service.
func NewDepartmentService(departmentRepo portsrepo.DepartmentRepositoryFacade, auditSvc portssvc.AuditSvcFacade) portssvc.DepartmentSvcFacade {
	return &departmentService{departmentRepo: departmentRepo, auditSvc: auditSvc}
}

var _ portssvc.DepartmentSvcFacade = (*departmentService)(nil)

func (s *departmentService) CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest, actor domain.Actor) (*domain.Department, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	existing, err := s.departmentRepo.FindDepartmentByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicate
	}

	now := time.Now()
	department := domain.Department{
		DepartmentID: uuid.NewString(),
		Name:         req.Name,
		Code:         req.Code,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.departmentRepo.SaveDepartment(ctx, department); err != nil {
		return nil, err
	}

	s.auditSvc.RecordAction(ctx, domain.AuditEntry{
		UserID:     actorUserID(actor),
		EntityType: domain.AuditEntityDepartment,
		EntityID:   department.DepartmentID,
		Action:     domain.AuditActionCreate,
		NewValues:  domain.Document{"name": department.Name, "code": department.Code},
		IPAddress:  actor.IP,
	})
	return &department, nil
}

func (s *departmentService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.departmentRepo.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	if departments == nil {
		departments = []domain.Department{}
	}
	return departments, nil
}

func (s *departmentService) UpdateDepartment(ctx context.Context, departmentID string, req dto.UpdateDepartmentRequest, actor domain.Actor) (*domain.Department, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	department, err := s.departmentRepo.FindDepartmentByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if department == nil {
		return nil, apperrors.NewNotFoundError("department " + departmentID + " not found")
	}

	if req.Code != nil && *req.Code != department.Code {
		existing, err := s.departmentRepo.FindDepartmentByCode(ctx, *req.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperrors.ErrDuplicate
		}
		department.Code = *req.Code
	}
	if req.Name != nil {
		department.Name = *req.Name
	}
	if req.IsActive != nil {
		department.IsActive = *req.IsActive
	}
	department.LastUpdatedAt = time.Now()
	department.LastUpdatedBy = actor.UserID

	if err := s.departmentRepo.UpdateDepartment(ctx, *department); err != nil {
		return nil, err
	}

	s.auditSvc.RecordAction(ctx, domain.AuditEntry{
		UserID:     actorUserID(actor),
		EntityType: domain.AuditEntityDepartment,
		EntityID:   departmentID,
		Action:     domain.AuditActionUpdate,
		NewValues:  domain.Document{"name": department.Name, "code": department.Code, "is_active": department.IsActive},
		IPAddress:  actor.IP,
	})
	return department, nil
}

// DeactivateDepartment retires a department without breaking the invoices
// and users that still reference it.
func (s *departmentService) DeactivateDepartment(ctx context.Context, departmentID string, actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin {
		return apperrors.ErrForbidden
	}
	if err := s.departmentRepo.DeactivateDepartment(ctx, departmentID, actor.UserID, time.Now()); err != nil {
		return err
	}
	s.auditSvc.RecordAction(ctx, domain.AuditEntry{
		UserID:     actorUserID(actor),
		EntityType: domain.AuditEntityDepartment,
		EntityID:   departmentID,
		Action:     domain.AuditActionUpdate,
		NewValues:  domain.Document{"is_active": false},
		IPAddress:  actor.IP,
	})
	return nil
}
