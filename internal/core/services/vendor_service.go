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

// vendorService manages the vendor master data. Uploads also create vendors
// implicitly; this service covers the explicit management surface.
type vendorService struct {
	vendorRepo portsrepo.VendorRepositoryFacade
	auditSvc   portssvc.AuditSvcFacade
}

// NewVendorService creates a new vendor service.
func NewVendorService(vendorRepo portsrepo.VendorRepositoryFacade, auditSvc portssvc.AuditSvcFacade) portssvc.VendorSvcFacade {
	return &vendorService{vendorRepo: vendorRepo, auditSvc: auditSvc}
}

var _ portssvc.VendorSvcFacade = (*vendorService)(nil)

func (s *vendorService) CreateVendor(ctx context.Context, req dto.CreateVendorRequest, actor domain.Actor) (*domain.Vendor, error) {
	if actor.Role == domain.RoleViewer {
		return nil, apperrors.ErrForbidden
	}
	if req.RegistrationNumber != "" && !domain.IsRegistrationNumberFormat(req.RegistrationNumber) {
		return nil, apperrors.NewValidationError("registration number must be T followed by 13 digits")
	}
	existing, err := s.vendorRepo.FindVendorByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicate
	}

	now := time.Now()
	vendor := domain.Vendor{
		VendorID:            uuid.NewString(),
		Name:                req.Name,
		RegistrationNumber:  req.RegistrationNumber,
		RegistrationStatus:  domain.RegistrationUnchecked,
		DefaultDepartmentID: req.DefaultDepartmentID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.vendorRepo.SaveVendor(ctx, vendor); err != nil {
		return nil, err
	}

	s.auditSvc.RecordAction(ctx, domain.AuditEntry{
		UserID:     actorUserID(actor),
		EntityType: domain.AuditEntityVendor,
		EntityID:   vendor.VendorID,
		Action:     domain.AuditActionCreate,
		NewValues:  domain.Document{"name": vendor.Name, "registration_number": vendor.RegistrationNumber},
		IPAddress:  actor.IP,
	})
	return &vendor, nil
}

func (s *vendorService) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	vendors, err := s.vendorRepo.ListVendors(ctx)
	if err != nil {
		return nil, err
	}
	if vendors == nil {
		vendors = []domain.Vendor{}
	}
	return vendors, nil
}

func (s *vendorService) UpdateVendor(ctx context.Context, vendorID string, req dto.UpdateVendorRequest, actor domain.Actor) (*domain.Vendor, error) {
	if actor.Role == domain.RoleViewer {
		return nil, apperrors.ErrForbidden
	}
	vendor, err := s.vendorRepo.FindVendorByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, apperrors.NewNotFoundError("vendor " + vendorID + " not found")
	}

	if req.Name != nil {
		vendor.Name = *req.Name
	}
	if req.RegistrationNumber != nil && *req.RegistrationNumber != vendor.RegistrationNumber {
		if *req.RegistrationNumber != "" && !domain.IsRegistrationNumberFormat(*req.RegistrationNumber) {
			return nil, apperrors.NewValidationError("registration number must be T followed by 13 digits")
		}
		vendor.RegistrationNumber = *req.RegistrationNumber
		// A changed number invalidates the cached registry outcome.
		vendor.RegistrationStatus = domain.RegistrationUnchecked
		vendor.RegistrationChecked = nil
	}
	if req.DefaultDepartmentID != nil {
		vendor.DefaultDepartmentID = req.DefaultDepartmentID
	}
	vendor.LastUpdatedAt = time.Now()
	vendor.LastUpdatedBy = actor.UserID

	if err := s.vendorRepo.UpdateVendor(ctx, *vendor); err != nil {
		return nil, err
	}

	s.auditSvc.RecordAction(ctx, domain.AuditEntry{
		UserID:     actorUserID(actor),
		EntityType: domain.AuditEntityVendor,
		EntityID:   vendorID,
		Action:     domain.AuditActionUpdate,
		NewValues:  domain.Document{"name": vendor.Name, "registration_number": vendor.RegistrationNumber},
		IPAddress:  actor.IP,
	})
	return vendor, nil
}
