package repositories

import (
	"context"
	"time"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
)

// VendorReader defines read operations for vendor data.
type VendorReader interface {
	FindVendorByID(ctx context.Context, vendorID string) (*domain.Vendor, error)
	FindVendorByName(ctx context.Context, name string) (*domain.Vendor, error)
	ListVendors(ctx context.Context) ([]domain.Vendor, error)

	// FindLastDepartmentForVendor returns the department of the vendor's
	// most recent classified invoice, for auto-classification.
	FindLastDepartmentForVendor(ctx context.Context, vendorID string) (*string, error)
}

// VendorWriter defines write operations for vendor data.
type VendorWriter interface {
	SaveVendor(ctx context.Context, vendor domain.Vendor) error
	UpdateVendor(ctx context.Context, vendor domain.Vendor) error

	// UpdateRegistrationCache copies the latest registry outcome onto the vendor.
	UpdateRegistrationCache(ctx context.Context, vendorID string, number string, status domain.RegistrationStatus, checkedAt time.Time) error
}

// VendorRepositoryFacade combines vendor repository interfaces.
type VendorRepositoryFacade interface {
	VendorReader
	VendorWriter
}
