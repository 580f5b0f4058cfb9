package dto

import (
	"time"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
)

// CreateVendorRequest creates a vendor.
type CreateVendorRequest struct {
	Name                string  `json:"name" binding:"required"`
	RegistrationNumber  string  `json:"invoice_registration_number" binding:"regnum"`
	DefaultDepartmentID *string `json:"default_department_id"`
}

// UpdateVendorRequest updates mutable vendor fields.
type UpdateVendorRequest struct {
	Name                *string `json:"name"`
	RegistrationNumber  *string `json:"invoice_registration_number" binding:"omitempty,regnum"`
	DefaultDepartmentID *string `json:"default_department_id"`
}

// VendorResponse is the API projection of a vendor.
type VendorResponse struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	RegistrationNumber    string     `json:"invoice_registration_number"`
	RegistrationStatus    string     `json:"registration_status"`
	RegistrationCheckedAt *time.Time `json:"registration_checked_at"`
	DefaultDepartmentID   *string    `json:"default_department_id"`
}

// ToVendorResponse maps a domain vendor to its API projection.
func ToVendorResponse(v *domain.Vendor) VendorResponse {
	return VendorResponse{
		ID:                    v.VendorID,
		Name:                  v.Name,
		RegistrationNumber:    v.RegistrationNumber,
		RegistrationStatus:    string(v.RegistrationStatus),
		RegistrationCheckedAt: v.RegistrationChecked,
		DefaultDepartmentID:   v.DefaultDepartmentID,
	}
}
