package mapping

import (
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	"github.com/hfujimori/invoice_kanri_app/internal/models"
)

// ToDomainVendor converts a vendor row to the domain vendor.
func ToDomainVendor(m models.Vendor) domain.Vendor {
	v := domain.Vendor{
		VendorID:            m.VendorID,
		Name:                m.Name,
		RegistrationNumber:  strOrEmpty(m.RegistrationNumber),
		RegistrationStatus:  domain.RegistrationUnchecked,
		RegistrationChecked: m.RegistrationCheckedAt,
		DefaultDepartmentID: m.DefaultDepartmentID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.RegistrationStatus != nil {
		v.RegistrationStatus = domain.RegistrationStatus(*m.RegistrationStatus)
	}
	return v
}

// ToModelVendor converts a domain vendor to its row.
func ToModelVendor(v domain.Vendor) models.Vendor {
	status := string(v.RegistrationStatus)
	return models.Vendor{
		VendorID:              v.VendorID,
		Name:                  v.Name,
		RegistrationNumber:    strPtrOrNil(v.RegistrationNumber),
		RegistrationStatus:    &status,
		RegistrationCheckedAt: v.RegistrationChecked,
		DefaultDepartmentID:   v.DefaultDepartmentID,
		CreatedAt:             v.CreatedAt,
		CreatedBy:             v.CreatedBy,
		LastUpdatedAt:         v.LastUpdatedAt,
		LastUpdatedBy:         v.LastUpdatedBy,
	}
}

// ToDomainDepartment converts a department row to the domain department.
func ToDomainDepartment(m models.Department) domain.Department {
	return domain.Department{
		DepartmentID: m.DepartmentID,
		Name:         m.Name,
		Code:         m.Code,
		IsActive:     m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToModelDepartment converts a domain department to its row.
func ToModelDepartment(d domain.Department) models.Department {
	return models.Department{
		DepartmentID:  d.DepartmentID,
		Name:          d.Name,
		Code:          d.Code,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}
