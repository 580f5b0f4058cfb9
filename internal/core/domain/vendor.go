package domain

import "time"

// Vendor is an invoice issuer. The registration fields are a cache of the
// latest registry outcome for the vendor's qualified-invoice number.
type Vendor struct {
	VendorID             string             `json:"vendorID"`
	Name                 string             `json:"name"`
	RegistrationNumber   string             `json:"registrationNumber"`
	RegistrationStatus   RegistrationStatus `json:"registrationStatus"`
	RegistrationChecked  *time.Time         `json:"registrationCheckedAt"`
	DefaultDepartmentID  *string            `json:"defaultDepartmentID"`
	AuditFields
}

// Department groups invoices and users for reporting and access scoping.
type Department struct {
	DepartmentID string `json:"departmentID"`
	Name         string `json:"name"`
	Code         string `json:"code"` // unique
	IsActive     bool   `json:"isActive"`
	AuditFields
}
