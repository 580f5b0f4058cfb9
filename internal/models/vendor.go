package models

import "time"

// Vendor is the database row shape of a vendor.
type Vendor struct {
	VendorID              string
	Name                  string
	RegistrationNumber    *string
	RegistrationStatus    *string
	RegistrationCheckedAt *time.Time
	DefaultDepartmentID   *string
	CreatedAt             time.Time
	CreatedBy             string
	LastUpdatedAt         time.Time
	LastUpdatedBy         string
}

// Department is the database row shape of a department.
type Department struct {
	DepartmentID  string
	Name          string
	Code          string
	IsActive      bool
	CreatedAt     time.Time
	CreatedBy     string
	LastUpdatedAt time.Time
	LastUpdatedBy string
}
