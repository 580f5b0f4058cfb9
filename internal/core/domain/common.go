package domain

import "time"

// AuditFields holds standard bookkeeping information embedded in domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference, empty for system actions
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// Actor identifies the caller of a mutating operation, resolved once per
// request from the bearer credential. There is no ambient session state.
type Actor struct {
	UserID       string
	Role         Role
	DepartmentID *string
	IP           string
}
