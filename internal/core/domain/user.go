package domain

import "time"

// Role scopes what a user may do. Department users only see their own
// department's invoices; approve/reject/transfer require admin or accountant.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleAccountant Role = "accountant"
	RoleDepartment Role = "department"
	RoleViewer     Role = "viewer"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAccountant, RoleDepartment, RoleViewer:
		return true
	}
	return false
}

// CanApprove reports whether the role may approve, reject or transfer invoices.
func (r Role) CanApprove() bool {
	return r == RoleAdmin || r == RoleAccountant
}

// User represents an application user in the domain.
type User struct {
	UserID       string  `json:"userID"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	PasswordHash string  `json:"-"`
	Role         Role    `json:"role"`
	DepartmentID *string `json:"departmentID"`
	IsActive     bool    `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
