package dto

import (
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
)

// CreateUserRequest creates a new user account.
type CreateUserRequest struct {
	Email        string  `json:"email" binding:"required,email"`
	Name         string  `json:"name" binding:"required"`
	Password     string  `json:"password" binding:"required,min=8"`
	Role         string  `json:"role" binding:"required,oneof=admin accountant department viewer"`
	DepartmentID *string `json:"department_id"`
}

// UpdateUserRequest updates mutable user fields. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Name         *string `json:"name"`
	Role         *string `json:"role" binding:"omitempty,oneof=admin accountant department viewer"`
	DepartmentID *string `json:"department_id"`
	IsActive     *bool   `json:"is_active"`
}

// UserResponse is the API projection of a user.
type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	DepartmentID *string `json:"department_id"`
	IsActive     bool    `json:"is_active"`
}

// ToUserResponse maps a domain user to its API projection.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.UserID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         string(u.Role),
		DepartmentID: u.DepartmentID,
		IsActive:     u.IsActive,
	}
}
