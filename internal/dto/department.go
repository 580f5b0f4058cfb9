package dto

import "github.com/hfujimori/invoice_kanri_app/internal/core/domain"

// CreateDepartmentRequest creates a department. Code must be unique.
type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required,max=20"`
}

// UpdateDepartmentRequest updates mutable department fields.
type UpdateDepartmentRequest struct {
	Name     *string `json:"name"`
	Code     *string `json:"code" binding:"omitempty,max=20"`
	IsActive *bool   `json:"is_active"`
}

// DepartmentResponse is the API projection of a department.
type DepartmentResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
}

// ToDepartmentResponse maps a domain department to its API projection.
func ToDepartmentResponse(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:       d.DepartmentID,
		Name:     d.Name,
		Code:     d.Code,
		IsActive: d.IsActive,
	}
}
