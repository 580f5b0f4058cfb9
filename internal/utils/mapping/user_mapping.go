package mapping

import (
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	"github.com/hfujimori/invoice_kanri_app/internal/models"
)

// ToDomainUser converts a user row to the domain user.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		DepartmentID: m.DepartmentID,
		IsActive:     m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
		DeletedAt: m.DeletedAt,
	}
}

// ToModelUser converts a domain user to its row.
func ToModelUser(u domain.User) models.User {
	return models.User{
		UserID:        u.UserID,
		Email:         u.Email,
		Name:          u.Name,
		PasswordHash:  u.PasswordHash,
		Role:          string(u.Role),
		DepartmentID:  u.DepartmentID,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		CreatedBy:     u.CreatedBy,
		LastUpdatedAt: u.LastUpdatedAt,
		LastUpdatedBy: u.LastUpdatedBy,
		DeletedAt:     u.DeletedAt,
	}
}
