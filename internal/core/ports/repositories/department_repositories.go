package repositories

import (
	"context"
	"time"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
)

// DepartmentReader defines read operations for department data.
type DepartmentReader interface {
	FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error)
	FindDepartmentByCode(ctx context.Context, code string) (*domain.Department, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
}

// DepartmentWriter defines write operations for department data.
type DepartmentWriter interface {
	SaveDepartment(ctx context.Context, department domain.Department) error
	UpdateDepartment(ctx context.Context, department domain.Department) error
	DeactivateDepartment(ctx context.Context, departmentID string, userID string, now time.Time) error
}

// DepartmentRepositoryFacade combines department repository interfaces.
type DepartmentRepositoryFacade interface {
	DepartmentReader
	DepartmentWriter
}
