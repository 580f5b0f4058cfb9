package services

import (
	"context"
	"time"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	"github.com/hfujimori/invoice_kanri_app/internal/dto"
)

// ReportingSvcFacade serves the dashboard projection.
type ReportingSvcFacade interface {
	// Summary computes the dashboard against the request-time clock,
	// scoped to the actor's department for role=department callers.
	Summary(ctx context.Context, actor domain.Actor) (*domain.DashboardSummary, error)
}

// UserSvcFacade manages users and authenticates credentials.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, actor domain.Actor) (*domain.User, error)

	// RegisterUser is the unauthenticated self-registration path.
	RegisterUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, actor domain.Actor) (*domain.User, error)

	// AuthenticateUser verifies email+password. Any failure surfaces as the
	// uniform apperrors.ErrUnauthorized.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
}

// TokenSvcFacade issues bearer tokens.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}

// DepartmentSvcFacade manages departments.
type DepartmentSvcFacade interface {
	CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest, actor domain.Actor) (*domain.Department, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	UpdateDepartment(ctx context.Context, departmentID string, req dto.UpdateDepartmentRequest, actor domain.Actor) (*domain.Department, error)
	DeactivateDepartment(ctx context.Context, departmentID string, actor domain.Actor) error
}

// VendorSvcFacade manages vendors.
type VendorSvcFacade interface {
	CreateVendor(ctx context.Context, req dto.CreateVendorRequest, actor domain.Actor) (*domain.Vendor, error)
	ListVendors(ctx context.Context) ([]domain.Vendor, error)
	UpdateVendor(ctx context.Context, vendorID string, req dto.UpdateVendorRequest, actor domain.Actor) (*domain.Vendor, error)
}
