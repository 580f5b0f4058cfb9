package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/dto"
	"github.com/hfujimori/invoice_kanri_app/internal/middleware"
	"github.com/hfujimori/invoice_kanri_app/internal/utils"
)

// userService manages user accounts and verifies login credentials.
type userService struct {
	userRepo portsrepo.UserRepositoryFacade
	auditSvc portssvc.AuditSvcFacade
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, auditSvc portssvc.AuditSvcFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, auditSvc: auditSvc}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser registers a new account. Only admins create users.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, actor domain.Actor) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	return s.createUser(ctx, req, actor)
}

// RegisterUser is the unauthenticated self-registration path; the audit
// entry carries no user reference.
func (s *userService) RegisterUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	return s.createUser(ctx, req, domain.Actor{})
}

func (s *userService) createUser(ctx context.Context, req dto.CreateUserRequest, actor domain.Actor) (*domain.User, error) {
	role := domain.Role(req.Role)
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("unknown role: " + req.Role)
	}

	existing, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicate
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         role,
		DepartmentID: req.DepartmentID,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.auditSvc.RecordAction(ctx, domain.AuditEntry{
		UserID:     actorUserID(actor),
		EntityType: domain.AuditEntityUser,
		EntityID:   user.UserID,
		Action:     domain.AuditActionCreate,
		NewValues:  domain.Document{"email": user.Email, "role": string(user.Role)},
		IPAddress:  actor.IP,
	})
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("user " + userID + " not found")
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// UpdateUser applies partial updates. Only admins may change role or
// active flag; users may rename themselves.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, actor domain.Actor) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin && actor.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if (req.Role != nil || req.IsActive != nil) && actor.Role != domain.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		if !role.IsValid() {
			return nil, apperrors.NewValidationError("unknown role: " + *req.Role)
		}
		user.Role = role
	}
	if req.DepartmentID != nil {
		user.DepartmentID = req.DepartmentID
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = actor.UserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}

	s.auditSvc.RecordAction(ctx, domain.AuditEntry{
		UserID:     actorUserID(actor),
		EntityType: domain.AuditEntityUser,
		EntityID:   userID,
		Action:     domain.AuditActionUpdate,
		NewValues:  domain.Document{"role": string(user.Role), "is_active": user.IsActive},
		IPAddress:  actor.IP,
	})
	return user, nil
}

// AuthenticateUser verifies email+password. Every failure mode, including an
// unknown email, a wrong password and an inactive account, surfaces as the
// same unauthorized error so the response does not leak which part failed.
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		logger.Error("user lookup failed during login", slog.String("error", err.Error()))
		return nil, apperrors.ErrUnauthorized
	}
	if user == nil || !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
