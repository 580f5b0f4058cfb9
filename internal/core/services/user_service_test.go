package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/core/services"
	"github.com/hfujimori/invoice_kanri_app/internal/dto"
	"github.com/hfujimori/invoice_kanri_app/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	audit    *recordingAuditSvc
	service  portssvc.UserSvcFacade
	admin    domain.Actor
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.audit = &recordingAuditSvc{}
	suite.service = services.NewUserService(suite.mockRepo, suite.audit)
	suite.admin = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleAdmin}
}

func (suite *UserServiceTestSuite) TestCreateUser_AdminOnly() {
	req := dto.CreateUserRequest{Email: "a@example.com", Name: "A", Password: "password123", Role: "viewer"}
	for _, role := range []domain.Role{domain.RoleAccountant, domain.RoleDepartment, domain.RoleViewer} {
		_, err := suite.service.CreateUser(context.Background(), req, domain.Actor{UserID: "u1", Role: role})
		suite.ErrorIs(err, apperrors.ErrForbidden, "role %s", role)
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_HashesPassword() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Email: "keiri@example.com", Name: "経理 太郎", Password: "s3cret-pass", Role: "accountant"}

	suite.mockRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, nil).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == req.Email &&
			u.PasswordHash != req.Password &&
			utils.CheckPasswordHash(req.Password, u.PasswordHash) &&
			u.IsActive
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req, suite.admin)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAccountant, user.Role)
	suite.Equal([]string{domain.AuditActionCreate}, suite.audit.actions())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateEmail() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Email: "dup@example.com", Name: "B", Password: "password123", Role: "viewer"}

	suite.mockRepo.On("FindUserByEmail", ctx, req.Email).
		Return(&domain.User{UserID: "existing", Email: req.Email}, nil).Once()

	_, err := suite.service.CreateUser(ctx, req, suite.admin)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_SystemAudit() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Email: "self@example.com", Name: "Self", Password: "password123", Role: "department"}

	suite.mockRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, nil).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	_, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().Len(suite.audit.entries, 1)
	suite.Nil(suite.audit.entries[0].UserID) // no authenticated actor
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UniformFailures() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-password")
	suite.Require().NoError(err)
	active := &domain.User{UserID: "u1", Email: "a@example.com", PasswordHash: hash, IsActive: true}
	inactive := &domain.User{UserID: "u2", Email: "b@example.com", PasswordHash: hash, IsActive: false}

	suite.mockRepo.On("FindUserByEmail", ctx, "missing@example.com").Return(nil, nil).Once()
	_, unknownErr := suite.service.AuthenticateUser(ctx, "missing@example.com", "whatever")

	suite.mockRepo.On("FindUserByEmail", ctx, "b@example.com").Return(inactive, nil).Once()
	_, inactiveErr := suite.service.AuthenticateUser(ctx, "b@example.com", "correct-password")

	suite.mockRepo.On("FindUserByEmail", ctx, "a@example.com").Return(active, nil).Once()
	_, wrongPassErr := suite.service.AuthenticateUser(ctx, "a@example.com", "wrong-password")

	suite.mockRepo.On("FindUserByEmail", ctx, "a@example.com").Return(nil, errors.New("db down")).Once()
	_, lookupErr := suite.service.AuthenticateUser(ctx, "a@example.com", "correct-password")

	// Every failure mode is indistinguishable to the caller.
	for _, err := range []error{unknownErr, inactiveErr, wrongPassErr, lookupErr} {
		suite.ErrorIs(err, apperrors.ErrUnauthorized)
	}
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-password")
	suite.Require().NoError(err)
	user := &domain.User{UserID: "u1", Email: "a@example.com", PasswordHash: hash, IsActive: true, Role: domain.RoleAccountant}

	suite.mockRepo.On("FindUserByEmail", ctx, "a@example.com").Return(user, nil).Once()

	got, err := suite.service.AuthenticateUser(ctx, "a@example.com", "correct-password")

	suite.Require().NoError(err)
	suite.Equal("u1", got.UserID)
}

func (suite *UserServiceTestSuite) TestUpdateUser_RoleChangeIsAdminOnly() {
	role := "admin"
	actor := domain.Actor{UserID: "u1", Role: domain.RoleDepartment}

	// Even self-updates may not touch role or active flag.
	_, err := suite.service.UpdateUser(context.Background(), "u1", dto.UpdateUserRequest{Role: &role}, actor)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestUpdateUser_SelfRename() {
	ctx := context.Background()
	actor := domain.Actor{UserID: "u1", Role: domain.RoleViewer}
	name := "新しい名前"

	suite.mockRepo.On("FindUserByID", ctx, "u1").
		Return(&domain.User{UserID: "u1", Name: "古い名前", Role: domain.RoleViewer, IsActive: true}, nil).Once()
	suite.mockRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == name && u.LastUpdatedBy == "u1"
	})).Return(nil).Once()

	user, err := suite.service.UpdateUser(ctx, "u1", dto.UpdateUserRequest{Name: &name}, actor)

	suite.Require().NoError(err)
	suite.Equal(name, user.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByID", ctx, "ghost").Return(nil, nil).Once()

	_, err := suite.service.GetUserByID(ctx, "ghost")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
