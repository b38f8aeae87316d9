package service

import (
	"context"
	"strings"

	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/internal/domain/enum"
	"github.com/sangkips/register-api/internal/domain/repository"
	"github.com/sangkips/register-api/pkg/apperror"
	"github.com/sangkips/register-api/pkg/utils"
	"go.uber.org/zap"
)

// CredentialVerifier turns a username and password into a principal
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*entity.Principal, error)
}

// AuthService verifies credentials against bcrypt hashes and issues tokens
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	log        *zap.Logger
}

var _ CredentialVerifier = (*AuthService)(nil)

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, log *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, jwtManager: jwtManager, log: log}
}

// Verify checks the password against the stored hash. Unknown users and
// wrong passwords give the same error.
func (s *AuthService) Verify(ctx context.Context, username, password string) (*entity.Principal, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		s.log.Error("failed to load user", zap.Error(err))
		return nil, apperror.NewPersistenceError(err)
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, password) {
		return nil, apperror.ErrUnauthenticated
	}
	return &entity.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
	}, nil
}

// LoginInput represents the login input
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User        *entity.Principal
	AccessToken string
	ExpiresIn   int64
}

// Login verifies credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	principal, err := s.Verify(ctx, input.Username, input.Password)
	if err != nil {
		s.log.Info("login rejected", zap.String("username", input.Username))
		return nil, err
	}

	token, err := s.jwtManager.GenerateAccessToken(principal.UserID, principal.Username, principal.Name, string(principal.Role))
	if err != nil {
		return nil, apperror.NewAppError(500, "Failed to issue token")
	}

	s.log.Info("user logged in", zap.String("username", principal.Username), zap.String("role", string(principal.Role)))
	return &LoginOutput{
		User:        principal,
		AccessToken: token,
		ExpiresIn:   int64(s.jwtManager.Expiry().Seconds()),
	}, nil
}

// CreateUserInput represents a new register operator
type CreateUserInput struct {
	Username string
	Password string
	Name     string
	Role     enum.Role
}

// CreateUser adds an operator with a hashed password
func (s *AuthService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	var errs []apperror.FieldError
	username := strings.TrimSpace(input.Username)
	if username == "" {
		errs = append(errs, apperror.FieldError{Field: "username", Message: "is required"})
	}
	if len(input.Password) < 8 {
		errs = append(errs, apperror.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	if !input.Role.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "role", Message: "must be admin or cashier"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Username already taken")
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewAppError(500, "Failed to hash password")
	}
	user := &entity.User{
		Username:     username,
		PasswordHash: hash,
		Role:         input.Role,
		Name:         strings.TrimSpace(input.Name),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.log.Error("failed to create user", zap.String("username", username), zap.Error(err))
		return nil, apperror.NewPersistenceError(err)
	}
	s.log.Info("user created", zap.String("username", username), zap.String("role", string(user.Role)))
	return user, nil
}
