package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/app/repositories"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/auth"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

// AuthService handles administrator authentication
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	// EnsureAdmin creates the account, or resets its password if it already exists.
	EnsureAdmin(ctx context.Context, email, password string) (*models.Admin, error)
}

type authServiceImpl struct {
	adminRepo  *repositories.AdminRepository
	jwtService *auth.JWTService
	hash       func(string) (string, error)
}

// NewAuthService creates a new AuthService
func NewAuthService(adminRepo *repositories.AdminRepository, jwtService *auth.JWTService) AuthService {
	return &authServiceImpl{
		adminRepo:  adminRepo,
		jwtService: jwtService,
		hash:       auth.HashPassword,
	}
}

// Login verifies credentials and issues an access token
func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, apperrors.NewValidationError("email", "Email is required")
	}
	if req.Password == "" {
		return nil, apperrors.NewValidationError("password", "Password is required")
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, storeErr("finding admin", err)
	}
	if !auth.CheckPassword(admin.Password, req.Password) {
		logger.Warn().Str("email", email).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(admin)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(expiresIn),
	}, nil
}

// EnsureAdmin creates the account, or resets its password if it already exists
func (s *authServiceImpl) EnsureAdmin(ctx context.Context, email, password string) (*models.Admin, error) {
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	existing, err := s.adminRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.adminRepo.UpdatePassword(ctx, existing.ID, hash); err != nil {
			return nil, storeErr("updating admin", err)
		}
		existing.Password = hash
		existing.IsActive = true
		return existing, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, storeErr("finding admin", err)
	}

	admin := &models.Admin{Email: strings.TrimSpace(email), Password: hash, Role: models.RoleAdmin, IsActive: true}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, storeErr("creating admin", err)
	}
	return admin, nil
}
