package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/app/models/dto"
	"github.com/campusbuzz/backend/internal/app/repositories"
	"github.com/campusbuzz/backend/internal/pkg/apperrors"
	"github.com/campusbuzz/backend/internal/pkg/auth"
	"github.com/campusbuzz/backend/internal/pkg/email"
	"github.com/campusbuzz/backend/internal/pkg/validation"
)

// UserStore is the persistence surface the auth service needs from the
// user repository.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
}

// TokenStore is the refresh-token persistence surface.
// *repositories.TokenRepository satisfies it.
type TokenStore interface {
	Store(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	Get(ctx context.Context, token string) (*repositories.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteAllForUser(ctx context.Context, userID int64) error
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	userRepo     UserStore
	tokenRepo    TokenStore
	jwtService   *auth.JWTService
	emailService email.EmailService
	logger       zerolog.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(userRepo UserStore, tokenRepo TokenStore, jwtService *auth.JWTService, emailService email.EmailService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		jwtService:   jwtService,
		emailService: emailService,
		logger:       logger,
	}
}

// Register creates a new user account. Admin accounts cannot be
// self-registered.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if !validation.IsValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email format", apperrors.ErrValidationFailed)
	}
	if !validation.IsValidUsername(req.Username) {
		return nil, fmt.Errorf("%w: invalid username format", apperrors.ErrValidationFailed)
	}

	role := models.RoleStudent
	if req.Role != "" {
		role = models.RoleType(req.Role)
		if !models.ValidRole(role) || role == models.RoleAdmin {
			return nil, fmt.Errorf("%w: invalid role", apperrors.ErrValidationFailed)
		}
	}

	if exists, err := s.userRepo.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}
	if exists, err := s.userRepo.ExistsByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.ErrUsernameAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     req.Email,
		Username:  req.Username,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleType:  role,
		IsActive:  true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.emailService.SendWelcomeEmail(user.Email, user.FullName()); err != nil {
		s.logger.Warn().Err(err).Str("email", user.Email).Msg("Failed to send welcome email")
	}

	s.logger.Info().Int64("userId", user.ID).Str("username", user.Username).Msg("User registered")
	return user, nil
}

// Login authenticates a user and issues a token pair.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the account exists
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.Warn().Err(err).Int64("userId", user.ID).Msg("Failed to update last login")
	}

	return tokens, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair.
// The used token is rotated out.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokenRepo.Get(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.tokenRepo.Delete(ctx, refreshToken)
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.Delete(ctx, refreshToken); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to rotate refresh token")
	}

	return s.issueTokens(ctx, user)
}

// Logout invalidates the given refresh token.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.Delete(ctx, refreshToken)
}

// ChangePassword verifies the current password, sets the new one and
// revokes all outstanding refresh tokens.
func (s *authServiceImpl) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	if err := s.tokenRepo.DeleteAllForUser(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("userId", userID).Msg("Failed to revoke refresh tokens after password change")
	}

	s.logger.Info().Int64("userId", userID).Msg("Password changed")
	return nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	if err := s.tokenRepo.Store(ctx, user.ID, refreshToken, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
		User:             ToUserResponse(user, 0, 0),
	}, nil
}
