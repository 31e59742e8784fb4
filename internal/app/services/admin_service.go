package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/pkg/apperrors"
)

// AdminUserStore is the user persistence surface the admin service
// needs. *repositories.UserRepository satisfies it.
type AdminUserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, role *models.RoleType, offset, limit int) ([]*models.User, int64, error)
	UpdateRole(ctx context.Context, userID int64, role models.RoleType) error
	SetActive(ctx context.Context, userID int64, active bool) error
}

// SessionRevoker revokes all refresh tokens of a user.
// *repositories.TokenRepository satisfies it.
type SessionRevoker interface {
	DeleteAllForUser(ctx context.Context, userID int64) error
}

// AdminService defines the interface for administrative operations
type AdminService interface {
	ListUsers(ctx context.Context, role *models.RoleType, offset, limit int) ([]*models.User, int64, error)
	ChangeUserRole(ctx context.Context, adminID, userID int64, role models.RoleType) (*models.User, error)
	DeactivateUser(ctx context.Context, adminID, userID int64) error
	ReactivateUser(ctx context.Context, userID int64) error
}

// adminServiceImpl implements the AdminService interface
type adminServiceImpl struct {
	userRepo  AdminUserStore
	tokenRepo SessionRevoker
	logger    zerolog.Logger
}

// NewAdminService creates a new admin service instance
func NewAdminService(userRepo AdminUserStore, tokenRepo SessionRevoker, logger zerolog.Logger) AdminService {
	return &adminServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

// ListUsers returns users paginated, optionally filtered by role.
func (s *adminServiceImpl) ListUsers(ctx context.Context, role *models.RoleType, offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, role, offset, limit)
}

// ChangeUserRole assigns a new role to a user.
func (s *adminServiceImpl) ChangeUserRole(ctx context.Context, adminID, userID int64, role models.RoleType) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, apperrors.ErrValidationFailed
	}
	if adminID == userID {
		return nil, apperrors.NewBadRequestError("cannot change your own role")
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("adminId", adminID).Int64("userId", userID).Str("role", string(role)).Msg("User role changed")
	return s.userRepo.GetByID(ctx, userID)
}

// DeactivateUser soft-deletes an account and revokes its sessions. The
// user's content stays in place; profile lookups and participant
// resolution stop returning them.
func (s *adminServiceImpl) DeactivateUser(ctx context.Context, adminID, userID int64) error {
	if adminID == userID {
		return apperrors.NewBadRequestError("cannot deactivate your own account")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.RoleType == models.RoleAdmin {
		return apperrors.ErrPermissionDenied
	}

	if err := s.userRepo.SetActive(ctx, userID, false); err != nil {
		return err
	}

	if err := s.tokenRepo.DeleteAllForUser(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("userId", userID).Msg("Failed to revoke sessions of deactivated user")
	}

	s.logger.Info().Int64("adminId", adminID).Int64("userId", userID).Msg("User deactivated")
	return nil
}

// ReactivateUser restores a deactivated account.
func (s *adminServiceImpl) ReactivateUser(ctx context.Context, userID int64) error {
	return s.userRepo.SetActive(ctx, userID, true)
}
