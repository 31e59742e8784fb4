package services

import (
	"context"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/app/models/dto"
	"github.com/campusbuzz/backend/internal/pkg/apperrors"
	"github.com/campusbuzz/backend/internal/pkg/filestorage"
)

// ProfileStore is the user persistence surface the user service needs.
// *repositories.UserRepository satisfies it.
type ProfileStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Search(ctx context.Context, term string, offset, limit int) ([]*models.User, int64, error)
}

// FollowStore is the follow-edge persistence surface.
// *repositories.FollowRepository satisfies it.
type FollowStore interface {
	Create(ctx context.Context, followerID, followeeID int64) error
	Delete(ctx context.Context, followerID, followeeID int64) error
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
	Counts(ctx context.Context, userID int64) (followers, following int64, err error)
	ListFollowers(ctx context.Context, userID int64) ([]models.UserSummary, error)
	ListFollowing(ctx context.Context, userID int64) ([]models.UserSummary, error)
}

// UserService defines the interface for user profile operations
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error)
	GetProfileByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UploadAvatar(ctx context.Context, userID int64, file *multipart.FileHeader) (*dto.UserResponse, error)
	Search(ctx context.Context, term string, offset, limit int) ([]*models.User, int64, error)
	Follow(ctx context.Context, followerID, followeeID int64) error
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error)
	ListFollowers(ctx context.Context, userID int64) ([]models.UserSummary, error)
	ListFollowing(ctx context.Context, userID int64) ([]models.UserSummary, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	userRepo    ProfileStore
	followRepo  FollowStore
	fileStorage filestorage.Storage
	logger      zerolog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(userRepo ProfileStore, followRepo FollowStore, fileStorage filestorage.Storage, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo:    userRepo,
		followRepo:  followRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

// ToUserResponse converts a user model plus follow counts to the API
// view.
func ToUserResponse(user *models.User, followerCount, followingCount int64) dto.UserResponse {
	return dto.UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Bio:            user.Bio,
		AvatarURL:      user.AvatarURL,
		Role:           string(user.RoleType),
		IsActive:       user.IsActive,
		CreatedAt:      user.CreatedAt,
		LastLoginAt:    user.LastLoginAt,
		FollowerCount:  int(followerCount),
		FollowingCount: int(followingCount),
	}
}

func (s *userServiceImpl) profileResponse(ctx context.Context, user *models.User) (*dto.UserResponse, error) {
	followers, following, err := s.followRepo.Counts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user, followers, following)
	return &resp, nil
}

// GetProfile retrieves a user's profile with follow counts.
func (s *userServiceImpl) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserNotFound
	}
	return s.profileResponse(ctx, user)
}

// GetProfileByUsername retrieves a user's profile by username.
func (s *userServiceImpl) GetProfileByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserNotFound
	}
	return s.profileResponse(ctx, user)
}

// UpdateProfile updates the user's own profile fields.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Bio = req.Bio

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.profileResponse(ctx, user)
}

// UploadAvatar stores a new avatar and replaces the previous one.
func (s *userServiceImpl) UploadAvatar(ctx context.Context, userID int64, file *multipart.FileHeader) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stored, err := s.fileStorage.Save(file, "avatars")
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, apperrors.NewBadRequestError("no file provided")
	}

	oldURL := user.AvatarURL
	user.AvatarURL = &stored.URL
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// Previous avatar keys mirror the URL path under the storage root
	if oldURL != nil {
		if key := storageKeyFromURL(*oldURL); key != "" {
			if err := s.fileStorage.Delete(key); err != nil {
				s.logger.Warn().Err(err).Str("key", key).Msg("Failed to delete previous avatar")
			}
		}
	}

	return s.profileResponse(ctx, user)
}

// storageKeyFromURL recovers the storage key from a stored file URL.
// Keys are the last two path segments (subdir/filename).
func storageKeyFromURL(url string) string {
	segments := 0
	for i := len(url) - 1; i >= 0; i-- {
		if url[i] == '/' {
			segments++
			if segments == 2 {
				return url[i+1:]
			}
		}
	}
	return ""
}

// Search finds active users by name or username.
func (s *userServiceImpl) Search(ctx context.Context, term string, offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.Search(ctx, term, offset, limit)
}

// Follow makes followerID follow followeeID.
func (s *userServiceImpl) Follow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return apperrors.NewBadRequestError("cannot follow yourself")
	}

	followee, err := s.userRepo.GetByID(ctx, followeeID)
	if err != nil {
		return err
	}
	if !followee.IsActive {
		return apperrors.ErrUserNotFound
	}

	return s.followRepo.Create(ctx, followerID, followeeID)
}

// Unfollow removes a follow edge.
func (s *userServiceImpl) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	return s.followRepo.Delete(ctx, followerID, followeeID)
}

// IsFollowing reports whether followerID follows followeeID.
func (s *userServiceImpl) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followeeID)
}

// ListFollowers returns the user's followers.
func (s *userServiceImpl) ListFollowers(ctx context.Context, userID int64) ([]models.UserSummary, error) {
	return s.followRepo.ListFollowers(ctx, userID)
}

// ListFollowing returns who the user follows.
func (s *userServiceImpl) ListFollowing(ctx context.Context, userID int64) ([]models.UserSummary, error) {
	return s.followRepo.ListFollowing(ctx, userID)
}
