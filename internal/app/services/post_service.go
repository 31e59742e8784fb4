package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/app/models/dto"
	"github.com/campusbuzz/backend/internal/app/repositories"
	"github.com/campusbuzz/backend/internal/pkg/apperrors"
	"github.com/campusbuzz/backend/internal/pkg/filestorage"
)

// PostStore is the persistence surface the post service needs.
// *repositories.PostRepository satisfies it.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id, viewerID int64) (*models.Post, error)
	List(ctx context.Context, viewerID int64, filter repositories.PostFilter, offset, limit int) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) error
	Like(ctx context.Context, postID, userID int64) error
	Unlike(ctx context.Context, postID, userID int64) error
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// PostService defines the interface for post operations
type PostService interface {
	CreatePost(ctx context.Context, authorID int64, req *dto.CreatePostRequest) (*models.Post, error)
	GetPost(ctx context.Context, postID, viewerID int64) (*models.Post, error)
	ListPosts(ctx context.Context, viewerID int64, filter repositories.PostFilter, offset, limit int) ([]*models.Post, int64, error)
	UpdatePost(ctx context.Context, postID, userID int64, content string) (*models.Post, error)
	DeletePost(ctx context.Context, postID, userID int64, isAdmin bool) error
	LikePost(ctx context.Context, postID, userID int64) (*models.Post, error)
	UnlikePost(ctx context.Context, postID, userID int64) (*models.Post, error)
	AddComment(ctx context.Context, postID, authorID int64, req *dto.CreateCommentRequest) (*models.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, commentID, userID int64, isAdmin bool) error
}

// postServiceImpl implements the PostService interface
type postServiceImpl struct {
	postRepo    PostStore
	fileStorage filestorage.Storage
	logger      zerolog.Logger
}

// NewPostService creates a new post service instance
func NewPostService(postRepo PostStore, fileStorage filestorage.Storage, logger zerolog.Logger) PostService {
	return &postServiceImpl{
		postRepo:    postRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

// CreatePost publishes a post. A post needs content, images or both.
func (s *postServiceImpl) CreatePost(ctx context.Context, authorID int64, req *dto.CreatePostRequest) (*models.Post, error) {
	if strings.TrimSpace(req.Content) == "" && len(req.Images) == 0 {
		return nil, apperrors.NewBadRequestError("post must have content or images")
	}

	post := &models.Post{
		AuthorID: authorID,
		Content:  req.Content,
	}
	for _, img := range req.Images {
		post.Images = append(post.Images, models.PostImage{
			URL:        img.URL,
			StorageKey: img.StorageKey,
			Caption:    img.Caption,
		})
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Reload with the author summary resolved
	return s.postRepo.GetByID(ctx, post.ID, authorID)
}

// GetPost retrieves a post as seen by the viewer.
func (s *postServiceImpl) GetPost(ctx context.Context, postID, viewerID int64) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, viewerID)
}

// ListPosts returns the filtered feed as seen by the viewer.
func (s *postServiceImpl) ListPosts(ctx context.Context, viewerID int64, filter repositories.PostFilter, offset, limit int) ([]*models.Post, int64, error) {
	return s.postRepo.List(ctx, viewerID, filter, offset, limit)
}

// UpdatePost edits a post's content. Only the author may edit.
func (s *postServiceImpl) UpdatePost(ctx context.Context, postID, userID int64, content string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, apperrors.ErrPermissionDenied
	}
	if strings.TrimSpace(content) == "" && len(post.Images) == 0 {
		return nil, apperrors.NewBadRequestError("post must have content or images")
	}

	post.Content = content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post. The author or an admin may delete; stored
// image files go with it.
func (s *postServiceImpl) DeletePost(ctx context.Context, postID, userID int64, isAdmin bool) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID && !isAdmin {
		return apperrors.ErrPermissionDenied
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	for _, img := range post.Images {
		if err := s.fileStorage.Delete(img.StorageKey); err != nil {
			s.logger.Warn().Err(err).Str("key", img.StorageKey).Msg("Failed to delete post image file")
		}
	}
	return nil
}

// LikePost records a like and returns the refreshed post.
func (s *postServiceImpl) LikePost(ctx context.Context, postID, userID int64) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Like(ctx, postID, userID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}

// UnlikePost removes a like and returns the refreshed post.
func (s *postServiceImpl) UnlikePost(ctx context.Context, postID, userID int64) (*models.Post, error) {
	if err := s.postRepo.Unlike(ctx, postID, userID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}

// AddComment comments on a post.
func (s *postServiceImpl) AddComment(ctx context.Context, postID, authorID int64, req *dto.CreateCommentRequest) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, authorID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  req.Content,
	}
	if err := s.postRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns the comments on a post, oldest first.
func (s *postServiceImpl) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	return s.postRepo.ListComments(ctx, postID)
}

// DeleteComment removes a comment. The comment author or an admin may
// delete.
func (s *postServiceImpl) DeleteComment(ctx context.Context, commentID, userID int64, isAdmin bool) error {
	comment, err := s.postRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID && !isAdmin {
		return apperrors.ErrPermissionDenied
	}
	return s.postRepo.DeleteComment(ctx, commentID)
}
