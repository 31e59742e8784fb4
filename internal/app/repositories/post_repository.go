package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/db"
	"github.com/campusbuzz/backend/internal/pkg/apperrors"
)

// PostFilter narrows the post feed query.
type PostFilter struct {
	AuthorID  *int64
	AuthorIDs []int64
	Search    string
}

// PostRepository handles database operations for posts, likes and
// comments.
type PostRepository struct {
	db  *pgxpool.Pool
	psq sq.StatementBuilderType
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{
		db:  db,
		psq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Create inserts a post and its images in one transaction.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO posts (author_id, content) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
			post.AuthorID, post.Content,
		).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error creating post: %w", err)
		}

		for i := range post.Images {
			img := &post.Images[i]
			img.PostID = post.ID
			err := tx.QueryRow(ctx,
				`INSERT INTO post_images (post_id, url, storage_key, caption) VALUES ($1, $2, $3, $4) RETURNING id`,
				img.PostID, img.URL, img.StorageKey, img.Caption,
			).Scan(&img.ID)
			if err != nil {
				return fmt.Errorf("error creating post image: %w", err)
			}
		}
		return nil
	})
}

func (r *PostRepository) baseSelect(viewerID int64) sq.SelectBuilder {
	return r.psq.Select(
		"p.id", "p.author_id", "p.content", "p.created_at", "p.updated_at",
		"u.id", "u.username", "u.first_name", "u.last_name", "u.avatar_url", "u.role_type",
		"(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count",
		"(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count",
		fmt.Sprintf("EXISTS(SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = %d) AS liked_by_me", viewerID),
	).
		From("posts p").
		LeftJoin("users u ON u.id = p.author_id AND u.is_active")
}

func scanPost(rows pgx.Rows) (*models.Post, error) {
	var (
		p models.Post

		authorID              *int64
		username, first, last *string
		avatar, role          *string
	)

	err := rows.Scan(
		&p.ID, &p.AuthorID, &p.Content, &p.CreatedAt, &p.UpdatedAt,
		&authorID, &username, &first, &last, &avatar, &role,
		&p.LikeCount, &p.CommentCount, &p.LikedByMe,
	)
	if err != nil {
		return nil, err
	}

	if authorID != nil {
		p.Author = &models.UserSummary{
			ID:        *authorID,
			Username:  deref(username),
			FirstName: deref(first),
			LastName:  deref(last),
			AvatarURL: avatar,
			RoleType:  models.RoleType(deref(role)),
		}
	}
	return &p, nil
}

func (r *PostRepository) queryPosts(ctx context.Context, query string, args ...interface{}) ([]*models.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	byID := make(map[int64]*models.Post)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning post row: %w", err)
		}
		posts = append(posts, p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachPostImages(ctx, byID); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) attachPostImages(ctx context.Context, byID map[int64]*models.Post) error {
	if len(byID) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, post_id, url, storage_key, caption FROM post_images WHERE post_id = ANY($1) ORDER BY id`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("error querying post images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img models.PostImage
		if err := rows.Scan(&img.ID, &img.PostID, &img.URL, &img.StorageKey, &img.Caption); err != nil {
			return fmt.Errorf("error scanning post image: %w", err)
		}
		if p, ok := byID[img.PostID]; ok {
			p.Images = append(p.Images, img)
		}
	}
	return rows.Err()
}

// GetByID retrieves a post with author, images and counts resolved for
// the viewer.
func (r *PostRepository) GetByID(ctx context.Context, id, viewerID int64) (*models.Post, error) {
	query, args, err := r.baseSelect(viewerID).Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building post query: %w", err)
	}

	posts, err := r.queryPosts(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, apperrors.ErrPostNotFound
	}
	return posts[0], nil
}

// List returns posts matching the filter, newest first, paginated.
func (r *PostRepository) List(ctx context.Context, viewerID int64, filter PostFilter, offset, limit int) ([]*models.Post, int64, error) {
	countBuilder := r.psq.Select("COUNT(*)").From("posts p")
	listBuilder := r.baseSelect(viewerID)

	if filter.AuthorID != nil {
		countBuilder = countBuilder.Where(sq.Eq{"p.author_id": *filter.AuthorID})
		listBuilder = listBuilder.Where(sq.Eq{"p.author_id": *filter.AuthorID})
	}
	if len(filter.AuthorIDs) > 0 {
		countBuilder = countBuilder.Where(sq.Eq{"p.author_id": filter.AuthorIDs})
		listBuilder = listBuilder.Where(sq.Eq{"p.author_id": filter.AuthorIDs})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		countBuilder = countBuilder.Where(sq.ILike{"p.content": pattern})
		listBuilder = listBuilder.Where(sq.ILike{"p.content": pattern})
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building post count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting posts: %w", err)
	}

	query, args, err := listBuilder.
		OrderBy("p.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building post list query: %w", err)
	}

	posts, err := r.queryPosts(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Update persists a post's edited content.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.QueryRow(ctx,
		`UPDATE posts SET content = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`,
		post.Content, post.ID,
	).Scan(&post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrPostNotFound
		}
		return fmt.Errorf("error updating post: %w", err)
	}
	return nil
}

// Delete removes a post. Images, likes and comments cascade in the
// schema.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

// Like records a like. Liking twice is a no-op.
func (r *PostRepository) Like(ctx context.Context, postID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING`,
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("error liking post: %w", err)
	}
	return nil
}

// Unlike removes a like. Unliking a non-liked post is a no-op.
func (r *PostRepository) Unlike(ctx context.Context, postID, userID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`,
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("error unliking post: %w", err)
	}
	return nil
}

// CreateComment inserts a comment on a post.
func (r *PostRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO comments (post_id, author_id, content) VALUES ($1, $2, $3) RETURNING id, created_at`,
		comment.PostID, comment.AuthorID, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating comment: %w", err)
	}
	return nil
}

// GetComment retrieves a single comment by ID.
func (r *PostRepository) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	var c models.Comment
	err := r.db.QueryRow(ctx,
		`SELECT id, post_id, author_id, content, created_at FROM comments WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("error retrieving comment: %w", err)
	}
	return &c, nil
}

// ListComments returns the comments on a post, oldest first.
func (r *PostRepository) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, c.content, c.created_at,
		       u.id, u.username, u.first_name, u.last_name, u.avatar_url, u.role_type
		FROM comments c
		LEFT JOIN users u ON u.id = c.author_id AND u.is_active
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC`

	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("error querying comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var (
			c models.Comment

			authorID              *int64
			username, first, last *string
			avatar, role          *string
		)
		err := rows.Scan(
			&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt,
			&authorID, &username, &first, &last, &avatar, &role,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning comment row: %w", err)
		}
		if authorID != nil {
			c.Author = &models.UserSummary{
				ID:        *authorID,
				Username:  deref(username),
				FirstName: deref(first),
				LastName:  deref(last),
				AvatarURL: avatar,
				RoleType:  models.RoleType(deref(role)),
			}
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment.
func (r *PostRepository) DeleteComment(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}
	return nil
}
