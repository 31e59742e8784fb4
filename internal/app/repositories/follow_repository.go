package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusbuzz/backend/internal/app/models"
)

// FollowRepository handles database operations for follow edges
type FollowRepository struct {
	db *pgxpool.Pool
}

// NewFollowRepository creates a new FollowRepository
func NewFollowRepository(db *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create inserts a follow edge. Re-following is a no-op.
func (r *FollowRepository) Create(ctx context.Context, followerID, followeeID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING`,
		followerID, followeeID,
	)
	if err != nil {
		return fmt.Errorf("error creating follow: %w", err)
	}
	return nil
}

// Delete removes a follow edge. Unfollowing a non-followed user is a
// no-op.
func (r *FollowRepository) Delete(ctx context.Context, followerID, followeeID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`,
		followerID, followeeID,
	)
	if err != nil {
		return fmt.Errorf("error deleting follow: %w", err)
	}
	return nil
}

// Exists reports whether followerID follows followeeID.
func (r *FollowRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`,
		followerID, followeeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking follow existence: %w", err)
	}
	return exists, nil
}

// Counts returns the follower and following counts for a user.
func (r *FollowRepository) Counts(ctx context.Context, userID int64) (followers, following int64, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE followee_id = $1),
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1)`,
		userID,
	).Scan(&followers, &following)
	if err != nil {
		return 0, 0, fmt.Errorf("error counting follows: %w", err)
	}
	return followers, following, nil
}

func (r *FollowRepository) querySummaries(ctx context.Context, query string, userID int64) ([]models.UserSummary, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying follows: %w", err)
	}
	defer rows.Close()

	var users []models.UserSummary
	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.ID, &s.Username, &s.FirstName, &s.LastName, &s.AvatarURL, &s.RoleType); err != nil {
			return nil, fmt.Errorf("error scanning follow row: %w", err)
		}
		users = append(users, s)
	}
	return users, rows.Err()
}

// ListFollowers returns the active users following userID, newest first.
func (r *FollowRepository) ListFollowers(ctx context.Context, userID int64) ([]models.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.first_name, u.last_name, u.avatar_url, u.role_type
		FROM follows f
		JOIN users u ON u.id = f.follower_id AND u.is_active
		WHERE f.followee_id = $1
		ORDER BY f.created_at DESC`

	return r.querySummaries(ctx, query, userID)
}

// ListFollowing returns the active users userID follows, newest first.
func (r *FollowRepository) ListFollowing(ctx context.Context, userID int64) ([]models.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.first_name, u.last_name, u.avatar_url, u.role_type
		FROM follows f
		JOIN users u ON u.id = f.followee_id AND u.is_active
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC`

	return r.querySummaries(ctx, query, userID)
}
