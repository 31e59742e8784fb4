package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/pkg/apperrors"
)

// UserRepository handles database operations related to users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, password, first_name, last_name, bio, avatar_url, role_type, is_active, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.AvatarURL,
		&user.RoleType,
		&user.IsActive,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user and populates its ID and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, username, password, first_name, last_name, bio, avatar_url, role_type, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		user.Email,
		user.Username,
		user.Password,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.AvatarURL,
		user.RoleType,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by email: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by username: %w", err)
	}
	return user, nil
}

// ExistsByEmail checks whether a user with the given email exists.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// ExistsByUsername checks whether a user with the given username exists.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking username existence: %w", err)
	}
	return exists, nil
}

// Update persists profile fields of an existing user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, bio = $3, avatar_url = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.AvatarURL,
		user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

// UpdatePassword sets a new password hash for the user.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`,
		hashedPassword, userID,
	)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateRole changes a user's role
func (r *UserRepository) UpdateRole(ctx context.Context, userID int64, role models.RoleType) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET role_type = $1, updated_at = NOW() WHERE id = $2`,
		role, userID,
	)
	if err != nil {
		return fmt.Errorf("error updating user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// SetActive toggles the soft-delete flag. Deactivation keeps the row
// and all authored content in place.
func (r *UserRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`,
		active, userID,
	)
	if err != nil {
		return fmt.Errorf("error updating user active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin stamps the user's last login time.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, at, userID)
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// Search finds active users by name or username, paginated.
func (r *UserRepository) Search(ctx context.Context, term string, offset, limit int) ([]*models.User, int64, error) {
	pattern := "%" + term + "%"

	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM users
		WHERE is_active
		  AND (username ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1 OR first_name || ' ' || last_name ILIKE $1)`,
		pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting user search results: %w", err)
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_active
		  AND (username ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1 OR first_name || ' ' || last_name ILIKE $1)
		ORDER BY username ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error searching users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// List returns users paginated, optionally filtered by role.
func (r *UserRepository) List(ctx context.Context, role *models.RoleType, offset, limit int) ([]*models.User, int64, error) {
	countQuery := `SELECT COUNT(*) FROM users`
	listQuery := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}

	if role != nil {
		countQuery += ` WHERE role_type = $1`
		listQuery += ` WHERE role_type = $1`
		args = append(args, *role)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}

	listQuery += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// EmailRecipient is a minimal projection used for notification fanout.
type EmailRecipient struct {
	Email    string
	FullName string
}

// ListActiveRecipients returns the email and display name of every
// active user, for notice fanout.
func (r *UserRepository) ListActiveRecipients(ctx context.Context) ([]EmailRecipient, error) {
	rows, err := r.db.Query(ctx,
		`SELECT email, first_name || ' ' || last_name FROM users WHERE is_active`,
	)
	if err != nil {
		return nil, fmt.Errorf("error listing notification recipients: %w", err)
	}
	defer rows.Close()

	var recipients []EmailRecipient
	for rows.Next() {
		var rec EmailRecipient
		if err := rows.Scan(&rec.Email, &rec.FullName); err != nil {
			return nil, fmt.Errorf("error scanning recipient row: %w", err)
		}
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}

// GetSummaries resolves a batch of user IDs to summaries. Inactive and
// missing users are simply absent from the result map.
func (r *UserRepository) GetSummaries(ctx context.Context, ids []int64) (map[int64]models.UserSummary, error) {
	summaries := make(map[int64]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, username, first_name, last_name, avatar_url, role_type
		FROM users WHERE id = ANY($1) AND is_active`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("error retrieving user summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.ID, &s.Username, &s.FirstName, &s.LastName, &s.AvatarURL, &s.RoleType); err != nil {
			return nil, fmt.Errorf("error scanning user summary: %w", err)
		}
		summaries[s.ID] = s
	}
	return summaries, rows.Err()
}
