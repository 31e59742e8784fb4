package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/pkg/apperrors"
)

// EventRepository handles database operations for campus events
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO events (title, description, venue, starts_at, ends_at, image_url, storage_key, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		event.Title, event.Description, event.Venue, event.StartsAt, event.EndsAt,
		event.ImageURL, event.StorageKey, event.CreatedBy,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by ID.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	var e models.Event
	err := r.db.QueryRow(ctx, `
		SELECT id, title, description, venue, starts_at, ends_at, image_url, storage_key, created_by, created_at
		FROM events WHERE id = $1`, id,
	).Scan(&e.ID, &e.Title, &e.Description, &e.Venue, &e.StartsAt, &e.EndsAt,
		&e.ImageURL, &e.StorageKey, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	return &e, nil
}

// List returns events paginated. Upcoming events first, then past ones.
func (r *EventRepository) List(ctx context.Context, upcomingOnly bool, offset, limit int) ([]*models.Event, int64, error) {
	where := ""
	if upcomingOnly {
		where = ` WHERE starts_at >= NOW()`
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, title, description, venue, starts_at, ends_at, image_url, storage_key, created_by, created_at
		FROM events`+where+`
		ORDER BY starts_at ASC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var e models.Event
		err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Venue, &e.StartsAt, &e.EndsAt,
			&e.ImageURL, &e.StorageKey, &e.CreatedBy, &e.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, &e)
	}
	return events, total, rows.Err()
}

// Update rewrites the editable fields of an event.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE events
		SET title = $1, description = $2, venue = $3, starts_at = $4, ends_at = $5
		WHERE id = $6`,
		event.Title, event.Description, event.Venue, event.StartsAt, event.EndsAt, event.ID)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// Delete removes an event.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// ActivityRepository handles database operations for campus activities
type ActivityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create inserts a new activity.
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO activities (title, description, category, image_url, storage_key, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		activity.Title, activity.Description, activity.Category,
		activity.ImageURL, activity.StorageKey, activity.CreatedBy,
	).Scan(&activity.ID, &activity.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating activity: %w", err)
	}
	return nil
}

// GetByID retrieves an activity by ID.
func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (*models.Activity, error) {
	var a models.Activity
	err := r.db.QueryRow(ctx, `
		SELECT id, title, description, category, image_url, storage_key, created_by, created_at
		FROM activities WHERE id = $1`, id,
	).Scan(&a.ID, &a.Title, &a.Description, &a.Category, &a.ImageURL, &a.StorageKey, &a.CreatedBy, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrActivityNotFound
		}
		return nil, fmt.Errorf("error retrieving activity: %w", err)
	}
	return &a, nil
}

// List returns activities, optionally filtered by category, newest
// first.
func (r *ActivityRepository) List(ctx context.Context, category string, offset, limit int) ([]*models.Activity, int64, error) {
	where := ""
	args := []interface{}{}
	if category != "" {
		where = ` WHERE category = $1`
		args = append(args, category)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM activities`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting activities: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, category, image_url, storage_key, created_by, created_at
		FROM activities%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		var a models.Activity
		err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Category, &a.ImageURL, &a.StorageKey, &a.CreatedBy, &a.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning activity row: %w", err)
		}
		activities = append(activities, &a)
	}
	return activities, total, rows.Err()
}

// Update rewrites the editable fields of an activity.
func (r *ActivityRepository) Update(ctx context.Context, activity *models.Activity) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE activities
		SET title = $1, description = $2, category = $3
		WHERE id = $4`,
		activity.Title, activity.Description, activity.Category, activity.ID)
	if err != nil {
		return fmt.Errorf("error updating activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrActivityNotFound
	}
	return nil
}

// Delete removes an activity.
func (r *ActivityRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrActivityNotFound
	}
	return nil
}

// NoticeRepository handles database operations for campus notices
type NoticeRepository struct {
	db *pgxpool.Pool
}

// NewNoticeRepository creates a new NoticeRepository
func NewNoticeRepository(db *pgxpool.Pool) *NoticeRepository {
	return &NoticeRepository{db: db}
}

// Create inserts a new notice.
func (r *NoticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO notices (title, body, important, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		notice.Title, notice.Body, notice.Important, notice.CreatedBy,
	).Scan(&notice.ID, &notice.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notice: %w", err)
	}
	return nil
}

// GetByID retrieves a notice by ID.
func (r *NoticeRepository) GetByID(ctx context.Context, id int64) (*models.Notice, error) {
	var n models.Notice
	err := r.db.QueryRow(ctx,
		`SELECT id, title, body, important, created_by, created_at FROM notices WHERE id = $1`, id,
	).Scan(&n.ID, &n.Title, &n.Body, &n.Important, &n.CreatedBy, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoticeNotFound
		}
		return nil, fmt.Errorf("error retrieving notice: %w", err)
	}
	return &n, nil
}

// List returns notices, important ones first, then newest first.
func (r *NoticeRepository) List(ctx context.Context, offset, limit int) ([]*models.Notice, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notices`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting notices: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, title, body, important, created_by, created_at
		FROM notices
		ORDER BY important DESC, created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing notices: %w", err)
	}
	defer rows.Close()

	var notices []*models.Notice
	for rows.Next() {
		var n models.Notice
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Important, &n.CreatedBy, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning notice row: %w", err)
		}
		notices = append(notices, &n)
	}
	return notices, total, rows.Err()
}

// Update rewrites the editable fields of a notice.
func (r *NoticeRepository) Update(ctx context.Context, notice *models.Notice) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE notices
		SET title = $1, body = $2, important = $3
		WHERE id = $4`,
		notice.Title, notice.Body, notice.Important, notice.ID)
	if err != nil {
		return fmt.Errorf("error updating notice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNoticeNotFound
	}
	return nil
}

// Delete removes a notice.
func (r *NoticeRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting notice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNoticeNotFound
	}
	return nil
}

// PlacementRepository handles database operations for the placement
// gallery
type PlacementRepository struct {
	db *pgxpool.Pool
}

// NewPlacementRepository creates a new PlacementRepository
func NewPlacementRepository(db *pgxpool.Pool) *PlacementRepository {
	return &PlacementRepository{db: db}
}

// Create inserts a new placement entry.
func (r *PlacementRepository) Create(ctx context.Context, placement *models.Placement) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO placements (student_name, company, role, package, batch_year, photo_url, storage_key, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		placement.StudentName, placement.Company, placement.Role, placement.Package,
		placement.BatchYear, placement.PhotoURL, placement.StorageKey, placement.CreatedBy,
	).Scan(&placement.ID, &placement.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating placement: %w", err)
	}
	return nil
}

// GetByID retrieves a placement entry by ID.
func (r *PlacementRepository) GetByID(ctx context.Context, id int64) (*models.Placement, error) {
	var p models.Placement
	err := r.db.QueryRow(ctx, `
		SELECT id, student_name, company, role, package, batch_year, photo_url, storage_key, created_by, created_at
		FROM placements WHERE id = $1`, id,
	).Scan(&p.ID, &p.StudentName, &p.Company, &p.Role, &p.Package, &p.BatchYear,
		&p.PhotoURL, &p.StorageKey, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPlacementNotFound
		}
		return nil, fmt.Errorf("error retrieving placement: %w", err)
	}
	return &p, nil
}

// List returns placements, optionally filtered by batch year, newest
// batch first.
func (r *PlacementRepository) List(ctx context.Context, batchYear int, offset, limit int) ([]*models.Placement, int64, error) {
	where := ""
	args := []interface{}{}
	if batchYear > 0 {
		where = ` WHERE batch_year = $1`
		args = append(args, batchYear)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM placements`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting placements: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, student_name, company, role, package, batch_year, photo_url, storage_key, created_by, created_at
		FROM placements%s
		ORDER BY batch_year DESC, created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing placements: %w", err)
	}
	defer rows.Close()

	var placements []*models.Placement
	for rows.Next() {
		var p models.Placement
		err := rows.Scan(&p.ID, &p.StudentName, &p.Company, &p.Role, &p.Package, &p.BatchYear,
			&p.PhotoURL, &p.StorageKey, &p.CreatedBy, &p.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning placement row: %w", err)
		}
		placements = append(placements, &p)
	}
	return placements, total, rows.Err()
}

// Delete removes a placement entry.
func (r *PlacementRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM placements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting placement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPlacementNotFound
	}
	return nil
}

// LostFoundRepository handles database operations for the
// lost-and-found board
type LostFoundRepository struct {
	db  *pgxpool.Pool
	psq sq.StatementBuilderType
}

// NewLostFoundRepository creates a new LostFoundRepository
func NewLostFoundRepository(db *pgxpool.Pool) *LostFoundRepository {
	return &LostFoundRepository{
		db:  db,
		psq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Create inserts a new lost-and-found item.
func (r *LostFoundRepository) Create(ctx context.Context, item *models.LostFoundItem) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO lost_found_items (kind, title, description, location, image_url, storage_key, reporter_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		item.Kind, item.Title, item.Description, item.Location,
		item.ImageURL, item.StorageKey, item.ReporterID,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating lost and found item: %w", err)
	}
	return nil
}

const lostFoundColumns = `
	i.id, i.kind, i.title, i.description, i.location, i.image_url, i.storage_key, i.resolved, i.reporter_id, i.created_at,
	u.id, u.username, u.first_name, u.last_name, u.avatar_url, u.role_type`

func scanLostFoundItem(rows pgx.Rows) (*models.LostFoundItem, error) {
	var (
		item models.LostFoundItem

		reporterID            *int64
		username, first, last *string
		avatar, role          *string
	)

	err := rows.Scan(
		&item.ID, &item.Kind, &item.Title, &item.Description, &item.Location,
		&item.ImageURL, &item.StorageKey, &item.Resolved, &item.ReporterID, &item.CreatedAt,
		&reporterID, &username, &first, &last, &avatar, &role,
	)
	if err != nil {
		return nil, err
	}

	if reporterID != nil {
		item.Reporter = &models.UserSummary{
			ID:        *reporterID,
			Username:  deref(username),
			FirstName: deref(first),
			LastName:  deref(last),
			AvatarURL: avatar,
			RoleType:  models.RoleType(deref(role)),
		}
	}
	return &item, nil
}

// GetByID retrieves a lost-and-found item by ID.
func (r *LostFoundRepository) GetByID(ctx context.Context, id int64) (*models.LostFoundItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+lostFoundColumns+`
		FROM lost_found_items i
		LEFT JOIN users u ON u.id = i.reporter_id AND u.is_active
		WHERE i.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving lost and found item: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrItemNotFound
	}
	return scanLostFoundItem(rows)
}

// List returns board items, optionally filtered by kind and resolution
// state, newest first.
func (r *LostFoundRepository) List(ctx context.Context, kind models.LostFoundKind, includeResolved bool, offset, limit int) ([]*models.LostFoundItem, int64, error) {
	filters := sq.And{}
	if kind != "" {
		filters = append(filters, sq.Eq{"i.kind": kind})
	}
	if !includeResolved {
		filters = append(filters, sq.Eq{"i.resolved": false})
	}

	countBuilder := r.psq.Select("COUNT(*)").From("lost_found_items i")
	if len(filters) > 0 {
		countBuilder = countBuilder.Where(filters)
	}
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building lost and found count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting lost and found items: %w", err)
	}

	listBuilder := r.psq.Select(lostFoundColumns).
		From("lost_found_items i").
		LeftJoin("users u ON u.id = i.reporter_id AND u.is_active")
	if len(filters) > 0 {
		listBuilder = listBuilder.Where(filters)
	}
	query, args, err := listBuilder.
		OrderBy("i.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building lost and found list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing lost and found items: %w", err)
	}
	defer rows.Close()

	var items []*models.LostFoundItem
	for rows.Next() {
		item, err := scanLostFoundItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning lost and found row: %w", err)
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// SetResolved marks an item resolved or reopens it.
func (r *LostFoundRepository) SetResolved(ctx context.Context, id int64, resolved bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE lost_found_items SET resolved = $1 WHERE id = $2`, resolved, id)
	if err != nil {
		return fmt.Errorf("error updating lost and found item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrItemNotFound
	}
	return nil
}

// Delete removes an item from the board.
func (r *LostFoundRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM lost_found_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting lost and found item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrItemNotFound
	}
	return nil
}
