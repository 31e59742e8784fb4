package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/db"
)

// MessageRepository handles database operations for direct messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message and its image attachments in one transaction.
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var sharedPost []byte
		if message.SharedPost != nil {
			var err error
			sharedPost, err = json.Marshal(message.SharedPost)
			if err != nil {
				return fmt.Errorf("error encoding shared post snapshot: %w", err)
			}
		}

		query := `
			INSERT INTO messages (sender_id, receiver_id, content, message_type, shared_post, read)
			VALUES ($1, $2, $3, $4, $5, FALSE)
			RETURNING id, created_at
		`

		err := tx.QueryRow(ctx, query,
			message.SenderID,
			message.ReceiverID,
			message.Content,
			message.MessageType,
			sharedPost,
		).Scan(&message.ID, &message.CreatedAt)
		if err != nil {
			return fmt.Errorf("error creating message: %w", err)
		}

		for i := range message.Images {
			img := &message.Images[i]
			img.MessageID = message.ID
			err := tx.QueryRow(ctx,
				`INSERT INTO message_images (message_id, url, storage_key, caption) VALUES ($1, $2, $3, $4) RETURNING id`,
				img.MessageID, img.URL, img.StorageKey, img.Caption,
			).Scan(&img.ID)
			if err != nil {
				return fmt.Errorf("error creating message image: %w", err)
			}
		}

		return nil
	})
}

const messageColumns = `
	m.id, m.sender_id, m.receiver_id, m.content, m.message_type, m.shared_post, m.read, m.created_at,
	s.id, s.username, s.first_name, s.last_name, s.avatar_url, s.role_type,
	rc.id, rc.username, rc.first_name, rc.last_name, rc.avatar_url, rc.role_type`

const messageJoins = `
	LEFT JOIN users s ON s.id = m.sender_id AND s.is_active
	LEFT JOIN users rc ON rc.id = m.receiver_id AND rc.is_active`

// scanMessage scans a message row with both participant summaries.
// Either summary is nil when the account is missing or deactivated.
func scanMessage(rows pgx.Rows) (*models.Message, error) {
	var (
		m          models.Message
		sharedPost []byte

		senderID, receiverID            *int64
		sUsername, sFirst, sLast        *string
		sAvatar                         *string
		sRole                           *string
		rUsername, rFirst, rLast, rRole *string
		rAvatar                         *string
	)

	err := rows.Scan(
		&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.MessageType, &sharedPost, &m.Read, &m.CreatedAt,
		&senderID, &sUsername, &sFirst, &sLast, &sAvatar, &sRole,
		&receiverID, &rUsername, &rFirst, &rLast, &rAvatar, &rRole,
	)
	if err != nil {
		return nil, err
	}

	if len(sharedPost) > 0 {
		var snapshot models.SharedPostSnapshot
		if err := json.Unmarshal(sharedPost, &snapshot); err != nil {
			return nil, fmt.Errorf("error decoding shared post snapshot: %w", err)
		}
		m.SharedPost = &snapshot
	}

	if senderID != nil {
		m.Sender = &models.UserSummary{
			ID:        *senderID,
			Username:  deref(sUsername),
			FirstName: deref(sFirst),
			LastName:  deref(sLast),
			AvatarURL: sAvatar,
			RoleType:  models.RoleType(deref(sRole)),
		}
	}
	if receiverID != nil {
		m.Receiver = &models.UserSummary{
			ID:        *receiverID,
			Username:  deref(rUsername),
			FirstName: deref(rFirst),
			LastName:  deref(rLast),
			AvatarURL: rAvatar,
			RoleType:  models.RoleType(deref(rRole)),
		}
	}

	return &m, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *MessageRepository) queryMessages(ctx context.Context, query string, args ...interface{}) ([]*models.Message, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	byID := make(map[int64]*models.Message)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		messages = append(messages, m)
		byID[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachImages(ctx, byID); err != nil {
		return nil, err
	}

	return messages, nil
}

// attachImages loads image attachments for the given messages.
func (r *MessageRepository) attachImages(ctx context.Context, byID map[int64]*models.Message) error {
	if len(byID) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, message_id, url, storage_key, caption FROM message_images WHERE message_id = ANY($1) ORDER BY id`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("error querying message images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img models.MessageImage
		if err := rows.Scan(&img.ID, &img.MessageID, &img.URL, &img.StorageKey, &img.Caption); err != nil {
			return fmt.Errorf("error scanning message image: %w", err)
		}
		if m, ok := byID[img.MessageID]; ok {
			m.Images = append(m.Images, img)
		}
	}
	return rows.Err()
}

// GetByID retrieves a message by its ID.
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages m` + messageJoins + ` WHERE m.id = $1`

	messages, err := r.queryMessages(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, pgx.ErrNoRows
	}
	return messages[0], nil
}

// GetAllForUser returns every message the user sent or received, with
// participant summaries resolved. The conversation aggregator consumes
// this as a single unordered set.
func (r *MessageRepository) GetAllForUser(ctx context.Context, userID int64) ([]*models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages m` + messageJoins + `
		WHERE m.sender_id = $1 OR m.receiver_id = $1`

	return r.queryMessages(ctx, query, userID)
}

// GetBetween returns the two-way message set between two users sorted
// ascending by time.
func (r *MessageRepository) GetBetween(ctx context.Context, userID, otherID int64) ([]*models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages m` + messageJoins + `
		WHERE (m.sender_id = $1 AND m.receiver_id = $2)
		   OR (m.sender_id = $2 AND m.receiver_id = $1)
		ORDER BY m.created_at ASC`

	return r.queryMessages(ctx, query, userID, otherID)
}

// MarkConversationRead bulk-marks unread counterpart-to-user messages
// as read and returns how many were affected.
func (r *MessageRepository) MarkConversationRead(ctx context.Context, userID, counterpartID int64) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE messages SET read = TRUE WHERE receiver_id = $1 AND sender_id = $2 AND NOT read`,
		userID, counterpartID,
	)
	if err != nil {
		return 0, fmt.Errorf("error marking conversation read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes a message and its attachments.
func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
