package models

import (
	"strings"
	"time"

	"github.com/campusbuzz/backend/internal/pkg/apperrors"
)

// MessageType represents what a direct message carries.
type MessageType string

const (
	MessageTypeText       MessageType = "TEXT"
	MessageTypeImage      MessageType = "IMAGE"
	MessageTypeMixed      MessageType = "MIXED"
	MessageTypeSharedPost MessageType = "SHARED_POST"
)

// Message is a unit of direct communication between two connected users.
type Message struct {
	ID          int64               `json:"id" db:"id"`
	SenderID    int64               `json:"senderId" db:"sender_id"`
	ReceiverID  int64               `json:"receiverId" db:"receiver_id"`
	Content     string              `json:"content" db:"content"`
	MessageType MessageType         `json:"messageType" db:"message_type"`
	Read        bool                `json:"read" db:"read"`
	CreatedAt   time.Time           `json:"createdAt" db:"created_at"`
	Images      []MessageImage      `json:"images,omitempty"`
	SharedPost  *SharedPostSnapshot `json:"sharedPost,omitempty"`

	// Participant summaries resolved at load time. Either may be nil
	// when the account no longer resolves.
	Sender   *UserSummary `json:"sender,omitempty"`
	Receiver *UserSummary `json:"receiver,omitempty"`
}

// MessageImage is an image attachment on a message.
type MessageImage struct {
	ID         int64  `json:"id" db:"id"`
	MessageID  int64  `json:"messageId" db:"message_id"`
	URL        string `json:"url" db:"url"`
	StorageKey string `json:"-" db:"storage_key"`
	Caption    string `json:"caption,omitempty" db:"caption"`
}

// SharedPostSnapshot is the denormalized copy of a post embedded in a
// SHARED_POST message. It is a snapshot at share time, not a reference.
type SharedPostSnapshot struct {
	PostID       int64     `json:"postId"`
	AuthorID     int64     `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	AuthorAvatar *string   `json:"authorAvatar,omitempty"`
	Content      string    `json:"content"`
	ImageURLs    []string  `json:"imageUrls,omitempty"`
	LikeCount    int       `json:"likeCount"`
	CommentCount int       `json:"commentCount"`
	PostedAt     time.Time `json:"postedAt"`
}

// DeriveMessageType classifies a message at creation time. A message
// must carry at least one of: non-blank content, images, a shared post.
func DeriveMessageType(content string, imageCount int, sharedPost bool) (MessageType, error) {
	hasContent := strings.TrimSpace(content) != ""

	switch {
	case sharedPost:
		return MessageTypeSharedPost, nil
	case hasContent && imageCount > 0:
		return MessageTypeMixed, nil
	case imageCount > 0:
		return MessageTypeImage, nil
	case hasContent:
		return MessageTypeText, nil
	}
	return "", apperrors.ErrEmptyMessage
}

// CounterpartOf returns the participant that is not the given user.
func (m *Message) CounterpartOf(userID int64) int64 {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// CounterpartSummaryOf returns the resolved summary of the participant
// that is not the given user, which may be nil.
func (m *Message) CounterpartSummaryOf(userID int64) *UserSummary {
	if m.SenderID == userID {
		return m.Receiver
	}
	return m.Sender
}
