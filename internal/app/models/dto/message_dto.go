package dto

import (
	"time"

	"github.com/campusbuzz/backend/internal/app/models"
)

// SendMessageRequest is the payload for sending a direct message.
// At least one of content, images or sharedPostId must be present.
type SendMessageRequest struct {
	ReceiverID   int64                 `json:"receiverId" binding:"required,min=1"`
	Content      string                `json:"content" binding:"omitempty,max=5000"`
	Images       []MessageImageRequest `json:"images" binding:"omitempty,max=6,dive"`
	SharedPostID *int64                `json:"sharedPostId,omitempty" binding:"omitempty,min=1"`
}

// MessageImageRequest is an already-uploaded image attached to a message.
type MessageImageRequest struct {
	URL        string `json:"url" binding:"required,url"`
	StorageKey string `json:"storageKey" binding:"required"`
	Caption    string `json:"caption" binding:"omitempty,max=200"`
}

// MessageResponse is the API view of a message.
type MessageResponse struct {
	ID          int64                      `json:"id"`
	SenderID    int64                      `json:"senderId"`
	ReceiverID  int64                      `json:"receiverId"`
	Content     string                     `json:"content,omitempty"`
	MessageType models.MessageType         `json:"messageType"`
	Read        bool                       `json:"read"`
	CreatedAt   time.Time                  `json:"createdAt"`
	Images      []models.MessageImage      `json:"images,omitempty"`
	SharedPost  *models.SharedPostSnapshot `json:"sharedPost,omitempty"`
	Sender      *models.UserSummary        `json:"sender,omitempty"`
	Receiver    *models.UserSummary        `json:"receiver,omitempty"`
}

// ConversationResponse is the derived per-counterpart thread summary.
type ConversationResponse struct {
	CounterpartID        int64               `json:"counterpartId"`
	Counterpart          *models.UserSummary `json:"counterpart,omitempty"`
	LastMessageText      string              `json:"lastMessageText"`
	LastMessageTimestamp time.Time           `json:"lastMessageTimestamp"`
	UnreadCount          int                 `json:"unreadCount"`
	Messages             []MessageResponse   `json:"messages"`
}

// ToMessageResponse converts a message model to its API view.
func ToMessageResponse(m *models.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		ReceiverID:  m.ReceiverID,
		Content:     m.Content,
		MessageType: m.MessageType,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt,
		Images:      m.Images,
		SharedPost:  m.SharedPost,
		Sender:      m.Sender,
		Receiver:    m.Receiver,
	}
}
