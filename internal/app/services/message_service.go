package services

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/app/models/dto"
	"github.com/campusbuzz/backend/internal/pkg/apperrors"
	"github.com/campusbuzz/backend/internal/pkg/filestorage"
)

// MessageStore is the persistence surface the message service needs.
// *repositories.MessageRepository satisfies it.
type MessageStore interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	GetAllForUser(ctx context.Context, userID int64) ([]*models.Message, error)
	GetBetween(ctx context.Context, userID, otherID int64) ([]*models.Message, error)
	MarkConversationRead(ctx context.Context, userID, counterpartID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// EdgeReader resolves the connection edge between two users.
// *repositories.ConnectionRepository satisfies it.
type EdgeReader interface {
	GetEdge(ctx context.Context, userID, otherID int64) (*models.ConnectionEdge, error)
}

// PostReader loads a post for snapshotting into a shared-post message.
// *repositories.PostRepository satisfies it.
type PostReader interface {
	GetByID(ctx context.Context, id, viewerID int64) (*models.Post, error)
}

// MessageService defines the interface for direct messaging operations
type MessageService interface {
	SendMessage(ctx context.Context, senderID int64, req *dto.SendMessageRequest) (*models.Message, error)
	GetConversations(ctx context.Context, userID int64) ([]dto.ConversationResponse, error)
	GetConversation(ctx context.Context, userID, counterpartID int64) ([]*models.Message, error)
	DeleteMessage(ctx context.Context, userID, messageID int64) (*models.Message, error)
}

// messageServiceImpl implements the MessageService interface
type messageServiceImpl struct {
	messageRepo    MessageStore
	connectionRepo EdgeReader
	postRepo       PostReader
	userRepo       UserReader
	fileStorage    filestorage.Storage
	logger         zerolog.Logger
}

// NewMessageService creates a new message service instance
func NewMessageService(messageRepo MessageStore, connectionRepo EdgeReader, postRepo PostReader, userRepo UserReader, fileStorage filestorage.Storage, logger zerolog.Logger) MessageService {
	return &messageServiceImpl{
		messageRepo:    messageRepo,
		connectionRepo: connectionRepo,
		postRepo:       postRepo,
		userRepo:       userRepo,
		fileStorage:    fileStorage,
		logger:         logger,
	}
}

// SendMessage delivers a direct message. Sender and receiver must hold
// an accepted connection; the message type is derived from what the
// payload carries.
func (s *messageServiceImpl) SendMessage(ctx context.Context, senderID int64, req *dto.SendMessageRequest) (*models.Message, error) {
	if senderID == req.ReceiverID {
		return nil, apperrors.NewBadRequestError("cannot message yourself")
	}

	receiver, err := s.userRepo.GetByID(ctx, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !receiver.IsActive {
		return nil, apperrors.ErrUserNotFound
	}

	edge, err := s.connectionRepo.GetEdge(ctx, senderID, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if edge.StateFor(senderID) != models.StateConnected {
		return nil, apperrors.ErrNotConnected
	}

	messageType, err := models.DeriveMessageType(req.Content, len(req.Images), req.SharedPostID != nil)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		SenderID:    senderID,
		ReceiverID:  req.ReceiverID,
		Content:     req.Content,
		MessageType: messageType,
	}

	for _, img := range req.Images {
		message.Images = append(message.Images, models.MessageImage{
			URL:        img.URL,
			StorageKey: img.StorageKey,
			Caption:    img.Caption,
		})
	}

	if req.SharedPostID != nil {
		snapshot, err := s.snapshotPost(ctx, *req.SharedPostID, senderID)
		if err != nil {
			return nil, err
		}
		message.SharedPost = snapshot
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	// Reload with participant summaries resolved for delivery.
	return s.messageRepo.GetByID(ctx, message.ID)
}

// snapshotPost copies the post's state at share time. The snapshot is
// embedded in the message and never updated afterwards.
func (s *messageServiceImpl) snapshotPost(ctx context.Context, postID, viewerID int64) (*models.SharedPostSnapshot, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}

	snapshot := &models.SharedPostSnapshot{
		PostID:       post.ID,
		AuthorID:     post.AuthorID,
		Content:      post.Content,
		LikeCount:    post.LikeCount,
		CommentCount: post.CommentCount,
		PostedAt:     post.CreatedAt,
	}
	if post.Author != nil {
		snapshot.AuthorName = post.Author.FirstName + " " + post.Author.LastName
		snapshot.AuthorAvatar = post.Author.AvatarURL
	}
	for _, img := range post.Images {
		snapshot.ImageURLs = append(snapshot.ImageURLs, img.URL)
	}
	return snapshot, nil
}

// GetConversations derives the user's conversation list from their flat
// message set in one linear pass: group by counterpart, track the
// latest message, count unread incoming messages, then sort threads by
// recency. Messages whose counterpart no longer resolves are skipped
// rather than failing the whole listing.
func (s *messageServiceImpl) GetConversations(ctx context.Context, userID int64) ([]dto.ConversationResponse, error) {
	messages, err := s.messageRepo.GetAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	threads := make(map[int64]*dto.ConversationResponse)
	latest := make(map[int64]*models.Message)

	for _, m := range messages {
		counterpartID := m.CounterpartOf(userID)
		counterpart := m.CounterpartSummaryOf(userID)
		if counterpart == nil {
			s.logger.Debug().
				Int64("messageId", m.ID).
				Int64("counterpartId", counterpartID).
				Msg("Skipping message with unresolvable counterpart")
			continue
		}

		thread, ok := threads[counterpartID]
		if !ok {
			thread = &dto.ConversationResponse{
				CounterpartID: counterpartID,
				Counterpart:   counterpart,
			}
			threads[counterpartID] = thread
		}

		thread.Messages = append(thread.Messages, dto.ToMessageResponse(m))

		if m.ReceiverID == userID && !m.Read {
			thread.UnreadCount++
		}

		if last, ok := latest[counterpartID]; !ok || m.CreatedAt.After(last.CreatedAt) {
			latest[counterpartID] = m
			thread.LastMessageText = messagePreview(m)
			thread.LastMessageTimestamp = m.CreatedAt
		}
	}

	conversations := make([]dto.ConversationResponse, 0, len(threads))
	for _, thread := range threads {
		sort.Slice(thread.Messages, func(i, j int) bool {
			return thread.Messages[i].CreatedAt.Before(thread.Messages[j].CreatedAt)
		})
		conversations = append(conversations, *thread)
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessageTimestamp.After(conversations[j].LastMessageTimestamp)
	})

	return conversations, nil
}

// messagePreview is the one-line thread summary for a message.
func messagePreview(m *models.Message) string {
	if m.Content != "" {
		return m.Content
	}
	switch m.MessageType {
	case models.MessageTypeImage:
		return "Sent a photo"
	case models.MessageTypeSharedPost:
		return "Shared a post"
	}
	return m.Content
}

// GetConversation returns the full two-way thread with counterpartID in
// chronological order. Opening the thread marks the counterpart's
// messages as read.
func (s *messageServiceImpl) GetConversation(ctx context.Context, userID, counterpartID int64) ([]*models.Message, error) {
	messages, err := s.messageRepo.GetBetween(ctx, userID, counterpartID)
	if err != nil {
		return nil, err
	}

	marked, err := s.messageRepo.MarkConversationRead(ctx, userID, counterpartID)
	if err != nil {
		// The thread itself loaded; losing the read-marker update is not
		// worth failing the request over.
		s.logger.Warn().Err(err).Int64("userId", userID).Int64("counterpartId", counterpartID).Msg("Failed to mark conversation read")
	} else if marked > 0 {
		for _, m := range messages {
			if m.ReceiverID == userID {
				m.Read = true
			}
		}
	}

	return messages, nil
}

// DeleteMessage removes a message. Either participant may delete;
// stored image files go with it. The deleted message is returned so
// the realtime layer can notify the counterpart.
func (s *messageServiceImpl) DeleteMessage(ctx context.Context, userID, messageID int64) (*models.Message, error) {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, apperrors.ErrMessageNotFound
	}

	if message.SenderID != userID && message.ReceiverID != userID {
		return nil, apperrors.ErrPermissionDenied
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return nil, err
	}

	for _, img := range message.Images {
		if err := s.fileStorage.Delete(img.StorageKey); err != nil {
			s.logger.Warn().Err(err).Str("key", img.StorageKey).Msg("Failed to delete message image file")
		}
	}
	return message, nil
}
