package services

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/app/models/dto"
	"github.com/campusbuzz/backend/internal/pkg/apperrors"
	"github.com/campusbuzz/backend/internal/pkg/filestorage"
)

type fakeMessageStore struct {
	messages map[int64]*models.Message
	nextID   int64
	readErr  error
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{messages: make(map[int64]*models.Message)}
}

func (f *fakeMessageStore) Create(_ context.Context, message *models.Message) error {
	f.nextID++
	message.ID = f.nextID
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	f.messages[message.ID] = message
	return nil
}

func (f *fakeMessageStore) GetByID(_ context.Context, id int64) (*models.Message, error) {
	m, ok := f.messages[id]
	if !ok {
		return nil, apperrors.ErrMessageNotFound
	}
	return m, nil
}

func (f *fakeMessageStore) GetAllForUser(_ context.Context, userID int64) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) GetBetween(_ context.Context, userID, otherID int64) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.messages {
		if (m.SenderID == userID && m.ReceiverID == otherID) || (m.SenderID == otherID && m.ReceiverID == userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) MarkConversationRead(_ context.Context, userID, counterpartID int64) (int64, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	var marked int64
	for _, m := range f.messages {
		if m.ReceiverID == userID && m.SenderID == counterpartID && !m.Read {
			m.Read = true
			marked++
		}
	}
	return marked, nil
}

func (f *fakeMessageStore) Delete(_ context.Context, id int64) error {
	delete(f.messages, id)
	return nil
}

type fakeEdgeReader struct {
	edges map[[2]int64]*models.ConnectionEdge
}

func (f *fakeEdgeReader) GetEdge(_ context.Context, userID, otherID int64) (*models.ConnectionEdge, error) {
	return f.edges[pairKey(userID, otherID)], nil
}

type fakePostReader struct {
	posts map[int64]*models.Post
}

func (f *fakePostReader) GetByID(_ context.Context, id, _ int64) (*models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, apperrors.ErrPostNotFound
	}
	return post, nil
}

type fakeFileStorage struct {
	deletedKeys []string
}

func (f *fakeFileStorage) Save(_ *multipart.FileHeader, _ string) (*filestorage.StoredFile, error) {
	return &filestorage.StoredFile{URL: "http://x/file", Key: "key"}, nil
}

func (f *fakeFileStorage) Delete(key string) error {
	f.deletedKeys = append(f.deletedKeys, key)
	return nil
}

func connectedEdge(a, b int64) *models.ConnectionEdge {
	low, high := models.OrderPair(a, b)
	now := time.Now()
	return &models.ConnectionEdge{
		ID: 1, UserAID: low, UserBID: high,
		Status: models.ConnectionConnected, RequestedBy: low, ConnectedAt: &now,
	}
}

func newMessageFixture() (*fakeMessageStore, *fakePostReader, *fakeFileStorage, MessageService) {
	store := newFakeMessageStore()
	edges := &fakeEdgeReader{edges: map[[2]int64]*models.ConnectionEdge{
		pairKey(1, 2): connectedEdge(1, 2),
	}}
	posts := &fakePostReader{posts: make(map[int64]*models.Post)}
	users := &fakeUserReader{users: map[int64]*models.User{
		1: {ID: 1, FirstName: "Alice", LastName: "A", IsActive: true},
		2: {ID: 2, FirstName: "Bob", LastName: "B", IsActive: true},
		3: {ID: 3, FirstName: "Carol", LastName: "C", IsActive: true},
	}}
	files := &fakeFileStorage{}
	svc := NewMessageService(store, edges, posts, users, files, zerolog.Nop())
	return store, posts, files, svc
}

func TestSendMessageRequiresConnection(t *testing.T) {
	_, _, _, svc := newMessageFixture()
	ctx := context.Background()

	// 1 and 3 hold no edge.
	_, err := svc.SendMessage(ctx, 1, &dto.SendMessageRequest{ReceiverID: 3, Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrNotConnected)
}

func TestSendMessageRejections(t *testing.T) {
	_, _, _, svc := newMessageFixture()
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, 1, &dto.SendMessageRequest{ReceiverID: 1, Content: "hi"})
	assert.Error(t, err)

	_, err = svc.SendMessage(ctx, 1, &dto.SendMessageRequest{ReceiverID: 99, Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = svc.SendMessage(ctx, 1, &dto.SendMessageRequest{ReceiverID: 2, Content: "   "})
	assert.ErrorIs(t, err, apperrors.ErrEmptyMessage)
}

func TestSendMessageDerivesType(t *testing.T) {
	_, _, _, svc := newMessageFixture()
	ctx := context.Background()

	m, err := svc.SendMessage(ctx, 1, &dto.SendMessageRequest{ReceiverID: 2, Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeText, m.MessageType)

	m, err = svc.SendMessage(ctx, 1, &dto.SendMessageRequest{
		ReceiverID: 2,
		Images:     []dto.MessageImageRequest{{URL: "http://x/1.jpg", StorageKey: "k1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeImage, m.MessageType)
	require.Len(t, m.Images, 1)
	assert.Equal(t, "http://x/1.jpg", m.Images[0].URL)

	m, err = svc.SendMessage(ctx, 1, &dto.SendMessageRequest{
		ReceiverID: 2,
		Content:    "look",
		Images:     []dto.MessageImageRequest{{URL: "http://x/2.jpg", StorageKey: "k2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeMixed, m.MessageType)
}

func TestSendMessageSnapshotsSharedPost(t *testing.T) {
	_, posts, _, svc := newMessageFixture()
	ctx := context.Background()

	avatar := "http://x/ava.jpg"
	postedAt := time.Now().Add(-time.Hour)
	posts.posts[7] = &models.Post{
		ID:       7,
		AuthorID: 2,
		Content:  "original post",
		Author: &models.UserSummary{
			ID: 2, FirstName: "Bob", LastName: "B", AvatarURL: &avatar,
		},
		Images:       []models.PostImage{{URL: "http://x/p.jpg"}},
		LikeCount:    3,
		CommentCount: 1,
		CreatedAt:    postedAt,
	}

	postID := int64(7)
	m, err := svc.SendMessage(ctx, 1, &dto.SendMessageRequest{ReceiverID: 2, SharedPostID: &postID})
	require.NoError(t, err)

	assert.Equal(t, models.MessageTypeSharedPost, m.MessageType)
	require.NotNil(t, m.SharedPost)
	assert.Equal(t, int64(7), m.SharedPost.PostID)
	assert.Equal(t, "Bob B", m.SharedPost.AuthorName)
	assert.Equal(t, &avatar, m.SharedPost.AuthorAvatar)
	assert.Equal(t, "original post", m.SharedPost.Content)
	assert.Equal(t, []string{"http://x/p.jpg"}, m.SharedPost.ImageURLs)
	assert.Equal(t, 3, m.SharedPost.LikeCount)

	// Sharing a missing post fails the send.
	missing := int64(99)
	_, err = svc.SendMessage(ctx, 1, &dto.SendMessageRequest{ReceiverID: 2, SharedPostID: &missing})
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func seedMessage(store *fakeMessageStore, id, senderID, receiverID int64, content string, read bool, at time.Time) {
	sender := &models.UserSummary{ID: senderID}
	receiver := &models.UserSummary{ID: receiverID}
	store.messages[id] = &models.Message{
		ID: id, SenderID: senderID, ReceiverID: receiverID,
		Content: content, MessageType: models.MessageTypeText,
		Read: read, CreatedAt: at,
		Sender: sender, Receiver: receiver,
	}
	if id > store.nextID {
		store.nextID = id
	}
}

func TestGetConversationsAggregation(t *testing.T) {
	store, _, _, svc := newMessageFixture()
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	// Thread with user 2: two unread incoming, one outgoing.
	seedMessage(store, 1, 2, 1, "first", false, base)
	seedMessage(store, 2, 1, 2, "reply", false, base.Add(10*time.Minute))
	seedMessage(store, 3, 2, 1, "latest with bob", false, base.Add(20*time.Minute))

	// Older thread with user 3, already read.
	seedMessage(store, 4, 3, 1, "hi from carol", true, base.Add(5*time.Minute))

	conversations, err := svc.GetConversations(ctx, 1)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	// Most recently active thread first.
	bob := conversations[0]
	assert.Equal(t, int64(2), bob.CounterpartID)
	assert.Equal(t, "latest with bob", bob.LastMessageText)
	assert.Equal(t, 2, bob.UnreadCount)
	require.Len(t, bob.Messages, 3)

	// Thread messages are chronological.
	assert.Equal(t, "first", bob.Messages[0].Content)
	assert.Equal(t, "latest with bob", bob.Messages[2].Content)

	carol := conversations[1]
	assert.Equal(t, int64(3), carol.CounterpartID)
	assert.Equal(t, 0, carol.UnreadCount)
}

func TestGetConversationsSkipsUnresolvableCounterpart(t *testing.T) {
	store, _, _, svc := newMessageFixture()
	base := time.Now()

	seedMessage(store, 1, 2, 1, "ok", false, base)
	// A message whose counterpart account no longer resolves.
	store.messages[2] = &models.Message{
		ID: 2, SenderID: 9, ReceiverID: 1,
		Content: "ghost", MessageType: models.MessageTypeText, CreatedAt: base,
		Receiver: &models.UserSummary{ID: 1},
	}

	conversations, err := svc.GetConversations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, int64(2), conversations[0].CounterpartID)
}

func TestGetConversationMarksRead(t *testing.T) {
	store, _, _, svc := newMessageFixture()
	ctx := context.Background()
	base := time.Now()

	seedMessage(store, 1, 2, 1, "unread incoming", false, base)
	seedMessage(store, 2, 1, 2, "outgoing", false, base.Add(time.Minute))

	messages, err := svc.GetConversation(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	for _, m := range messages {
		if m.ReceiverID == 1 {
			assert.True(t, m.Read)
		}
	}
	assert.True(t, store.messages[1].Read)
	// Outgoing messages stay untouched.
	assert.False(t, store.messages[2].Read)
}

func TestGetConversationSurvivesReadMarkerFailure(t *testing.T) {
	store, _, _, svc := newMessageFixture()
	store.readErr = assert.AnError

	seedMessage(store, 1, 2, 1, "unread", false, time.Now())

	messages, err := svc.GetConversation(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.False(t, messages[0].Read)
}

func TestDeleteMessage(t *testing.T) {
	store, _, _, svc := newMessageFixture()
	ctx := context.Background()

	seedMessage(store, 1, 1, 2, "mine", false, time.Now())

	// A non-participant may not delete.
	_, err := svc.DeleteMessage(ctx, 3, 1)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.DeleteMessage(ctx, 1, 99)
	assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)

	deleted, err := svc.DeleteMessage(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted.ID)
	assert.NotContains(t, store.messages, int64(1))
}

func TestDeleteMessageByReceiver(t *testing.T) {
	store, _, _, svc := newMessageFixture()
	ctx := context.Background()

	seedMessage(store, 1, 2, 1, "sent to alice", false, time.Now())

	deleted, err := svc.DeleteMessage(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted.SenderID)
	assert.NotContains(t, store.messages, int64(1))
}

func TestDeleteMessageRemovesImageFiles(t *testing.T) {
	store, _, files, svc := newMessageFixture()
	ctx := context.Background()

	seedMessage(store, 1, 1, 2, "", false, time.Now())
	store.messages[1].MessageType = models.MessageTypeImage
	store.messages[1].Images = []models.MessageImage{
		{URL: "http://x/a.jpg", StorageKey: "ka"},
		{URL: "http://x/b.jpg", StorageKey: "kb"},
	}

	_, err := svc.DeleteMessage(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ka", "kb"}, files.deletedKeys)
}
