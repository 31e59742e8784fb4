package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/app/repositories"
	"github.com/campusbuzz/backend/internal/pkg/apperrors"
)

// fakeConnectionStore keeps edges in memory, one per ordered pair, the
// same shape the real table enforces.
type fakeConnectionStore struct {
	edges  map[[2]int64]*models.ConnectionEdge
	nextID int64
}

func newFakeConnectionStore() *fakeConnectionStore {
	return &fakeConnectionStore{edges: make(map[[2]int64]*models.ConnectionEdge)}
}

func pairKey(a, b int64) [2]int64 {
	low, high := models.OrderPair(a, b)
	return [2]int64{low, high}
}

func (f *fakeConnectionStore) GetEdge(_ context.Context, userID, otherID int64) (*models.ConnectionEdge, error) {
	return f.edges[pairKey(userID, otherID)], nil
}

func (f *fakeConnectionStore) GetEdgesForUser(_ context.Context, userID int64) ([]*models.ConnectionEdge, error) {
	var edges []*models.ConnectionEdge
	for _, e := range f.edges {
		if e.Involves(userID) {
			edges = append(edges, e)
		}
	}
	return edges, nil
}

func (f *fakeConnectionStore) CreatePending(_ context.Context, requesterID, targetID int64) (*models.ConnectionEdge, error) {
	low, high := models.OrderPair(requesterID, targetID)
	f.nextID++
	edge := &models.ConnectionEdge{
		ID:          f.nextID,
		UserAID:     low,
		UserBID:     high,
		Status:      models.ConnectionPending,
		RequestedBy: requesterID,
		RequestedAt: time.Now(),
	}
	f.edges[pairKey(low, high)] = edge
	return edge, nil
}

func (f *fakeConnectionStore) Connect(_ context.Context, edgeID int64) (*models.ConnectionEdge, error) {
	for _, e := range f.edges {
		if e.ID == edgeID {
			if e.Status != models.ConnectionPending {
				return nil, nil
			}
			now := time.Now()
			e.Status = models.ConnectionConnected
			e.ConnectedAt = &now
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeConnectionStore) Delete(_ context.Context, edgeID int64) error {
	for key, e := range f.edges {
		if e.ID == edgeID {
			delete(f.edges, key)
			return nil
		}
	}
	return nil
}

func (f *fakeConnectionStore) ListConnected(_ context.Context, _ int64) ([]repositories.ConnectionPeer, error) {
	return nil, nil
}

func (f *fakeConnectionStore) ListIncoming(_ context.Context, _ int64) ([]repositories.ConnectionPeer, error) {
	return nil, nil
}

func (f *fakeConnectionStore) ListOutgoing(_ context.Context, _ int64) ([]repositories.ConnectionPeer, error) {
	return nil, nil
}

type fakeUserReader struct {
	users map[int64]*models.User
}

func (f *fakeUserReader) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

type fakeEmailService struct {
	acceptedSentTo []string
}

func (f *fakeEmailService) SendWelcomeEmail(string, string) error { return nil }

func (f *fakeEmailService) SendConnectionAcceptedEmail(toEmail, _, _ string) error {
	f.acceptedSentTo = append(f.acceptedSentTo, toEmail)
	return nil
}

func (f *fakeEmailService) SendNoticeEmail(string, string, string, string) error { return nil }

func newConnectionFixture() (*fakeConnectionStore, *fakeEmailService, ConnectionService) {
	store := newFakeConnectionStore()
	users := &fakeUserReader{users: map[int64]*models.User{
		1: {ID: 1, Email: "alice@campus.edu", FirstName: "Alice", LastName: "A", IsActive: true},
		2: {ID: 2, Email: "bob@campus.edu", FirstName: "Bob", LastName: "B", IsActive: true},
		3: {ID: 3, Email: "carol@campus.edu", FirstName: "Carol", LastName: "C", IsActive: true},
	}}
	emails := &fakeEmailService{}
	svc := NewConnectionService(store, users, emails, zerolog.Nop())
	return store, emails, svc
}

func TestSendRequestCreatesPending(t *testing.T) {
	store, _, svc := newConnectionFixture()
	ctx := context.Background()

	state, err := svc.SendRequest(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, models.StatePending, state)

	edge := store.edges[pairKey(1, 2)]
	require.NotNil(t, edge)
	assert.Equal(t, models.ConnectionPending, edge.Status)
	assert.Equal(t, int64(1), edge.RequestedBy)

	// The target sees the mirror state.
	state, err = svc.GetState(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StateRequestReceived, state)
}

func TestSendRequestRejections(t *testing.T) {
	_, _, svc := newConnectionFixture()
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, 1, 1)
	assert.ErrorIs(t, err, apperrors.ErrSelfConnection)

	_, err = svc.SendRequest(ctx, 1, 99)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = svc.SendRequest(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.SendRequest(ctx, 1, 2)
	assert.ErrorIs(t, err, apperrors.ErrRequestAlreadySent)

	// Once accepted, sending again in either direction is a conflict.
	_, err = svc.AcceptRequest(ctx, 2, 1)
	require.NoError(t, err)
	_, err = svc.SendRequest(ctx, 1, 2)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyConnected)
	_, err = svc.SendRequest(ctx, 2, 1)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyConnected)
}

func TestMutualSendMergesIntoConnection(t *testing.T) {
	store, emails, svc := newConnectionFixture()
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, 1, 2)
	require.NoError(t, err)

	// The counterpart sending back accepts the outstanding request.
	state, err := svc.SendRequest(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StateConnected, state)

	edge := store.edges[pairKey(1, 2)]
	require.NotNil(t, edge)
	assert.Equal(t, models.ConnectionConnected, edge.Status)
	require.NotNil(t, edge.ConnectedAt)

	// The original requester is notified.
	assert.Equal(t, []string{"alice@campus.edu"}, emails.acceptedSentTo)
}

func TestAcceptRequest(t *testing.T) {
	_, emails, svc := newConnectionFixture()
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, 1, 2)
	require.NoError(t, err)

	state, err := svc.AcceptRequest(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StateConnected, state)
	assert.Equal(t, []string{"alice@campus.edu"}, emails.acceptedSentTo)

	// Both sides now see CONNECTED.
	state, err = svc.GetState(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, models.StateConnected, state)
}

func TestAcceptWithoutRequest(t *testing.T) {
	_, _, svc := newConnectionFixture()

	_, err := svc.AcceptRequest(context.Background(), 2, 1)
	assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)
}

func TestDeclineRemovesEdge(t *testing.T) {
	store, _, svc := newConnectionFixture()
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, 1, 2)
	require.NoError(t, err)

	state, err := svc.DeclineRequest(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StateNotConnected, state)
	assert.Empty(t, store.edges)

	// Declined requests leave no trace, so sending again works.
	state, err = svc.SendRequest(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, models.StatePending, state)
}

func TestCancelRequest(t *testing.T) {
	_, _, svc := newConnectionFixture()
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, 1, 2)
	require.NoError(t, err)

	// Only the requester may cancel.
	_, err = svc.CancelRequest(ctx, 2, 1)
	assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)

	state, err := svc.CancelRequest(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, models.StateNotConnected, state)
}

func TestDisconnect(t *testing.T) {
	_, _, svc := newConnectionFixture()
	ctx := context.Background()

	_, err := svc.Disconnect(ctx, 1, 2)
	assert.ErrorIs(t, err, apperrors.ErrConnectionNotFound)

	_, err = svc.SendRequest(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.AcceptRequest(ctx, 2, 1)
	require.NoError(t, err)

	state, err := svc.Disconnect(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StateNotConnected, state)

	state, err = svc.GetState(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, models.StateNotConnected, state)
}

func TestGetStatesBatch(t *testing.T) {
	_, _, svc := newConnectionFixture()
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.SendRequest(ctx, 3, 1)
	require.NoError(t, err)

	states, err := svc.GetStates(ctx, 1, []int64{1, 2, 3, 42})
	require.NoError(t, err)

	// The caller's own ID is skipped entirely.
	_, ok := states[1]
	assert.False(t, ok)

	assert.Equal(t, models.StatePending, states[2])
	assert.Equal(t, models.StateRequestReceived, states[3])
	assert.Equal(t, models.StateNotConnected, states[42])
}
