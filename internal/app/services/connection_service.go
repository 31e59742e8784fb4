package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/app/repositories"
	"github.com/campusbuzz/backend/internal/pkg/apperrors"
	"github.com/campusbuzz/backend/internal/pkg/email"
)

// ConnectionStore is the persistence surface the connection service
// needs. *repositories.ConnectionRepository satisfies it.
type ConnectionStore interface {
	GetEdge(ctx context.Context, userID, otherID int64) (*models.ConnectionEdge, error)
	GetEdgesForUser(ctx context.Context, userID int64) ([]*models.ConnectionEdge, error)
	CreatePending(ctx context.Context, requesterID, targetID int64) (*models.ConnectionEdge, error)
	Connect(ctx context.Context, edgeID int64) (*models.ConnectionEdge, error)
	Delete(ctx context.Context, edgeID int64) error
	ListConnected(ctx context.Context, userID int64) ([]repositories.ConnectionPeer, error)
	ListIncoming(ctx context.Context, userID int64) ([]repositories.ConnectionPeer, error)
	ListOutgoing(ctx context.Context, userID int64) ([]repositories.ConnectionPeer, error)
}

// UserReader is the read-only user lookup the connection service needs.
// *repositories.UserRepository satisfies it.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// ConnectionService defines the interface for connection operations
type ConnectionService interface {
	SendRequest(ctx context.Context, userID, targetID int64) (models.ConnectionState, error)
	AcceptRequest(ctx context.Context, userID, requesterID int64) (models.ConnectionState, error)
	DeclineRequest(ctx context.Context, userID, requesterID int64) (models.ConnectionState, error)
	CancelRequest(ctx context.Context, userID, targetID int64) (models.ConnectionState, error)
	Disconnect(ctx context.Context, userID, otherID int64) (models.ConnectionState, error)
	GetState(ctx context.Context, userID, otherID int64) (models.ConnectionState, error)
	GetStates(ctx context.Context, userID int64, otherIDs []int64) (map[int64]models.ConnectionState, error)
	ListConnections(ctx context.Context, userID int64) ([]repositories.ConnectionPeer, error)
	ListIncomingRequests(ctx context.Context, userID int64) ([]repositories.ConnectionPeer, error)
	ListOutgoingRequests(ctx context.Context, userID int64) ([]repositories.ConnectionPeer, error)
}

// connectionServiceImpl implements the ConnectionService interface
type connectionServiceImpl struct {
	connectionRepo ConnectionStore
	userRepo       UserReader
	emailService   email.EmailService
	logger         zerolog.Logger
}

// NewConnectionService creates a new connection service instance
func NewConnectionService(connectionRepo ConnectionStore, userRepo UserReader, emailService email.EmailService, logger zerolog.Logger) ConnectionService {
	return &connectionServiceImpl{
		connectionRepo: connectionRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		logger:         logger,
	}
}

// apply resolves an action against the current actor-relative state and
// executes the resulting storage effect. Every effect is a single row
// operation, so concurrent actions on the same pair collapse to row
// atomicity instead of needing cross-record repair.
func (s *connectionServiceImpl) apply(ctx context.Context, actorID, otherID int64, action models.ConnectionAction) (models.ConnectionState, error) {
	if actorID == otherID {
		return "", apperrors.ErrSelfConnection
	}

	if _, err := s.userRepo.GetByID(ctx, otherID); err != nil {
		return "", err
	}

	edge, err := s.connectionRepo.GetEdge(ctx, actorID, otherID)
	if err != nil {
		return "", err
	}

	state := edge.StateFor(actorID)
	effect, err := models.Transition(state, action)
	if err != nil {
		return "", err
	}

	switch effect {
	case models.EffectCreatePending:
		if _, err := s.connectionRepo.CreatePending(ctx, actorID, otherID); err != nil {
			return "", err
		}
		return models.StatePending, nil

	case models.EffectConnect:
		connected, err := s.connectionRepo.Connect(ctx, edge.ID)
		if err != nil {
			return "", err
		}
		if connected == nil {
			// Lost the race: the edge was no longer PENDING. Resolve to
			// whatever the pair looks like now.
			return s.GetState(ctx, actorID, otherID)
		}
		s.notifyAccepted(ctx, actorID, connected)
		return models.StateConnected, nil

	case models.EffectDelete:
		if err := s.connectionRepo.Delete(ctx, edge.ID); err != nil {
			return "", err
		}
		return models.StateNotConnected, nil
	}

	return "", fmt.Errorf("unhandled transition effect %d", effect)
}

// notifyAccepted emails the original requester that their request was
// accepted. Best effort only.
func (s *connectionServiceImpl) notifyAccepted(ctx context.Context, accepterID int64, edge *models.ConnectionEdge) {
	requester, err := s.userRepo.GetByID(ctx, edge.RequestedBy)
	if err != nil {
		s.logger.Warn().Err(err).Int64("userId", edge.RequestedBy).Msg("Could not resolve requester for accept notification")
		return
	}
	accepter, err := s.userRepo.GetByID(ctx, accepterID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("userId", accepterID).Msg("Could not resolve accepter for accept notification")
		return
	}

	if err := s.emailService.SendConnectionAcceptedEmail(requester.Email, requester.FullName(), accepter.FullName()); err != nil {
		s.logger.Warn().Err(err).Str("toEmail", requester.Email).Msg("Failed to send connection accepted email")
	}
}

// SendRequest sends a connection request to targetID. When the target
// already has an outstanding request towards the actor, the two
// requests merge into an accepted connection.
func (s *connectionServiceImpl) SendRequest(ctx context.Context, userID, targetID int64) (models.ConnectionState, error) {
	return s.apply(ctx, userID, targetID, models.ActionSend)
}

// AcceptRequest accepts a pending request from requesterID.
func (s *connectionServiceImpl) AcceptRequest(ctx context.Context, userID, requesterID int64) (models.ConnectionState, error) {
	return s.apply(ctx, userID, requesterID, models.ActionAccept)
}

// DeclineRequest declines a pending request from requesterID. The edge
// is removed entirely, so the requester may send again later.
func (s *connectionServiceImpl) DeclineRequest(ctx context.Context, userID, requesterID int64) (models.ConnectionState, error) {
	return s.apply(ctx, userID, requesterID, models.ActionDecline)
}

// CancelRequest withdraws the actor's own outstanding request.
func (s *connectionServiceImpl) CancelRequest(ctx context.Context, userID, targetID int64) (models.ConnectionState, error) {
	return s.apply(ctx, userID, targetID, models.ActionCancel)
}

// Disconnect severs an accepted connection.
func (s *connectionServiceImpl) Disconnect(ctx context.Context, userID, otherID int64) (models.ConnectionState, error) {
	return s.apply(ctx, userID, otherID, models.ActionDisconnect)
}

// GetState returns the viewer-relative state towards otherID.
func (s *connectionServiceImpl) GetState(ctx context.Context, userID, otherID int64) (models.ConnectionState, error) {
	if userID == otherID {
		return "", apperrors.ErrSelfConnection
	}

	edge, err := s.connectionRepo.GetEdge(ctx, userID, otherID)
	if err != nil {
		return "", err
	}
	return edge.StateFor(userID), nil
}

// GetStates resolves the viewer-relative state for a batch of users in
// one pass over the viewer's edges.
func (s *connectionServiceImpl) GetStates(ctx context.Context, userID int64, otherIDs []int64) (map[int64]models.ConnectionState, error) {
	edges, err := s.connectionRepo.GetEdgesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byCounterpart := make(map[int64]*models.ConnectionEdge, len(edges))
	for _, edge := range edges {
		byCounterpart[edge.CounterpartOf(userID)] = edge
	}

	states := make(map[int64]models.ConnectionState, len(otherIDs))
	for _, otherID := range otherIDs {
		if otherID == userID {
			continue
		}
		states[otherID] = byCounterpart[otherID].StateFor(userID)
	}
	return states, nil
}

// ListConnections returns the user's accepted connections.
func (s *connectionServiceImpl) ListConnections(ctx context.Context, userID int64) ([]repositories.ConnectionPeer, error) {
	return s.connectionRepo.ListConnected(ctx, userID)
}

// ListIncomingRequests returns pending requests received by the user.
func (s *connectionServiceImpl) ListIncomingRequests(ctx context.Context, userID int64) ([]repositories.ConnectionPeer, error) {
	return s.connectionRepo.ListIncoming(ctx, userID)
}

// ListOutgoingRequests returns pending requests sent by the user.
func (s *connectionServiceImpl) ListOutgoingRequests(ctx context.Context, userID int64) ([]repositories.ConnectionPeer, error) {
	return s.connectionRepo.ListOutgoing(ctx, userID)
}
