package models

import (
	"time"

	"github.com/campusbuzz/backend/internal/pkg/apperrors"
)

// ConnectionStatus is the persisted status of a connection edge.
type ConnectionStatus string

const (
	ConnectionPending   ConnectionStatus = "PENDING"
	ConnectionConnected ConnectionStatus = "CONNECTED"
)

// ConnectionState is the viewer-relative state of the relationship
// between two users.
type ConnectionState string

const (
	StateNotConnected    ConnectionState = "NOT_CONNECTED"
	StatePending         ConnectionState = "PENDING"
	StateRequestReceived ConnectionState = "REQUEST_RECEIVED"
	StateConnected       ConnectionState = "CONNECTED"
)

// ConnectionAction is an operation on the connection state machine.
type ConnectionAction string

const (
	ActionSend       ConnectionAction = "SEND"
	ActionAccept     ConnectionAction = "ACCEPT"
	ActionDecline    ConnectionAction = "DECLINE"
	ActionCancel     ConnectionAction = "CANCEL"
	ActionDisconnect ConnectionAction = "DISCONNECT"
)

// ConnectionEdge is the single first-class relationship record between
// two users. The pair is stored ordered (UserAID < UserBID) with a
// unique index, so there is exactly one row per pair and every mutation
// is a single atomic row operation. Request direction is carried by
// RequestedBy instead of being duplicated on both user records.
type ConnectionEdge struct {
	ID          int64            `json:"id" db:"id"`
	UserAID     int64            `json:"userAId" db:"user_a_id"`
	UserBID     int64            `json:"userBId" db:"user_b_id"`
	Status      ConnectionStatus `json:"status" db:"status"`
	RequestedBy int64            `json:"requestedBy" db:"requested_by"`
	RequestedAt time.Time        `json:"requestedAt" db:"requested_at"`
	ConnectedAt *time.Time       `json:"connectedAt,omitempty" db:"connected_at"`
}

// OrderPair returns the two ids in storage order (low, high).
func OrderPair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// Involves reports whether the given user is one of the edge endpoints.
func (e *ConnectionEdge) Involves(userID int64) bool {
	return e.UserAID == userID || e.UserBID == userID
}

// CounterpartOf returns the other endpoint of the edge.
func (e *ConnectionEdge) CounterpartOf(userID int64) int64 {
	if e.UserAID == userID {
		return e.UserBID
	}
	return e.UserAID
}

// StateFor derives the viewer-relative state from the edge. A nil edge
// means the pair has no relationship.
func (e *ConnectionEdge) StateFor(viewerID int64) ConnectionState {
	if e == nil {
		return StateNotConnected
	}
	if e.Status == ConnectionConnected {
		return StateConnected
	}
	if e.RequestedBy == viewerID {
		return StatePending
	}
	return StateRequestReceived
}

// TransitionEffect is the storage operation a valid transition maps to.
type TransitionEffect int

const (
	EffectCreatePending TransitionEffect = iota + 1 // insert PENDING edge requested by the actor
	EffectConnect                                   // flip the edge to CONNECTED, stamp connected_at
	EffectDelete                                    // remove the edge
)

// transitions is the actor-relative state × action table. Anything not
// listed here is an illegal transition.
var transitions = map[ConnectionState]map[ConnectionAction]TransitionEffect{
	StateNotConnected: {
		ActionSend: EffectCreatePending,
	},
	StatePending: {
		ActionCancel: EffectDelete,
	},
	StateRequestReceived: {
		ActionAccept:  EffectConnect,
		ActionDecline: EffectDelete,
		// Mutual simultaneous requests auto-merge: sending while the
		// counterpart's request is outstanding accepts it.
		ActionSend: EffectConnect,
	},
	StateConnected: {
		ActionDisconnect: EffectDelete,
	},
}

// Transition resolves an action against the actor-relative state and
// returns the storage effect, or the typed rejection error.
func Transition(state ConnectionState, action ConnectionAction) (TransitionEffect, error) {
	if effects, ok := transitions[state]; ok {
		if effect, ok := effects[action]; ok {
			return effect, nil
		}
	}
	return 0, rejectionError(state, action)
}

// rejectionError maps an illegal (state, action) pair to the error the
// API surfaces for it.
func rejectionError(state ConnectionState, action ConnectionAction) error {
	switch action {
	case ActionSend:
		switch state {
		case StateConnected:
			return apperrors.ErrAlreadyConnected
		case StatePending:
			return apperrors.ErrRequestAlreadySent
		}
	case ActionAccept, ActionDecline:
		return apperrors.ErrRequestNotFound
	case ActionCancel:
		return apperrors.ErrRequestNotFound
	case ActionDisconnect:
		return apperrors.ErrConnectionNotFound
	}
	return apperrors.ErrInvalidTransition
}
