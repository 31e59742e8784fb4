package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusbuzz/backend/internal/pkg/apperrors"
)

func TestOrderPair(t *testing.T) {
	a, b := OrderPair(5, 9)
	assert.Equal(t, int64(5), a)
	assert.Equal(t, int64(9), b)

	a, b = OrderPair(9, 5)
	assert.Equal(t, int64(5), a)
	assert.Equal(t, int64(9), b)
}

func TestStateFor(t *testing.T) {
	now := time.Now()

	t.Run("nil edge means not connected", func(t *testing.T) {
		var edge *ConnectionEdge
		assert.Equal(t, StateNotConnected, edge.StateFor(1))
	})

	t.Run("connected edge is connected for both viewers", func(t *testing.T) {
		edge := &ConnectionEdge{
			UserAID: 1, UserBID: 2,
			Status:      ConnectionConnected,
			RequestedBy: 1,
			ConnectedAt: &now,
		}
		assert.Equal(t, StateConnected, edge.StateFor(1))
		assert.Equal(t, StateConnected, edge.StateFor(2))
	})

	t.Run("pending edge depends on the viewer", func(t *testing.T) {
		edge := &ConnectionEdge{
			UserAID: 1, UserBID: 2,
			Status:      ConnectionPending,
			RequestedBy: 2,
		}
		assert.Equal(t, StateRequestReceived, edge.StateFor(1))
		assert.Equal(t, StatePending, edge.StateFor(2))
	})
}

func TestCounterpartOf(t *testing.T) {
	edge := &ConnectionEdge{UserAID: 3, UserBID: 7}
	assert.Equal(t, int64(7), edge.CounterpartOf(3))
	assert.Equal(t, int64(3), edge.CounterpartOf(7))
	assert.True(t, edge.Involves(3))
	assert.True(t, edge.Involves(7))
	assert.False(t, edge.Involves(4))
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name   string
		state  ConnectionState
		action ConnectionAction
		effect TransitionEffect
		err    error
	}{
		{"send when not connected creates a request", StateNotConnected, ActionSend, EffectCreatePending, nil},
		{"send again is rejected", StatePending, ActionSend, 0, apperrors.ErrRequestAlreadySent},
		{"send to an already connected user is rejected", StateConnected, ActionSend, 0, apperrors.ErrAlreadyConnected},
		{"mutual send merges into a connection", StateRequestReceived, ActionSend, EffectConnect, nil},

		{"accept a received request", StateRequestReceived, ActionAccept, EffectConnect, nil},
		{"accept without a request is rejected", StateNotConnected, ActionAccept, 0, apperrors.ErrRequestNotFound},
		{"accept own pending request is rejected", StatePending, ActionAccept, 0, apperrors.ErrRequestNotFound},

		{"decline a received request", StateRequestReceived, ActionDecline, EffectDelete, nil},
		{"decline without a request is rejected", StateNotConnected, ActionDecline, 0, apperrors.ErrRequestNotFound},

		{"cancel own pending request", StatePending, ActionCancel, EffectDelete, nil},
		{"cancel a received request is rejected", StateRequestReceived, ActionCancel, 0, apperrors.ErrRequestNotFound},
		{"cancel without a request is rejected", StateNotConnected, ActionCancel, 0, apperrors.ErrRequestNotFound},

		{"disconnect an accepted connection", StateConnected, ActionDisconnect, EffectDelete, nil},
		{"disconnect without a connection is rejected", StateNotConnected, ActionDisconnect, 0, apperrors.ErrConnectionNotFound},
		{"disconnect a pending request is rejected", StatePending, ActionDisconnect, 0, apperrors.ErrConnectionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effect, err := Transition(tt.state, tt.action)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.effect, effect)
		})
	}
}
