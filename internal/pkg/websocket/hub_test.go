package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addClient inserts a connectionless client straight into the hub's
// registry so delivery can be tested without a real websocket.
func addClient(h *Hub, userID int64, buffer int) *Client {
	c := &Client{userID: userID, send: make(chan []byte, buffer)}
	h.mu.Lock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[*Client]bool)
	}
	h.clients[userID][c] = true
	h.mu.Unlock()
	return c
}

func receiveEnvelope(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case raw := <-c.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
		return Envelope{}
	}
}

func TestSendToUsersDeliversToEveryConnection(t *testing.T) {
	h := NewHub(zerolog.Nop())
	go h.Run()

	alice1 := addClient(h, 1, 4)
	alice2 := addClient(h, 1, 4)
	bob := addClient(h, 2, 4)

	h.SendToUsers("receiveMessage", map[string]int64{"messageId": 7}, 1, 2)

	for _, c := range []*Client{alice1, alice2, bob} {
		env := receiveEnvelope(t, c)
		assert.Equal(t, "receiveMessage", env.Event)

		var data map[string]int64
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, int64(7), data["messageId"])
	}
}

func TestSendToUsersSkipsOfflineUsers(t *testing.T) {
	h := NewHub(zerolog.Nop())
	go h.Run()

	bob := addClient(h, 2, 4)

	// User 1 has no connections; the event still reaches user 2.
	h.SendToUsers("messageDeleted", map[string]int64{"messageId": 3}, 1, 2)

	env := receiveEnvelope(t, bob)
	assert.Equal(t, "messageDeleted", env.Event)
}

func TestUnregisterRemovesConnection(t *testing.T) {
	h := NewHub(zerolog.Nop())

	alice1 := addClient(h, 1, 1)
	alice2 := addClient(h, 1, 1)

	assert.True(t, h.IsOnline(1))
	assert.Equal(t, 2, h.ConnectionCount(1))

	h.unregisterClient(alice1)
	assert.True(t, h.IsOnline(1))
	assert.Equal(t, 1, h.ConnectionCount(1))

	h.unregisterClient(alice2)
	assert.False(t, h.IsOnline(1))

	_, open := <-alice2.send
	assert.False(t, open, "send channel should be closed on unregister")
}

func TestSlowConnectionIsDropped(t *testing.T) {
	h := NewHub(zerolog.Nop())
	go h.Run()

	// Unbuffered send channel with no reader simulates a stalled peer.
	addClient(h, 1, 0)

	h.SendToUsers("receiveMessage", map[string]int64{"messageId": 1}, 1)

	assert.Eventually(t, func() bool {
		return !h.IsOnline(1)
	}, time.Second, 10*time.Millisecond)
}
