package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Hub maintains the set of active clients. Clients are grouped per
// user, so one user may hold several connections (multiple tabs or
// devices) and all of them receive that user's events.
type Hub struct {
	// Registered clients organized by user ID
	clients map[int64]map[*Client]bool

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Outbound deliveries to specific users
	deliver chan *delivery

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Optional hooks invoked on connect/disconnect, used for metrics
	OnConnect    func()
	OnDisconnect func()

	// Logger for Hub operations
	logger zerolog.Logger
}

// delivery is a serialized event addressed to a set of users.
type delivery struct {
	userIDs []int64
	payload []byte
}

// Envelope is the wire frame of every websocket event, in both
// directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan *delivery, 64),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and deliveries.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case d := <-h.deliver:
			h.deliverToUsers(d)
		}
	}
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	if h.OnConnect != nil {
		h.OnConnect()
	}

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[client.userID]; ok {
		if _, ok := conns[client]; ok {
			delete(conns, client)
			close(client.send)

			if len(conns) == 0 {
				delete(h.clients, client.userID)
			}

			if h.OnDisconnect != nil {
				h.OnDisconnect()
			}

			h.logger.Info().
				Int64("userID", client.userID).
				Msg("Client unregistered")
		}
	}
}

// deliverToUsers writes a payload to every connection of the addressed
// users. Slow connections are dropped rather than blocking the hub.
func (h *Hub) deliverToUsers(d *delivery) {
	h.mu.RLock()
	var stale []*Client
	for _, userID := range d.userIDs {
		for client := range h.clients[userID] {
			select {
			case client.send <- d.payload:
			default:
				stale = append(stale, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.unregisterClient(client)
	}
}

// SendToUsers delivers an event to every connection of the given users.
func (h *Hub) SendToUsers(event string, data interface{}, userIDs ...int64) {
	raw, err := json.Marshal(data)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal event data")
		return
	}
	payload, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal event envelope")
		return
	}

	h.deliver <- &delivery{userIDs: userIDs, payload: payload}
}

// IsOnline reports whether the user has at least one open connection.
func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// ConnectionCount returns the number of open connections for a user.
func (h *Hub) ConnectionCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
