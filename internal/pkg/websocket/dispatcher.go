package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusbuzz/backend/internal/app/models/dto"
	"github.com/campusbuzz/backend/internal/app/services"
)

// Inbound event names accepted from clients.
const (
	EventSendMessage   = "sendMessage"
	EventDeleteMessage = "deleteMessage"
)

// Outbound event names emitted to clients.
const (
	EventReceiveMessage = "receiveMessage"
	EventMessageDeleted = "messageDeleted"
	EventMessageError   = "messageError"
	EventDeleteError    = "deleteError"
)

// deleteMessagePayload is the inbound data for deleteMessage.
type deleteMessagePayload struct {
	MessageID int64 `json:"messageId" binding:"required"`
}

// messageDeletedPayload is the outbound data for messageDeleted.
type messageDeletedPayload struct {
	MessageID  int64 `json:"messageId"`
	SenderID   int64 `json:"senderId"`
	ReceiverID int64 `json:"receiverId"`
}

// errorPayload is the outbound data for messageError and deleteError.
type errorPayload struct {
	Message string `json:"message"`
}

// Dispatcher routes inbound websocket events to the messaging service
// and emits the results back through the hub.
type Dispatcher struct {
	hub            *Hub
	messageService services.MessageService
	logger         zerolog.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(hub *Hub, messageService services.MessageService, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		hub:            hub,
		messageService: messageService,
		logger:         logger,
	}
}

// Dispatch handles one raw inbound frame from a client. Malformed
// frames and failed operations are answered with an error event on the
// sender's own connection instead of closing it.
func (d *Dispatcher) Dispatch(client *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		d.logger.Debug().Err(err).Int64("userID", client.userID).Msg("Discarding malformed websocket frame")
		d.hub.SendToUsers(EventMessageError, errorPayload{Message: "malformed event"}, client.userID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch env.Event {
	case EventSendMessage:
		d.handleSendMessage(ctx, client, env.Data)
	case EventDeleteMessage:
		d.handleDeleteMessage(ctx, client, env.Data)
	default:
		d.logger.Debug().Str("event", env.Event).Int64("userID", client.userID).Msg("Unknown websocket event")
		d.hub.SendToUsers(EventMessageError, errorPayload{Message: "unknown event: " + env.Event}, client.userID)
	}
}

func (d *Dispatcher) handleSendMessage(ctx context.Context, client *Client, data json.RawMessage) {
	var req dto.SendMessageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		d.hub.SendToUsers(EventMessageError, errorPayload{Message: "invalid sendMessage payload"}, client.userID)
		return
	}

	message, err := d.messageService.SendMessage(ctx, client.userID, &req)
	if err != nil {
		d.logger.Debug().Err(err).Int64("userID", client.userID).Msg("sendMessage rejected")
		d.hub.SendToUsers(EventMessageError, errorPayload{Message: err.Error()}, client.userID)
		return
	}

	// Both participants receive the delivered message; the sender's
	// other connections stay in sync this way too.
	d.hub.SendToUsers(EventReceiveMessage, dto.ToMessageResponse(message), message.SenderID, message.ReceiverID)
}

func (d *Dispatcher) handleDeleteMessage(ctx context.Context, client *Client, data json.RawMessage) {
	var req deleteMessagePayload
	if err := json.Unmarshal(data, &req); err != nil {
		d.hub.SendToUsers(EventDeleteError, errorPayload{Message: "invalid deleteMessage payload"}, client.userID)
		return
	}

	message, err := d.messageService.DeleteMessage(ctx, client.userID, req.MessageID)
	if err != nil {
		d.logger.Debug().Err(err).Int64("userID", client.userID).Int64("messageID", req.MessageID).Msg("deleteMessage rejected")
		d.hub.SendToUsers(EventDeleteError, errorPayload{Message: err.Error()}, client.userID)
		return
	}

	d.hub.SendToUsers(EventMessageDeleted, messageDeletedPayload{
		MessageID:  message.ID,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
	}, message.SenderID, message.ReceiverID)
}
