package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusbuzz/backend/internal/app/models/dto"
	"github.com/campusbuzz/backend/internal/app/services"
	"github.com/campusbuzz/backend/internal/middleware"
	"github.com/campusbuzz/backend/internal/pkg/websocket"
)

// MessageController handles direct messaging over the REST surface.
// The same operations are available over the websocket channel; REST
// sends still fan out realtime events through the hub.
type MessageController struct {
	messageService services.MessageService
	hub            *websocket.Hub
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService services.MessageService, hub *websocket.Hub) *MessageController {
	return &MessageController{
		messageService: messageService,
		hub:            hub,
	}
}

// SendMessage sends a direct message
// @Summary Send a direct message
// @Description Sends a message to a connected user. The message must carry content, images or a shared post; its type is derived from the payload.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendMessageRequest true "Message payload"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse} "Message delivered"
// @Failure 400 {object} dto.ErrorResponse "Empty message"
// @Failure 403 {object} dto.ErrorResponse "Users are not connected"
// @Failure 404 {object} dto.ErrorResponse "Receiver not found"
// @Router /messages [post]
func (c *MessageController) SendMessage(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	message, err := c.messageService.SendMessage(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.ToMessageResponse(message)
	c.hub.SendToUsers(websocket.EventReceiveMessage, response, message.SenderID, message.ReceiverID)

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// GetConversations lists the caller's conversations
// @Summary List conversations
// @Description Returns one thread per counterpart with the latest message, unread count and full history, most recently active first.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ConversationResponse} "Conversations"
// @Router /messages/conversations [get]
func (c *MessageController) GetConversations(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	conversations, err := c.messageService.GetConversations(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(conversations))
}

// GetConversation returns the thread with one counterpart
// @Summary Get a conversation thread
// @Description Returns the two-way thread in chronological order. Opening the thread marks the counterpart's messages as read.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Counterpart user ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.MessageResponse} "Thread messages"
// @Router /messages/conversations/{id} [get]
func (c *MessageController) GetConversation(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	counterpartID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	messages, err := c.messageService.GetConversation(ctx, userID, counterpartID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		responses = append(responses, dto.ToMessageResponse(m))
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(responses))
}

// DeleteMessage deletes a sent message
// @Summary Delete a message
// @Description Deletes a message the caller sent. Both participants are notified over the realtime channel.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} dto.APIResponse "Message deleted"
// @Failure 403 {object} dto.ErrorResponse "Only a participant may delete"
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Router /messages/{id} [delete]
func (c *MessageController) DeleteMessage(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	messageID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	message, err := c.messageService.DeleteMessage(ctx, userID, messageID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.hub.SendToUsers(websocket.EventMessageDeleted, gin.H{
		"messageId":  message.ID,
		"senderId":   message.SenderID,
		"receiverId": message.ReceiverID,
	}, message.SenderID, message.ReceiverID)

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Message deleted"))
}
