package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/app/models/dto"
	"github.com/campusbuzz/backend/internal/app/repositories"
	"github.com/campusbuzz/backend/internal/app/services"
	"github.com/campusbuzz/backend/internal/middleware"
)

// ConnectionController handles connection state machine operations
type ConnectionController struct {
	connectionService services.ConnectionService
}

// NewConnectionController creates a new ConnectionController
func NewConnectionController(connectionService services.ConnectionService) *ConnectionController {
	return &ConnectionController{
		connectionService: connectionService,
	}
}

func stateResponse(targetID int64, state models.ConnectionState) dto.APIResponse {
	return dto.NewSuccessResponse(dto.ConnectionStatusResponse{
		UserID: targetID,
		State:  state,
	})
}

// SendRequest sends a connection request
// @Summary Send a connection request
// @Description Sends a connection request. If the target already has an outstanding request towards the caller, both requests merge into an accepted connection.
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Target user ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConnectionStatusResponse} "Resulting state"
// @Failure 400 {object} dto.ErrorResponse "Cannot connect with yourself"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Already connected or request already sent"
// @Router /connections/{id}/request [post]
func (c *ConnectionController) SendRequest(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	state, err := c.connectionService.SendRequest(ctx, userID, targetID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stateResponse(targetID, state))
}

// AcceptRequest accepts a pending connection request
// @Summary Accept a connection request
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Requester user ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConnectionStatusResponse} "Resulting state"
// @Failure 404 {object} dto.ErrorResponse "Connection request not found"
// @Router /connections/{id}/accept [post]
func (c *ConnectionController) AcceptRequest(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	requesterID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	state, err := c.connectionService.AcceptRequest(ctx, userID, requesterID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stateResponse(requesterID, state))
}

// DeclineRequest declines a pending connection request
// @Summary Decline a connection request
// @Description Declines a pending request. The request is removed entirely, so the requester may send again later.
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Requester user ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConnectionStatusResponse} "Resulting state"
// @Failure 404 {object} dto.ErrorResponse "Connection request not found"
// @Router /connections/{id}/decline [post]
func (c *ConnectionController) DeclineRequest(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	requesterID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	state, err := c.connectionService.DeclineRequest(ctx, userID, requesterID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stateResponse(requesterID, state))
}

// CancelRequest withdraws the caller's own outstanding request
// @Summary Cancel a sent connection request
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Target user ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConnectionStatusResponse} "Resulting state"
// @Failure 404 {object} dto.ErrorResponse "Connection request not found"
// @Router /connections/{id}/request [delete]
func (c *ConnectionController) CancelRequest(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	state, err := c.connectionService.CancelRequest(ctx, userID, targetID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stateResponse(targetID, state))
}

// Disconnect severs an accepted connection
// @Summary Disconnect from a user
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Connected user ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConnectionStatusResponse} "Resulting state"
// @Failure 404 {object} dto.ErrorResponse "Connection not found"
// @Router /connections/{id} [delete]
func (c *ConnectionController) Disconnect(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	otherID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	state, err := c.connectionService.Disconnect(ctx, userID, otherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stateResponse(otherID, state))
}

// GetStatus returns the relationship state towards one user
// @Summary Get connection state towards a user
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Other user ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConnectionStatusResponse} "Viewer-relative state"
// @Router /connections/{id}/status [get]
func (c *ConnectionController) GetStatus(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	otherID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	state, err := c.connectionService.GetState(ctx, userID, otherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stateResponse(otherID, state))
}

// GetBatchStatus returns the relationship state towards several users
// @Summary Get connection states for a batch of users
// @Tags connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BatchStatusRequest true "User IDs to resolve"
// @Success 200 {object} dto.APIResponse{data=[]dto.ConnectionStatusResponse} "Viewer-relative states"
// @Router /connections/status [post]
func (c *ConnectionController) GetBatchStatus(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.BatchStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	states, err := c.connectionService.GetStates(ctx, userID, req.UserIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.ConnectionStatusResponse, 0, len(states))
	for _, otherID := range req.UserIDs {
		if state, ok := states[otherID]; ok {
			responses = append(responses, dto.ConnectionStatusResponse{UserID: otherID, State: state})
		}
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(responses))
}

// ListConnections lists the caller's accepted connections
// @Summary List connections
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ConnectionResponse} "Accepted connections"
// @Router /connections [get]
func (c *ConnectionController) ListConnections(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	peers, err := c.connectionService.ListConnections(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.ConnectionResponse, 0, len(peers))
	for _, peer := range peers {
		resp := dto.ConnectionResponse{User: peer.User}
		if peer.Edge.ConnectedAt != nil {
			resp.ConnectedAt = *peer.Edge.ConnectedAt
		}
		responses = append(responses, resp)
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(responses))
}

// ListIncomingRequests lists pending requests received by the caller
// @Summary List incoming connection requests
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ConnectionRequestResponse} "Incoming requests"
// @Router /connections/requests/incoming [get]
func (c *ConnectionController) ListIncomingRequests(ctx *gin.Context) {
	c.listRequests(ctx, c.connectionService.ListIncomingRequests)
}

// ListOutgoingRequests lists pending requests sent by the caller
// @Summary List outgoing connection requests
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ConnectionRequestResponse} "Outgoing requests"
// @Router /connections/requests/outgoing [get]
func (c *ConnectionController) ListOutgoingRequests(ctx *gin.Context) {
	c.listRequests(ctx, c.connectionService.ListOutgoingRequests)
}

func (c *ConnectionController) listRequests(ctx *gin.Context, list func(context.Context, int64) ([]repositories.ConnectionPeer, error)) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	peers, err := list(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.ConnectionRequestResponse, 0, len(peers))
	for _, peer := range peers {
		responses = append(responses, dto.ConnectionRequestResponse{
			User:        peer.User,
			RequestedAt: peer.Edge.RequestedAt,
		})
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(responses))
}
