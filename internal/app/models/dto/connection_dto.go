package dto

import (
	"time"

	"github.com/campusbuzz/backend/internal/app/models"
)

// ConnectionStatusResponse is the viewer-relative relationship state
// for one counterpart.
type ConnectionStatusResponse struct {
	UserID int64                  `json:"userId" example:"7"`
	State  models.ConnectionState `json:"state" example:"PENDING"`
}

// BatchStatusRequest asks for the relationship state of several
// counterparts at once.
type BatchStatusRequest struct {
	UserIDs []int64 `json:"userIds" binding:"required,min=1,max=100"`
}

// ConnectionResponse is one accepted connection of the requester.
type ConnectionResponse struct {
	User        models.UserSummary `json:"user"`
	ConnectedAt time.Time          `json:"connectedAt"`
}

// ConnectionRequestResponse is one pending request, incoming or
// outgoing depending on the listing.
type ConnectionRequestResponse struct {
	User        models.UserSummary `json:"user"`
	RequestedAt time.Time          `json:"requestedAt"`
}
