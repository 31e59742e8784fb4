package dto

import "time"

// CreateEventRequest is the payload for creating or updating an event.
type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required,min=3,max=200"`
	Description string     `json:"description" binding:"required,max=5000"`
	Venue       string     `json:"venue" binding:"required,max=200"`
	StartsAt    time.Time  `json:"startsAt" binding:"required"`
	EndsAt      *time.Time `json:"endsAt,omitempty"`
}

// CreateActivityRequest is the payload for creating or updating an activity.
type CreateActivityRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"required,max=5000"`
	Category    string `json:"category" binding:"required,max=100"`
}

// CreateNoticeRequest is the payload for publishing a notice.
type CreateNoticeRequest struct {
	Title     string `json:"title" binding:"required,min=3,max=200"`
	Body      string `json:"body" binding:"required,max=10000"`
	Important bool   `json:"important"`
}

// CreatePlacementRequest is the payload for adding a placement entry.
type CreatePlacementRequest struct {
	StudentName string `json:"studentName" binding:"required,min=2,max=200"`
	Company     string `json:"company" binding:"required,max=200"`
	Role        string `json:"role" binding:"required,max=200"`
	Package     string `json:"package" binding:"omitempty,max=100"`
	BatchYear   int    `json:"batchYear" binding:"required,min=1990,max=2100"`
}

// CreateLostFoundRequest is the payload for reporting a lost or found item.
type CreateLostFoundRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=LOST FOUND"`
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"required,max=5000"`
	Location    string `json:"location" binding:"omitempty,max=200"`
}
