package models

import "time"

// Event is a scheduled campus event.
type Event struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Venue       string     `json:"venue" db:"venue"`
	StartsAt    time.Time  `json:"startsAt" db:"starts_at"`
	EndsAt      *time.Time `json:"endsAt,omitempty" db:"ends_at"`
	ImageURL    *string    `json:"imageUrl,omitempty" db:"image_url"`
	StorageKey  *string    `json:"-" db:"storage_key"`
	CreatedBy   int64      `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// Activity is an ongoing club or campus activity.
type Activity struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	ImageURL    *string   `json:"imageUrl,omitempty" db:"image_url"`
	StorageKey  *string   `json:"-" db:"storage_key"`
	CreatedBy   int64     `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Notice is an official campus notice.
type Notice struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Important bool      `json:"important" db:"important"`
	CreatedBy int64     `json:"createdBy" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
