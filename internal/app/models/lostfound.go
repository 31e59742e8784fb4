package models

import "time"

// LostFoundKind distinguishes lost reports from found reports.
type LostFoundKind string

const (
	KindLost  LostFoundKind = "LOST"
	KindFound LostFoundKind = "FOUND"
)

// LostFoundItem is an entry on the lost-and-found board.
type LostFoundItem struct {
	ID          int64         `json:"id" db:"id"`
	Kind        LostFoundKind `json:"kind" db:"kind"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`
	Location    string        `json:"location" db:"location"`
	ImageURL    *string       `json:"imageUrl,omitempty" db:"image_url"`
	StorageKey  *string       `json:"-" db:"storage_key"`
	Resolved    bool          `json:"resolved" db:"resolved"`
	ReporterID  int64         `json:"reporterId" db:"reporter_id"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	Reporter    *UserSummary  `json:"reporter,omitempty"`
}
