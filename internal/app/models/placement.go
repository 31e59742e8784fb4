package models

import "time"

// Placement is an entry in the placement achievement gallery.
type Placement struct {
	ID          int64     `json:"id" db:"id"`
	StudentName string    `json:"studentName" db:"student_name"`
	Company     string    `json:"company" db:"company"`
	Role        string    `json:"role" db:"role"`
	Package     string    `json:"package" db:"package"`
	BatchYear   int       `json:"batchYear" db:"batch_year"`
	PhotoURL    *string   `json:"photoUrl,omitempty" db:"photo_url"`
	StorageKey  *string   `json:"-" db:"storage_key"`
	CreatedBy   int64     `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
