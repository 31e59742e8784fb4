package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Email       string     `json:"email" db:"email" example:"user@campus.edu"`
	Username    string     `json:"username" db:"username" example:"jdoe42"`
	Password    string     `json:"-" db:"password"` // hashed, excluded from JSON
	FirstName   string     `json:"firstName" db:"first_name" example:"John"`
	LastName    string     `json:"lastName" db:"last_name" example:"Doe"`
	Bio         *string    `json:"bio,omitempty" db:"bio"`
	AvatarURL   *string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	RoleType    RoleType   `json:"roleType" db:"role_type" example:"STUDENT"`
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserSummary is the embedded participant view resolved into messages,
// posts and connection listings.
type UserSummary struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	AvatarURL *string  `json:"avatarUrl,omitempty"`
	RoleType  RoleType `json:"roleType"`
}

// Summary converts a full user record to its summary view.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
		RoleType:  u.RoleType,
	}
}

// Follow is a one-directional follow edge between two users.
type Follow struct {
	FollowerID int64     `json:"followerId" db:"follower_id"`
	FolloweeID int64     `json:"followeeId" db:"followee_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
