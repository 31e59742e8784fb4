package dto

import "time"

// UserResponse is the public view of a user record.
type UserResponse struct {
	ID          int64      `json:"id" example:"1"`
	Email       string     `json:"email" example:"user@campus.edu"`
	Username    string     `json:"username" example:"jdoe42"`
	FirstName   string     `json:"firstName" example:"John"`
	LastName    string     `json:"lastName" example:"Doe"`
	Bio         *string    `json:"bio,omitempty"`
	AvatarURL   *string    `json:"avatarUrl,omitempty"`
	Role        string     `json:"role" example:"STUDENT"`
	IsActive    bool       `json:"isActive" example:"true"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`

	FollowerCount  int `json:"followerCount"`
	FollowingCount int `json:"followingCount"`
}

// UpdateProfileRequest is the payload for profile updates.
type UpdateProfileRequest struct {
	FirstName string  `json:"firstName" binding:"required,min=2,max=100"`
	LastName  string  `json:"lastName" binding:"required,min=2,max=100"`
	Bio       *string `json:"bio,omitempty" binding:"omitempty,max=500"`
}

// ChangeRoleRequest is the admin payload for changing a user's role.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=STUDENT TEACHER ADMIN CLUB_HEAD"`
}
