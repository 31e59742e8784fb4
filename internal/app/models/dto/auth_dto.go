package dto

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"user@campus.edu"`
	Username  string `json:"username" binding:"required,min=3,max=30,alphanum" example:"jdoe42"`
	Password  string `json:"password" binding:"required,min=8" example:"s3cretpass"`
	FirstName string `json:"firstName" binding:"required,min=2,max=100" example:"John"`
	LastName  string `json:"lastName" binding:"required,min=2,max=100" example:"Doe"`
	Role      string `json:"role,omitempty" binding:"omitempty,oneof=STUDENT TEACHER CLUB_HEAD" example:"STUDENT"`
}

// LoginRequest is the payload for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@campus.edu"`
	Password string `json:"password" binding:"required" example:"s3cretpass"`
}

// RefreshTokenRequest carries a refresh token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse is returned from login/refresh.
type TokenResponse struct {
	AccessToken      string       `json:"accessToken"`
	RefreshToken     string       `json:"refreshToken"`
	ExpiresIn        int          `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int          `json:"refreshExpiresIn" example:"2592000"`
	User             UserResponse `json:"user"`
}

// ChangePasswordRequest is the payload for changing the password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}
