package dto

import (
	"time"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"fullName" validate:"required,notblank"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is a profile joined with its account.
type UserResponse struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	IsAdmin      bool      `json:"isAdmin"`
	AvatarURL    *string   `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	LastSignInAt time.Time `json:"lastSignInAt"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// NewUserResponse maps a joined profile.
func NewUserResponse(user domain.UserProfile) UserResponse {
	return UserResponse{
		ID:           user.ID,
		FullName:     user.FullName,
		Email:        user.Email,
		IsAdmin:      user.IsAdmin,
		AvatarURL:    user.AvatarURL,
		CreatedAt:    user.CreatedAt,
		LastSignInAt: user.LastSignInAt,
	}
}

// NewUserResponses maps a list of joined profiles.
func NewUserResponses(users []domain.UserProfile) []UserResponse {
	items := make([]UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, NewUserResponse(user))
	}
	return items
}
