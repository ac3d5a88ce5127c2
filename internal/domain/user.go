package domain

import "time"

// Account holds sign-in credentials and metadata.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastSignInAt *time.Time
}

// Profile is the user-facing record sharing its id with an Account.
type Profile struct {
	ID        string
	FullName  string
	IsAdmin   bool
	AvatarURL *string
	CreatedAt time.Time
}

// UserProfile is a Profile joined with its Account metadata.
type UserProfile struct {
	ID           string
	FullName     string
	IsAdmin      bool
	AvatarURL    *string
	Email        string
	CreatedAt    time.Time
	LastSignInAt time.Time
}

// RoleFilter selects profiles by admin capability.
type RoleFilter string

const (
	RoleFilterAll   RoleFilter = "all"
	RoleFilterAdmin RoleFilter = "admin"
	RoleFilterUser  RoleFilter = "user"
)

// Valid reports whether r is a known role filter.
func (r RoleFilter) Valid() bool {
	switch r {
	case RoleFilterAll, RoleFilterAdmin, RoleFilterUser:
		return true
	}
	return false
}

// Matches reports whether a profile with the given flag passes the filter.
func (r RoleFilter) Matches(isAdmin bool) bool {
	switch r {
	case RoleFilterAdmin:
		return isAdmin
	case RoleFilterUser:
		return !isAdmin
	default:
		return true
	}
}

// JoinUserProfile merges a profile with its account. A missing account yields
// an empty email and timestamps falling back to the profile's creation time.
func JoinUserProfile(profile Profile, account *Account) UserProfile {
	user := UserProfile{
		ID:           profile.ID,
		FullName:     profile.FullName,
		IsAdmin:      profile.IsAdmin,
		AvatarURL:    profile.AvatarURL,
		CreatedAt:    profile.CreatedAt,
		LastSignInAt: profile.CreatedAt,
	}
	if account == nil {
		return user
	}
	user.Email = account.Email
	user.CreatedAt = account.CreatedAt
	if account.LastSignInAt != nil {
		user.LastSignInAt = *account.LastSignInAt
	} else {
		user.LastSignInAt = account.CreatedAt
	}
	return user
}
