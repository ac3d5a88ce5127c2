package dto

// SetAdminRequest toggles administrator capability.
type SetAdminRequest struct {
	IsAdmin *bool `json:"isAdmin" validate:"required"`
}

// UserListQuery captures admin user listing filters.
type UserListQuery struct {
	Role   string `query:"role" validate:"omitempty,oneof=all admin user"`
	Search string `query:"search"`
}
