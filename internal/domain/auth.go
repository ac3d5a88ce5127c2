package domain

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}
