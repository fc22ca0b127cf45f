package domain

import "time"

// Role is derived from the account, never stored separately.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleArtist Role = "artist"
)

// User is the signed-in account as seen by the storefront.
type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	IsArtist       bool   `json:"isArtist"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Role returns RoleArtist for artist accounts and RoleBuyer otherwise.
func (u *User) Role() Role {
	if u != nil && u.IsArtist {
		return RoleArtist
	}
	return RoleBuyer
}

// Profile carries the registration fields beyond email and password.
type Profile struct {
	Name     string `json:"name" validate:"required"`
	IsArtist bool   `json:"isArtist"`
}

// Session is an authenticated identity session.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Identity errors.
var (
	ErrInvalidCredentials = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
	ErrEmailTaken         = &Error{Code: ECONFLICT, Message: "This email address is already in use"}
	ErrSessionExpired     = &Error{Code: EUNAUTHORIZED, Message: "Session expired"}
	ErrNotAuthenticated   = &Error{Code: EUNAUTHORIZED, Message: "Sign in required"}
	ErrArtistOnly         = &Error{Code: EFORBIDDEN, Message: "Only artist accounts can do this"}
)
