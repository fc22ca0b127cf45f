// Package identity registers accounts, signs visitors in and out, and tells
// interested parts of the storefront when the signed-in user changes.
package identity

import (
	"context"

	"github.com/dukerupert/law7a/internal/domain"
)

// Provider is an identity backend.
type Provider interface {
	// Register creates an account and returns its ID.
	Register(ctx context.Context, email, password string, profile domain.Profile) (string, error)

	// Login checks credentials and opens a session.
	Login(ctx context.Context, email, password string) (domain.Session, error)

	// Logout closes a session. Closing an unknown session is not an error.
	Logout(ctx context.Context, token string) error

	// Lookup resolves a session token to its user.
	Lookup(ctx context.Context, token string) (domain.User, error)
}
