// Package domain provides core business types and context helpers for Law7a.
//
// Context helpers centralize request-scoped data access so handlers and
// services read the visitor, user and locale the same way.
package domain

import (
	"context"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// userContextKey stores the signed-in user.
	userContextKey contextKey = iota

	// visitorContextKey stores the anonymous visitor session ID.
	visitorContextKey

	// languageContextKey stores the negotiated display language.
	languageContextKey

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// --- User Context Helpers ---

// NewContextWithUser returns a new context with the user attached.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the user from context.
// Returns nil if no user is present.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}

// UserIDFromContext retrieves the user ID from context.
// Returns "" if no user is present.
func UserIDFromContext(ctx context.Context) string {
	if user := UserFromContext(ctx); user != nil {
		return user.ID
	}
	return ""
}

// --- Visitor Context Helpers ---

// NewContextWithVisitor returns a new context with the visitor session ID attached.
func NewContextWithVisitor(ctx context.Context, visitorID string) context.Context {
	return context.WithValue(ctx, visitorContextKey, visitorID)
}

// VisitorFromContext retrieves the visitor session ID from context.
func VisitorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(visitorContextKey).(string)
	return id
}

// --- Language Context Helpers ---

// NewContextWithLanguage returns a new context with the display language attached.
func NewContextWithLanguage(ctx context.Context, lang Language) context.Context {
	return context.WithValue(ctx, languageContextKey, lang)
}

// LanguageFromContext returns the display language, defaulting to English.
func LanguageFromContext(ctx context.Context) Language {
	if lang, ok := ctx.Value(languageContextKey).(Language); ok && lang != "" {
		return lang
	}
	return LanguageEnglish
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}

// --- Convenience Helpers ---

// IsAuthenticated returns true if there is a user in context.
func IsAuthenticated(ctx context.Context) bool {
	return UserFromContext(ctx) != nil
}

// IsArtist returns true if the user in context is an artist.
func IsArtist(ctx context.Context) bool {
	return UserFromContext(ctx).Role() == RoleArtist
}

// OwnerFromContext returns the key that owns carts and order history for the
// request: the signed-in user when present, otherwise the visitor session.
func OwnerFromContext(ctx context.Context) string {
	if id := UserIDFromContext(ctx); id != "" {
		return "user-" + id
	}
	if id := VisitorFromContext(ctx); id != "" {
		return "visitor-" + id
	}
	return ""
}
