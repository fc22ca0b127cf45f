package middleware

import (
	"context"
	"net/http"

	"github.com/dukerupert/law7a/internal/cookie"
	"github.com/dukerupert/law7a/internal/domain"
)

// SessionResolver turns a session token into the signed-in user.
// A nil user with a nil error means the token is anonymous.
type SessionResolver interface {
	Current(ctx context.Context, token string) (*domain.User, error)
}

// WithUser extracts the user from the session cookie and adds it to the request context.
// This middleware is optional - it adds the user if present but doesn't require authentication.
// A stale cookie is cleared so the browser stops sending it.
func WithUser(sessions SessionResolver, cookies *cookie.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookie.Get(r, cookie.SessionCookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := sessions.Current(r.Context(), token)
			if err != nil {
				GetLogger(r.Context()).Warn("session lookup failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				cookies.Clear(w, cookie.SessionCookieName)
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the user is authenticated, returning 401 if not.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAuthenticated(r.Context()) {
			respondUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireArtist ensures the user is signed in with an artist account.
func RequireArtist(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAuthenticated(r.Context()) {
			respondUnauthorized(w, r)
			return
		}
		if !domain.IsArtist(r.Context()) {
			respondForbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
