package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dukerupert/law7a/internal/cookie"
	"github.com/dukerupert/law7a/internal/domain"
)

// WithVisitor assigns every browser a visitor ID kept in a long-lived cookie.
// Cart and checkout state are keyed by it, so an unparseable value is replaced.
func WithVisitor(cookies *cookie.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cookie.Get(r, cookie.VisitorCookieName)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
				cookies.Set(w, cookie.VisitorCookieName, id, cookie.VisitorMaxAge)
			}

			ctx := domain.NewContextWithVisitor(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
