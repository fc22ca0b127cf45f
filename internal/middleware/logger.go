package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/law7a/internal/domain"
)

type loggerKey struct{}

// WithRequestLogger stores a logger carrying the route and, when signed in,
// the user and role. Request ID and visitor come from the log handler, so this
// must run after RequestID, WithVisitor and WithUser.
func WithRequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("lang", string(domain.LanguageFromContext(r.Context()))),
			}
			if user := domain.UserFromContext(r.Context()); user != nil {
				attrs = append(attrs,
					slog.String("user_id", user.ID),
					slog.String("role", string(user.Role())),
				)
			}
			ctx := WithLogger(r.Context(), base.With(attrs...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithLogger returns ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger returns the request logger, else fallback, else slog.Default().
func GetLogger(ctx context.Context, fallback ...*slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	if len(fallback) > 0 && fallback[0] != nil {
		return fallback[0]
	}
	return slog.Default()
}
