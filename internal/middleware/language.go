package middleware

import (
	"net/http"

	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/money"
)

// WithLanguage negotiates the display language. An explicit ?lang= wins over
// Accept-Language; anything else falls back to English.
func WithLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := money.ParseLanguage(r.Header.Get("Accept-Language"), domain.LanguageEnglish)
		if q := r.URL.Query().Get("lang"); q != "" {
			lang = money.ParseLanguage(q, lang)
		}

		w.Header().Set("Content-Language", string(lang))
		w.Header().Add("Vary", "Accept-Language")

		ctx := domain.NewContextWithLanguage(r.Context(), lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
