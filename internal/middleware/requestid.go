package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/dukerupert/law7a/internal/domain"
)

// RequestIDHeader carries the request ID in and out.
const RequestIDHeader = "X-Request-ID"

// validRequestID accepts IDs from upstream proxies that are safe to echo and
// log.
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// RequestID reuses a well-formed incoming X-Request-ID or mints a uuid, then
// echoes it on the response and stores it in the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if !validRequestID.MatchString(requestID) {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(domain.NewContextWithRequestID(r.Context(), requestID)))
	})
}
