// Package cookie provides the storefront's cookie helpers.
// The visitor cookie identifies an anonymous browser (cart and checkout slots);
// the session cookie carries the identity session token.
package cookie

import (
	"net/http"
	"time"
)

// Config holds cookie configuration shared by all storefront cookies.
type Config struct {
	// Domain scopes cookies. Leave empty for host-only cookies.
	Domain string

	// Secure determines whether cookies require HTTPS.
	// Should be true in production, false in development.
	Secure bool
}

// NewConfig creates a new cookie configuration.
func NewConfig(domain string, secure bool) *Config {
	return &Config{
		Domain: domain,
		Secure: secure,
	}
}

// Set writes an HttpOnly, SameSite=Lax cookie valid on every path.
// maxAge is in seconds.
func (c *Config) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   c.Domain,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetWithExpiry writes a cookie that expires at a fixed time, such as the end
// of an identity session.
func (c *Config) SetWithExpiry(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   c.Domain,
		Path:     "/",
		Expires:  expires.UTC(),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes a cookie by setting MaxAge to -1.
func (c *Config) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Domain:   c.Domain,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie not found.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

const (
	// SessionCookieName carries the identity session token.
	SessionCookieName = "law7a_session"

	// VisitorCookieName identifies the anonymous browser session.
	VisitorCookieName = "law7a_visitor"

	// VisitorMaxAge keeps the visitor cookie for a year.
	VisitorMaxAge = 365 * 24 * 60 * 60
)
