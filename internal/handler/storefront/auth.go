package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/dukerupert/law7a/internal/cookie"
	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/handler"
	"github.com/dukerupert/law7a/internal/identity"
	"github.com/dukerupert/law7a/internal/middleware"
)

// Identity is the sign-up, sign-in and sign-out API.
type Identity interface {
	Register(ctx context.Context, form identity.SignUp) (domain.Session, error)
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles account sessions. The session token travels only in
// the session cookie.
type AuthHandler struct {
	identity Identity
	cookies  *cookie.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts Identity, cookies *cookie.Config) *AuthHandler {
	return &AuthHandler{identity: accounts, cookies: cookies}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionView is the signed-in user returned to the client.
type SessionView struct {
	User      domain.User `json:"user"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var form identity.SignUp
	if err := handler.DecodeJSON(r, &form); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	session, err := h.identity.Register(r.Context(), form)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.startSession(w, r, http.StatusCreated, session)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	session, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.startSession(w, r, http.StatusOK, session)
}

// Logout handles POST /api/auth/logout. Signing out without a session succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := cookie.Get(r, cookie.SessionCookieName); token != "" {
		if err := h.identity.Logout(r.Context(), token); err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
	}
	h.cookies.Clear(w, cookie.SessionCookieName)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		handler.UnauthorizedResponse(w, r)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"user": user,
		"role": user.Role(),
	})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, status int, session domain.Session) {
	h.cookies.SetWithExpiry(w, cookie.SessionCookieName, session.Token, session.ExpiresAt)
	middleware.GetLogger(r.Context()).Info("session started", "user_id", session.User.ID, "role", session.User.Role())
	handler.WriteJSON(w, status, SessionView{
		User:      session.User,
		Role:      session.User.Role(),
		ExpiresAt: session.ExpiresAt,
	})
}
