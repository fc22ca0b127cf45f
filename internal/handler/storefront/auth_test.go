package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/law7a/internal/cookie"
	"github.com/dukerupert/law7a/internal/domain"
)

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookie.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAuthHandler_RegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(t, env.auth.Register, http.MethodPost, "/api/auth/register", map[string]any{
		"name":            "Rania",
		"email":           "rania@example.com",
		"password":        "secret123",
		"confirmPassword": "secret123",
		"isArtist":        true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	registered := decodeBody[SessionView](t, rec)
	assert.Equal(t, domain.RoleArtist, registered.Role)
	assert.NotContains(t, rec.Body.String(), "token")

	c := sessionCookie(rec)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.NotEmpty(t, c.Value)

	user, err := env.identity.Current(context.Background(), c.Value)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "rania@example.com", user.Email)

	rec = serve(t, env.auth.Login, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "rania@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	login := sessionCookie(rec)
	require.NotNil(t, login)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(login)
	out := httptest.NewRecorder()
	env.auth.Logout(out, req)
	assert.Equal(t, http.StatusNoContent, out.Code)
	cleared := sessionCookie(out)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)

	user, err = env.identity.Current(context.Background(), login.Value)
	require.NoError(t, err)
	assert.Nil(t, user, "logged out token is anonymous")
}

func TestAuthHandler_Errors(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(t, env.auth.Register, http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Sami", "email": "sami@example.com", "password": "secret123", "confirmPassword": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name   string
		h      http.HandlerFunc
		body   any
		status int
	}{
		{
			name:   "duplicate email",
			h:      env.auth.Register,
			body:   map[string]any{"name": "Sami", "email": "SAMI@example.com", "password": "secret123", "confirmPassword": "secret123"},
			status: http.StatusConflict,
		},
		{
			name:   "password mismatch",
			h:      env.auth.Register,
			body:   map[string]any{"name": "Nour", "email": "nour@example.com", "password": "secret123", "confirmPassword": "secret124"},
			status: http.StatusBadRequest,
		},
		{
			name:   "missing fields",
			h:      env.auth.Register,
			body:   map[string]any{"email": "nour@example.com"},
			status: http.StatusBadRequest,
		},
		{
			name:   "wrong password",
			h:      env.auth.Login,
			body:   map[string]string{"email": "sami@example.com", "password": "nope-nope"},
			status: http.StatusUnauthorized,
		},
		{
			name:   "unknown account",
			h:      env.auth.Login,
			body:   map[string]string{"email": "ghost@example.com", "password": "secret123"},
			status: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.h, http.MethodPost, "/api/auth", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Nil(t, sessionCookie(rec))
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(t, env.auth.Me, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	user := &domain.User{ID: "u-1", Name: "Huda", Email: "huda@example.com"}
	rec = serve(t, env.auth.Me, http.MethodGet, "/api/auth/me", nil, asUser(user))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		User domain.User `json:"user"`
		Role domain.Role `json:"role"`
	}](t, rec)
	assert.Equal(t, "u-1", body.User.ID)
	assert.Equal(t, domain.RoleBuyer, body.Role)
}
