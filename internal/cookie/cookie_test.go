package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	cfg := NewConfig("", true)
	rec := httptest.NewRecorder()
	cfg.Set(rec, VisitorCookieName, "abc", VisitorMaxAge)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, VisitorCookieName, c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	assert.Equal(t, "abc", Get(req, VisitorCookieName))
	assert.Empty(t, Get(req, SessionCookieName))
}

func TestSetWithExpiry(t *testing.T) {
	cfg := NewConfig("law7a.test", false)
	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := httptest.NewRecorder()
	cfg.SetWithExpiry(rec, SessionCookieName, "tok", expires)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "law7a.test", cookies[0].Domain)
	assert.True(t, cookies[0].Expires.Equal(expires))
}

func TestClear(t *testing.T) {
	cfg := NewConfig("", false)
	rec := httptest.NewRecorder()
	cfg.Clear(rec, SessionCookieName)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
