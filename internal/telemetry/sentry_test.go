package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/law7a/internal/domain"
)

func TestScrubEvent(t *testing.T) {
	event := &sentry.Event{
		Request: &sentry.Request{
			Data:    `{"cardNumber":"4111111111111111","cvv":"123"}`,
			Cookies: "law7a_session=abc; law7a_visitor=def",
			Headers: map[string]string{
				"Authorization":   "Bearer x",
				"Accept-Language": "ar",
				"Cookie":          "law7a_session=abc",
			},
		},
		Extra: map[string]any{
			"checkout_id": "c-1",
			"cardLast4":   "1111",
		},
	}

	got := scrubEvent(event)

	assert.Empty(t, got.Request.Data)
	assert.Empty(t, got.Request.Cookies)
	assert.Equal(t, map[string]string{"Accept-Language": "ar"}, got.Request.Headers)
	assert.Equal(t, map[string]any{"checkout_id": "c-1"}, got.Extra)
	assert.Nil(t, scrubEvent(nil))
}

func TestShouldCapture(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"raw error", errors.New("disk full"), true},
		{"internal", domain.Internal(errors.New("boom"), "kv.Put", "write failed"), true},
		{"unavailable", domain.Errorf(domain.EUNAVAILABLE, "", "nats down"), true},
		{"declined", domain.WithOp(domain.ErrPaymentDeclined, "checkout.Submit", nil), false},
		{"validation", domain.NewValidationError("checkout.Next", "email", "bad"), false},
		{"not found", domain.ErrProductNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldCapture(tt.err))
		})
	}
}

func TestRequestTags(t *testing.T) {
	ctx := domain.NewContextWithVisitor(context.Background(), "v-1")
	ctx = domain.NewContextWithLanguage(ctx, domain.LanguageArabic)
	ctx = domain.NewContextWithRequestID(ctx, "req-9")

	assert.Equal(t, map[string]string{
		"language":   "ar",
		"visitor_id": "v-1",
		"request_id": "req-9",
	}, requestTags(ctx))
}

func TestUserFromDomain(t *testing.T) {
	assert.Nil(t, UserFromDomain(context.Background()))

	ctx := domain.NewContextWithUser(context.Background(), &domain.User{ID: "u-1", Email: "rana@example.com", IsArtist: true})
	user := UserFromDomain(ctx)
	require.NotNil(t, user)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "artist", user.Role)
}

func TestInitSentry_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cleanup, err := InitSentry(SentryConfig{Enabled: true}, logger)
	require.NoError(t, err)
	cleanup()
	assert.False(t, IsEnabled())

	// No-ops while disabled.
	CaptureError(errors.New("ignored"))
	AddBreadcrumb("checkout", "ignored", nil)
}
