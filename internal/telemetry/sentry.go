package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/dukerupert/law7a/internal/domain"
)

const flushTimeout = 2 * time.Second

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	// DSN is the Sentry Data Source Name (required if Enabled is true)
	DSN string

	Enabled     bool
	Environment string
	Release     string

	// SampleRate is the share of errors captured. Zero means 1.0.
	SampleRate float64

	// TracesSampleRate is the share of transactions traced. Zero disables tracing.
	TracesSampleRate float64

	Debug bool
}

var enabled atomic.Bool

// sensitiveKeys are stripped from request headers, cookies and extras.
var sensitiveKeys = []string{"authorization", "cookie", "law7a_session", "card", "cvv", "expiry", "password"}

// InitSentry initializes the Sentry client and returns the flush function to
// run on shutdown. A disabled or DSN-less config is not an error.
func InitSentry(cfg SentryConfig, logger *slog.Logger) (func(), error) {
	enabled.Store(false)
	if !cfg.Enabled {
		logger.Info("Sentry disabled")
		return func() {}, nil
	}
	if cfg.DSN == "" {
		logger.Warn("Sentry DSN not configured, disabling error tracking")
		return func() {}, nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		TracesSampleRate: cfg.TracesSampleRate,
		Debug:            cfg.Debug,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return scrubEvent(event)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Sentry: %w", err)
	}
	enabled.Store(true)

	logger.Info("Sentry initialized",
		"environment", cfg.Environment,
		"release", cfg.Release,
		"sample_rate", sampleRate,
		"traces_sample_rate", cfg.TracesSampleRate,
	)

	return func() { sentry.Flush(flushTimeout) }, nil
}

// IsEnabled returns whether Sentry is currently enabled
func IsEnabled() bool {
	return enabled.Load()
}

// scrubEvent drops request bodies and any header, cookie or extra that could
// carry card data or credentials.
func scrubEvent(event *sentry.Event) *sentry.Event {
	if event == nil {
		return nil
	}
	if event.Request != nil {
		event.Request.Data = ""
		event.Request.Cookies = ""
		for name := range event.Request.Headers {
			if isSensitive(name) {
				delete(event.Request.Headers, name)
			}
		}
	}
	for key := range event.Extra {
		if isSensitive(key) {
			delete(event.Extra, key)
		}
	}
	return event
}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// shouldCapture reports whether err is worth an event. Declines, validation
// failures and other expected domain outcomes are not.
func shouldCapture(err error) bool {
	if err == nil {
		return false
	}
	switch domain.ErrorCode(err) {
	case domain.EINTERNAL, domain.EUNAVAILABLE:
		return true
	default:
		return false
	}
}

// CaptureError reports err with extras on the global hub. Safe to call when
// Sentry is disabled.
func CaptureError(err error, extras ...map[string]any) {
	if !IsEnabled() || !shouldCapture(err) {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		if len(extras) > 0 {
			scope.SetExtras(extras[0])
		}
		sentry.CaptureException(err)
	})
}

// CaptureErrorFromContext reports err on the request's hub so the tags set by
// SentryContextMiddleware come along.
func CaptureErrorFromContext(ctx context.Context, err error, extras map[string]any) {
	if !IsEnabled() || !shouldCapture(err) {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetExtras(extras)
		hub.CaptureException(err)
	})
}

// AddBreadcrumb records a step of the current flow.
func AddBreadcrumb(category, message string, data map[string]any) {
	if !IsEnabled() {
		return
	}
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Category: category,
		Message:  message,
		Data:     data,
		Level:    sentry.LevelInfo,
	})
}

// RecoverWithSentry reports a panic and re-raises it.
// Use: defer telemetry.RecoverWithSentry()
func RecoverWithSentry() {
	if r := recover(); r != nil {
		if IsEnabled() {
			sentry.CurrentHub().Recover(r)
			sentry.Flush(flushTimeout)
		}
		panic(r)
	}
}

// requestHub returns the hub bound to r, cloning the global one if none is.
func requestHub(r *http.Request) *sentry.Hub {
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		return hub
	}
	return sentry.CurrentHub().Clone()
}

// SentryMiddleware binds a hub to each request and reports panics. The panic is
// re-raised so router.Recovery can write the 500.
func SentryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsEnabled() {
				next.ServeHTTP(w, r)
				return
			}

			hub := requestHub(r)
			hub.Scope().SetRequest(r)
			ctx := sentry.SetHubOnContext(r.Context(), hub)

			defer func() {
				if err := recover(); err != nil {
					hub.RecoverWithContext(ctx, err)
					sentry.Flush(flushTimeout)
					panic(err)
				}
			}()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserInfo is the user attached to Sentry events.
type UserInfo struct {
	ID    string
	Email string
	Role  string
}

// UserContextExtractor pulls the signed-in user from a request context.
type UserContextExtractor func(ctx context.Context) *UserInfo

// UserFromDomain extracts the signed-in storefront user, if any.
func UserFromDomain(ctx context.Context) *UserInfo {
	user := domain.UserFromContext(ctx)
	if user == nil {
		return nil
	}
	return &UserInfo{ID: user.ID, Email: user.Email, Role: string(user.Role())}
}

// SentryContextMiddleware tags the request hub with the visitor session,
// display language and signed-in user. It must run after the visitor and
// identity middleware.
func SentryContextMiddleware(userExtractor UserContextExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsEnabled() {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			hub := requestHub(r)
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTags(requestTags(ctx))
				if userExtractor == nil {
					return
				}
				if user := userExtractor(ctx); user != nil {
					scope.SetUser(sentry.User{ID: user.ID, Email: user.Email})
					scope.SetTag("role", user.Role)
				}
			})

			next.ServeHTTP(w, r.WithContext(sentry.SetHubOnContext(ctx, hub)))
		})
	}
}

func requestTags(ctx context.Context) map[string]string {
	tags := map[string]string{"language": string(domain.LanguageFromContext(ctx))}
	if visitor := domain.VisitorFromContext(ctx); visitor != "" {
		tags["visitor_id"] = visitor
	}
	if requestID := domain.RequestIDFromContext(ctx); requestID != "" {
		tags["request_id"] = requestID
	}
	return tags
}
