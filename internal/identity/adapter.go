package identity

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/telemetry"
)

// EventKind says how the signed-in user changed.
type EventKind string

const (
	EventLogin  EventKind = "login"
	EventLogout EventKind = "logout"
)

// Event is delivered to OnSessionChange listeners. User is nil on logout
// when the session was already gone.
type Event struct {
	Kind  EventKind
	Token string
	User  *domain.User
}

// Listener receives session changes. It runs synchronously on the calling
// goroutine and must not block.
type Listener func(ctx context.Context, ev Event)

// SignUp is the registration form.
type SignUp struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	IsArtist        bool   `json:"isArtist"`
}

// Form messages.
const (
	MsgFillAllFields    = "Please fill in all fields"
	MsgPasswordMismatch = "Passwords do not match"
)

// Adapter is the storefront's view of identity: it checks forms, calls the
// provider, and notifies listeners when a session opens or closes.
type Adapter struct {
	provider Provider
	logger   *slog.Logger
	metrics  *telemetry.BusinessMetrics

	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
}

// NewAdapter wraps provider.
func NewAdapter(provider Provider, logger *slog.Logger, metrics *telemetry.BusinessMetrics) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		provider:  provider,
		logger:    logger,
		metrics:   metrics,
		listeners: make(map[int]Listener),
	}
}

// OnSessionChange registers a listener and returns a function removing it.
func (a *Adapter) OnSessionChange(fn Listener) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.listeners, id)
			a.mu.Unlock()
		})
	}
}

func (a *Adapter) notify(ctx context.Context, ev Event) {
	a.mu.RLock()
	listeners := make([]Listener, 0, len(a.listeners))
	for _, fn := range a.listeners {
		listeners = append(listeners, fn)
	}
	a.mu.RUnlock()

	for _, fn := range listeners {
		fn(ctx, ev)
	}
}

// Register validates the form, creates the account and signs it in.
func (a *Adapter) Register(ctx context.Context, form SignUp) (domain.Session, error) {
	const op = "identity.Adapter.Register"

	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)

	var verr error
	for field, value := range map[string]string{
		"name":            form.Name,
		"email":           form.Email,
		"password":        form.Password,
		"confirmPassword": form.ConfirmPassword,
	} {
		if value == "" {
			verr = domain.AddFieldError(verr, field, "This field is required")
		}
	}
	if verr != nil {
		ve := verr.(*domain.ValidationError)
		ve.Op = op
		ve.Message = MsgFillAllFields
		return domain.Session{}, ve
	}
	if form.Password != form.ConfirmPassword {
		return domain.Session{}, &domain.ValidationError{
			Op:      op,
			Message: MsgPasswordMismatch,
			Fields:  map[string]string{"confirmPassword": MsgPasswordMismatch},
		}
	}

	if _, err := a.provider.Register(ctx, form.Email, form.Password, domain.Profile{
		Name:     form.Name,
		IsArtist: form.IsArtist,
	}); err != nil {
		return domain.Session{}, err
	}
	role := domain.RoleBuyer
	if form.IsArtist {
		role = domain.RoleArtist
	}
	a.metrics.RecordSignup(string(role))

	return a.Login(ctx, form.Email, form.Password)
}

// Login signs a visitor in.
func (a *Adapter) Login(ctx context.Context, email, password string) (domain.Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return domain.Session{}, &domain.ValidationError{
			Op:      "identity.Adapter.Login",
			Message: MsgFillAllFields,
			Fields:  map[string]string{"email": "This field is required", "password": "This field is required"},
		}
	}

	sess, err := a.provider.Login(ctx, email, password)
	if err != nil {
		a.metrics.RecordLogin("", false)
		return domain.Session{}, err
	}
	a.metrics.RecordLogin(string(sess.User.Role()), true)

	user := sess.User
	a.notify(ctx, Event{Kind: EventLogin, Token: sess.Token, User: &user})
	return sess, nil
}

// Logout ends the session behind token.
func (a *Adapter) Logout(ctx context.Context, token string) error {
	var user *domain.User
	if u, err := a.provider.Lookup(ctx, token); err == nil {
		user = &u
	}
	if err := a.provider.Logout(ctx, token); err != nil {
		return err
	}
	a.notify(ctx, Event{Kind: EventLogout, Token: token, User: user})
	return nil
}

// Current returns the user signed in with token, or nil for an anonymous
// visitor. An unknown or expired token is anonymous, not an error.
func (a *Adapter) Current(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	user, err := a.provider.Lookup(ctx, token)
	if err != nil {
		if domain.IsCode(err, domain.EUNAUTHORIZED) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
