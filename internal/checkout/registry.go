package checkout

import (
	"context"
	"time"

	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/visitor"
)

// Registry keeps at most one transient session per visitor.
type Registry struct {
	deps     Deps
	sessions *visitor.Registry[*Session]
}

// NewRegistry creates a Registry whose sessions share deps.
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:     deps,
		sessions: visitor.NewRegistry[*Session](nil),
	}
}

// Start begins a checkout for the visitor, replacing any unfinished one.
func (r *Registry) Start(ctx context.Context, visitorKey, owner string, cart Cart) (*Session, error) {
	if prev, ok := r.sessions.Peek(visitorKey); ok && prev.Step() == StepSubmitting {
		return nil, domain.ErrSubmissionInProgress
	}

	s, err := New(ctx, owner, cart, r.deps)
	if err != nil {
		return nil, err
	}
	r.sessions.Put(visitorKey, s)
	return s, nil
}

// Get returns the visitor's session.
func (r *Registry) Get(visitorKey string) (*Session, error) {
	s, ok := r.sessions.Peek(visitorKey)
	if !ok {
		return nil, domain.WithOp(domain.ErrCheckoutNotFound, "checkout.Registry.Get", nil)
	}
	return s, nil
}

// View returns the session state. A completed session is dropped once its
// order has been shown.
func (r *Registry) View(visitorKey string) (State, error) {
	s, err := r.Get(visitorKey)
	if err != nil {
		return State{}, err
	}
	st := s.State()
	if st.Step == StepComplete {
		r.sessions.Remove(visitorKey)
	}
	return st, nil
}

// Abandon drops the visitor's session unless it is submitting.
func (r *Registry) Abandon(visitorKey string) error {
	s, ok := r.sessions.Peek(visitorKey)
	if !ok {
		return nil
	}
	switch s.Step() {
	case StepSubmitting:
		return domain.ErrSubmissionInProgress
	case StepComplete:
	default:
		r.deps.Metrics.RecordCheckoutAbandoned()
	}
	r.sessions.Remove(visitorKey)
	return nil
}

// Sweep drops sessions idle for longer than idle.
func (r *Registry) Sweep(idle time.Duration) int {
	return r.sessions.Sweep(idle)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.sessions.Len()
}
