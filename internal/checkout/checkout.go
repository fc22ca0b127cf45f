// Package checkout runs the multi-step checkout for one visitor: shipping
// details, payment details, review, and order submission.
package checkout

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukerupert/law7a/internal/billing"
	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/shipping"
	"github.com/dukerupert/law7a/internal/telemetry"
)

// Step is a position in the checkout flow.
type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepReview
	StepSubmitting
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	case StepSubmitting:
		return "submitting"
	case StepComplete:
		return "complete"
	}
	return "unknown"
}

// MarshalText encodes the step by name.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Cart is the part of the cart store checkout reads and clears.
type Cart interface {
	Summary() domain.CartSummary
	Clear(ctx context.Context) error
}

// Publisher announces placed orders.
type Publisher interface {
	OrderPlaced(ctx context.Context, order domain.Order) error
}

// Delays are the pauses between submission stages.
type Delays struct {
	Validate  time.Duration // before payment authorization
	Authorize time.Duration // before the order number is drawn
	Finalize  time.Duration // before the order is recorded
}

// DefaultDelays match the storefront's processing animation.
var DefaultDelays = Delays{
	Validate:  time.Second,
	Authorize: time.Second,
	Finalize:  500 * time.Millisecond,
}

// Deps are the collaborators of a checkout session.
type Deps struct {
	Authorizer billing.Authorizer
	Shipping   shipping.Provider
	Orders     *OrderHistory
	Publisher  Publisher // optional
	Delays     Delays
	Logger     *slog.Logger
	Metrics    *telemetry.BusinessMetrics
	Now        func() time.Time
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
