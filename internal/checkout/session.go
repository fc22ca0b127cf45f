package checkout

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/law7a/internal/billing"
	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/shipping"
	"github.com/dukerupert/law7a/internal/telemetry"
)

// Session is one visitor's checkout. Methods are safe for concurrent use;
// while an order is being submitted every mutation is rejected.
type Session struct {
	id     string
	owner  string
	cart   Cart
	deps   Deps
	logger *slog.Logger

	mu          sync.Mutex
	step        Step
	billingInfo domain.BillingInfo
	paymentInfo domain.PaymentInfo
	rate        shipping.Rate
	errMsg      string
	fieldErrs   map[string]string
	submitting  bool
	order       *domain.Order
}

// State is a snapshot of a session for display.
type State struct {
	ID           string             `json:"id"`
	Step         Step               `json:"step"`
	Billing      domain.BillingInfo `json:"billing"`
	CardLast4    string             `json:"cardLast4,omitempty"`
	CardName     string             `json:"cardName,omitempty"`
	Shipping     shipping.Rate      `json:"shipping"`
	Items        []domain.CartItem  `json:"items"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Total        decimal.Decimal    `json:"total"`
	Currency     domain.Currency    `json:"currency"`
	Error        string             `json:"error,omitempty"`
	FieldErrors  map[string]string  `json:"fieldErrors,omitempty"`
	IsSubmitting bool               `json:"isSubmitting"`
	Order        *domain.Order      `json:"order,omitempty"`
}

// New starts a checkout for owner over a non-empty cart with standard shipping.
func New(ctx context.Context, owner string, cart Cart, deps Deps) (*Session, error) {
	const op = "checkout.New"

	if cart.Summary().Count == 0 {
		return nil, domain.WithOp(domain.ErrCartEmpty, op, nil)
	}
	rate, err := deps.Shipping.Quote(ctx, shipping.MethodStandard)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s := &Session{
		id:     id,
		owner:  owner,
		cart:   cart,
		deps:   deps,
		logger: deps.logger().With("checkout", id, "owner", owner),
		step:   StepShipping,
		rate:   rate,
	}
	deps.Metrics.RecordCheckoutStarted()
	deps.Metrics.RecordCheckoutStep(StepShipping.String())
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Step returns the current step.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// State returns a snapshot with live cart totals.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	st := State{
		ID:           s.id,
		Step:         s.step,
		Billing:      s.billingInfo,
		CardName:     s.paymentInfo.CardName,
		Shipping:     s.rate,
		Error:        s.errMsg,
		IsSubmitting: s.submitting,
	}
	if s.paymentInfo.CardNumber != "" {
		st.CardLast4 = s.paymentInfo.Last4()
	}
	if len(s.fieldErrs) > 0 {
		st.FieldErrors = make(map[string]string, len(s.fieldErrs))
		for k, v := range s.fieldErrs {
			st.FieldErrors[k] = v
		}
	}

	if s.order != nil {
		order := *s.order
		st.Order = &order
		st.Items = order.Items
		st.Subtotal = order.Subtotal
		st.Total = order.Total
		st.Currency = order.Currency
		return st
	}

	summary := s.cart.Summary()
	st.Items = summary.Items
	st.Subtotal = summary.Total
	st.Total = summary.Total.Add(s.rate.Cost)
	st.Currency = summary.Currency()
	return st
}

// Order returns the placed order once the session is complete.
func (s *Session) Order() (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil {
		return domain.Order{}, false
	}
	return *s.order, true
}

// editableLocked rejects changes once submission has started.
func (s *Session) editableLocked() error {
	if s.step == StepComplete {
		return domain.ErrCheckoutComplete
	}
	if s.submitting {
		return domain.ErrSubmissionInProgress
	}
	return nil
}

// SetBilling replaces the shipping form.
func (s *Session) SetBilling(info domain.BillingInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	s.billingInfo = trimBilling(info)
	return nil
}

// SetPayment replaces the card form.
func (s *Session) SetPayment(info domain.PaymentInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	s.paymentInfo = domain.PaymentInfo{
		CardNumber: strings.TrimSpace(info.CardNumber),
		CardName:   strings.TrimSpace(info.CardName),
		ExpiryDate: strings.TrimSpace(info.ExpiryDate),
		CVV:        strings.TrimSpace(info.CVV),
	}
	return nil
}

// SelectShipping switches the delivery method. The total follows immediately.
func (s *Session) SelectShipping(ctx context.Context, method string) (State, error) {
	rate, err := s.deps.Shipping.Quote(ctx, method)
	if err != nil {
		return s.State(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return s.stateLocked(), err
	}
	s.rate = rate
	return s.stateLocked(), nil
}

// GoToNextStep advances one step. Leaving the shipping step requires a valid
// shipping form; the payment form is checked on submission.
func (s *Session) GoToNextStep() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked(); err != nil {
		return s.stateLocked(), err
	}
	s.clearErrorLocked()

	switch s.step {
	case StepShipping:
		if err := ValidateBilling(s.billingInfo); err != nil {
			s.setErrorLocked(err)
			return s.stateLocked(), err
		}
		s.moveLocked(StepPayment)
	case StepPayment:
		s.moveLocked(StepReview)
	default:
		return s.stateLocked(), domain.WithOp(domain.ErrWrongStep, "checkout.GoToNextStep", nil)
	}
	return s.stateLocked(), nil
}

// GoToPreviousStep goes back one step, stopping at the shipping step.
func (s *Session) GoToPreviousStep() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked(); err != nil {
		return s.stateLocked(), err
	}
	s.clearErrorLocked()
	if s.step > StepShipping {
		s.moveLocked(s.step - 1)
	}
	return s.stateLocked(), nil
}

// Submit places the order. It validates the card, authorizes the payment,
// allocates an order number and records the order. On success the cart is
// cleared and the session completes; on failure it returns to review with an
// error message and the cart untouched.
func (s *Session) Submit(ctx context.Context) (State, error) {
	const op = "checkout.Submit"

	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		st := s.stateLocked()
		s.mu.Unlock()
		return st, err
	}
	if s.step != StepReview {
		st := s.stateLocked()
		s.mu.Unlock()
		return st, domain.WithOp(domain.ErrWrongStep, op, nil)
	}
	s.clearErrorLocked()

	summary := s.cart.Summary()
	if summary.Count == 0 {
		err := domain.WithOp(domain.ErrCartEmpty, op, nil)
		s.setErrorLocked(err)
		st := s.stateLocked()
		s.mu.Unlock()
		return st, err
	}
	if err := ValidatePayment(s.paymentInfo); err != nil {
		s.setErrorLocked(err)
		st := s.stateLocked()
		s.mu.Unlock()
		return st, err
	}

	s.submitting = true
	s.moveLocked(StepSubmitting)
	req := submission{
		summary: summary,
		billing: s.billingInfo,
		payment: s.paymentInfo,
		rate:    s.rate,
	}
	s.mu.Unlock()

	order, err := s.place(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false

	if err != nil {
		s.moveLocked(StepReview)
		if errors.Is(err, domain.ErrPaymentDeclined) {
			s.logger.Info("payment declined", "error", err)
			s.deps.Metrics.RecordPayment("declined")
		} else {
			s.logger.Error("checkout failed", "error", err)
			telemetry.CaptureErrorFromContext(ctx, err, map[string]interface{}{
				"checkout_id": s.id,
				"owner":       s.owner,
			})
		}
		s.setErrorLocked(err)
		return s.stateLocked(), err
	}

	s.order = &order
	s.paymentInfo = domain.PaymentInfo{}
	s.moveLocked(StepComplete)
	return s.stateLocked(), nil
}

type submission struct {
	summary domain.CartSummary
	billing domain.BillingInfo
	payment domain.PaymentInfo
	rate    shipping.Rate
}

// place runs the submission stages without holding the session lock: a pause,
// payment authorization, a pause, order number reservation, a pause, and the
// order record. Once the order is recorded the cart is cleared and the order
// announced even if ctx ends, so a placed order never leaves a full cart.
func (s *Session) place(ctx context.Context, req submission) (domain.Order, error) {
	const op = "checkout.Submit"
	failed := func(err error) (domain.Order, error) {
		return domain.Order{}, domain.WithOp(domain.ErrCheckoutFailed, op, err)
	}

	total := req.summary.Total.Add(req.rate.Cost)
	currency := req.summary.Currency()

	if err := sleep(ctx, s.deps.Delays.Validate); err != nil {
		return failed(err)
	}

	telemetry.AddBreadcrumb("checkout", "authorizing payment", map[string]interface{}{"checkout_id": s.id})
	auth, err := s.deps.Authorizer.Authorize(ctx, billing.AuthorizeParams{
		Amount:    total,
		Currency:  currency,
		Card:      req.payment,
		Reference: s.id,
		Email:     req.billing.Email,
	})
	if err != nil {
		if billing.IsDeclined(err) {
			return domain.Order{}, domain.WithOp(domain.ErrPaymentDeclined, op, err)
		}
		s.deps.Metrics.RecordPayment("error")
		return failed(err)
	}
	s.deps.Metrics.RecordPayment("approved")

	if err := sleep(ctx, s.deps.Delays.Authorize); err != nil {
		return failed(err)
	}

	number, err := s.deps.Orders.Reserve(ctx, s.owner)
	if err != nil {
		return failed(err)
	}
	release := func() {
		if err := s.deps.Orders.Release(context.WithoutCancel(ctx), s.owner, number); err != nil {
			s.logger.Warn("failed to release order number", "order_id", number, "error", err)
		}
	}

	order := domain.Order{
		ID:        number,
		CreatedAt: s.deps.now().UTC(),
		Items:     req.summary.Items,
		Subtotal:  req.summary.Total,
		Total:     total,
		Currency:  currency,
		Shipping: domain.OrderShipping{
			Method:  req.rate.Method,
			Cost:    req.rate.Cost,
			Address: req.billing,
		},
		Payment: domain.OrderPayment{
			Method: domain.PaymentMethodCard,
			Last4:  auth.Last4,
		},
		Owner: s.owner,
	}

	if err := sleep(ctx, s.deps.Delays.Finalize); err != nil {
		release()
		return failed(err)
	}
	if err := s.deps.Orders.Append(ctx, order); err != nil {
		release()
		return failed(err)
	}

	// The order exists from here on. Later steps outlive the request and
	// their failures are only logged.
	done := context.WithoutCancel(ctx)
	if err := s.cart.Clear(done); err != nil {
		s.logger.Error("failed to clear cart after order", "order_id", order.ID, "error", err)
	} else {
		s.deps.Metrics.RecordCartCleared("order")
	}
	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.OrderPlaced(done, order); err != nil {
			s.logger.Warn("failed to publish order event", "order_id", order.ID, "error", err)
		}
	}

	s.deps.Metrics.RecordOrder(order.Shipping.Method, string(order.Currency), order.Total, req.summary.Count)
	s.logger.Info("order placed", "order_id", order.ID, "total", order.Total.StringFixed(2))
	return order, nil
}

func (s *Session) moveLocked(step Step) {
	s.step = step
	s.deps.Metrics.RecordCheckoutStep(step.String())
}

func (s *Session) clearErrorLocked() {
	s.errMsg = ""
	s.fieldErrs = nil
}

func (s *Session) setErrorLocked(err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		s.errMsg = ve.Summary()
		s.fieldErrs = ve.Fields
		return
	}
	var de *domain.Error
	if errors.As(err, &de) {
		s.errMsg = de.Message
		return
	}
	s.errMsg = domain.ErrCheckoutFailed.Message
}

func trimBilling(b domain.BillingInfo) domain.BillingInfo {
	return domain.BillingInfo{
		FirstName:  strings.TrimSpace(b.FirstName),
		LastName:   strings.TrimSpace(b.LastName),
		Email:      strings.TrimSpace(b.Email),
		Phone:      strings.TrimSpace(b.Phone),
		Address:    strings.TrimSpace(b.Address),
		City:       strings.TrimSpace(b.City),
		Country:    strings.TrimSpace(b.Country),
		PostalCode: strings.TrimSpace(b.PostalCode),
	}
}
