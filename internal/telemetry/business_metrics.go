package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// BusinessMetrics holds Prometheus metrics for storefront observability.
// Every method is safe on a nil receiver so components can run without metrics.
type BusinessMetrics struct {
	// Catalog
	Searches       *prometheus.CounterVec
	SearchScanned  *prometheus.HistogramVec
	SearchReturned *prometheus.HistogramVec

	// Cart
	CartItemsAdded  *prometheus.CounterVec
	CartItemsRemove prometheus.Counter
	CartCleared     *prometheus.CounterVec
	CartLoadFailed  prometheus.Counter

	// Checkout funnel
	CheckoutStarted   prometheus.Counter
	CheckoutStep      *prometheus.CounterVec
	CheckoutAbandoned prometheus.Counter
	PaymentAttempts   *prometheus.CounterVec

	// Orders
	OrdersCreated  *prometheus.CounterVec
	OrderValue     *prometheus.HistogramVec
	OrderItemCount prometheus.Histogram

	// Accounts
	Signups     *prometheus.CounterVec
	Logins      *prometheus.CounterVec
	LoginFailed prometheus.Counter

	// Background jobs
	SessionsSwept *prometheus.CounterVec
}

// NewBusinessMetrics creates business metrics and registers them with reg.
func NewBusinessMetrics(reg prometheus.Registerer, namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "law7a"
	}

	factory := promauto.With(reg)
	subsystem := "business"

	return &BusinessMetrics{
		// =======================================================================
		// Catalog
		// =======================================================================
		Searches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "searches_total",
				Help:      "Total catalog searches",
			},
			[]string{"kind", "filtered"}, // kind: products, artists
		),
		SearchScanned: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "search_scanned_documents",
				Help:      "Raw documents examined per search call",
				Buckets:   []float64{0, 6, 12, 24, 48, 96},
			},
			[]string{"kind"},
		),
		SearchReturned: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "search_returned_results",
				Help:      "Filtered results returned per search call",
				Buckets:   []float64{0, 1, 3, 6, 12},
			},
			[]string{"kind"},
		),

		// =======================================================================
		// Cart
		// =======================================================================
		CartItemsAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items_added_total",
				Help:      "Total add to cart actions",
			},
			[]string{"category"},
		),
		CartItemsRemove: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items_removed_total",
				Help:      "Total cart line removals",
			},
		),
		CartCleared: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_cleared_total",
				Help:      "Total carts emptied",
			},
			[]string{"reason"}, // reason: user, order
		),
		CartLoadFailed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_load_failed_total",
				Help:      "Persisted carts that could not be read and were replaced by an empty cart",
			},
		),

		// =======================================================================
		// Checkout Funnel
		// =======================================================================
		CheckoutStarted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_started_total",
				Help:      "Total checkout sessions started",
			},
		),
		CheckoutStep: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_step_total",
				Help:      "Checkout step transitions",
			},
			[]string{"step"}, // step: shipping, payment, review, submitting, complete
		),
		CheckoutAbandoned: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_abandoned_total",
				Help:      "Checkout sessions abandoned before completion",
			},
		),
		PaymentAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_attempts_total",
				Help:      "Payment authorization attempts",
			},
			[]string{"outcome"}, // outcome: approved, declined, error
		),

		// =======================================================================
		// Orders
		// =======================================================================
		OrdersCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_created_total",
				Help:      "Total orders placed",
			},
			[]string{"shipping_method"},
		),
		OrderValue: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value",
				Help:      "Order total in the order currency",
				Buckets:   []float64{25, 50, 100, 200, 400, 800, 1600},
			},
			[]string{"currency"},
		),
		OrderItemCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Units per order",
				Buckets:   []float64{1, 2, 3, 5, 8, 13},
			},
		),

		// =======================================================================
		// Accounts
		// =======================================================================
		Signups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "signups_total",
				Help:      "Accounts registered",
			},
			[]string{"role"},
		),
		Logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "logins_total",
				Help:      "Successful sign-ins",
			},
			[]string{"role"},
		),
		LoginFailed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "login_failed_total",
				Help:      "Rejected sign-in attempts",
			},
		),

		// =======================================================================
		// Background Jobs
		// =======================================================================
		SessionsSwept: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sessions_swept_total",
				Help:      "Idle visitor state evicted from memory",
			},
			[]string{"kind"}, // kind: cart, checkout, browser
		),
	}
}

// RecordSearch records one catalog search call.
func (m *BusinessMetrics) RecordSearch(kind string, filtered bool, scanned, returned int) {
	if m == nil {
		return
	}
	label := "false"
	if filtered {
		label = "true"
	}
	m.Searches.WithLabelValues(kind, label).Inc()
	m.SearchScanned.WithLabelValues(kind).Observe(float64(scanned))
	m.SearchReturned.WithLabelValues(kind).Observe(float64(returned))
}

// RecordAddToCart records a successful add to cart.
func (m *BusinessMetrics) RecordAddToCart(category string) {
	if m == nil {
		return
	}
	m.CartItemsAdded.WithLabelValues(category).Inc()
}

// RecordRemoveFromCart records a removed cart line.
func (m *BusinessMetrics) RecordRemoveFromCart() {
	if m == nil {
		return
	}
	m.CartItemsRemove.Inc()
}

// RecordCartCleared records an emptied cart.
func (m *BusinessMetrics) RecordCartCleared(reason string) {
	if m == nil {
		return
	}
	m.CartCleared.WithLabelValues(reason).Inc()
}

// RecordCartLoadFailed records a cart that degraded to empty on load.
func (m *BusinessMetrics) RecordCartLoadFailed() {
	if m == nil {
		return
	}
	m.CartLoadFailed.Inc()
}

// RecordCheckoutStarted records a new checkout session.
func (m *BusinessMetrics) RecordCheckoutStarted() {
	if m == nil {
		return
	}
	m.CheckoutStarted.Inc()
}

// RecordCheckoutStep records entering a checkout step.
func (m *BusinessMetrics) RecordCheckoutStep(step string) {
	if m == nil {
		return
	}
	m.CheckoutStep.WithLabelValues(step).Inc()
}

// RecordCheckoutAbandoned records an abandoned checkout.
func (m *BusinessMetrics) RecordCheckoutAbandoned() {
	if m == nil {
		return
	}
	m.CheckoutAbandoned.Inc()
}

// RecordPayment records a payment authorization outcome.
func (m *BusinessMetrics) RecordPayment(outcome string) {
	if m == nil {
		return
	}
	m.PaymentAttempts.WithLabelValues(outcome).Inc()
}

// RecordOrder records a placed order.
func (m *BusinessMetrics) RecordOrder(shippingMethod, currency string, total decimal.Decimal, units int) {
	if m == nil {
		return
	}
	m.OrdersCreated.WithLabelValues(shippingMethod).Inc()
	m.OrderValue.WithLabelValues(currency).Observe(total.InexactFloat64())
	m.OrderItemCount.Observe(float64(units))
}

// RecordSignup records a new account.
func (m *BusinessMetrics) RecordSignup(role string) {
	if m == nil {
		return
	}
	m.Signups.WithLabelValues(role).Inc()
}

// RecordLogin records a sign-in attempt.
func (m *BusinessMetrics) RecordLogin(role string, ok bool) {
	if m == nil {
		return
	}
	if !ok {
		m.LoginFailed.Inc()
		return
	}
	m.Logins.WithLabelValues(role).Inc()
}

// RecordSwept records idle visitor state evicted by the sweeper.
func (m *BusinessMetrics) RecordSwept(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.SessionsSwept.WithLabelValues(kind).Add(float64(n))
}
