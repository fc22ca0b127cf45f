package routes

import (
	"net/http"
	"time"

	"github.com/dukerupert/law7a/internal/handler/storefront"
	"github.com/dukerupert/law7a/internal/middleware"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Catalog (products, artists, search, browse)
	CatalogHandler *storefront.CatalogHandler

	// Cart
	CartHandler *storefront.CartHandler

	// Checkout and order history
	CheckoutHandler *storefront.CheckoutHandler
	OrderHandler    *storefront.OrderHandler

	// Auth (register, login, logout, me)
	AuthHandler *storefront.AuthHandler

	// Artist image uploads
	MediaHandler *storefront.MediaHandler

	// Artist profile and listings
	StudioHandler *storefront.StudioHandler

	// AuthLimiter throttles register and login per client.
	AuthLimiter *middleware.RateLimiter

	// RequestTimeout bounds ordinary API calls.
	RequestTimeout time.Duration

	// SubmitTimeout bounds order submission, which waits through the
	// checkout delays.
	SubmitTimeout time.Duration
}

// OpsDeps contains dependencies for operational routes
type OpsDeps struct {
	HealthHandler  http.Handler
	MetricsHandler http.Handler

	// UploadsDir serves locally stored images under /uploads/ when set.
	UploadsDir string
}
