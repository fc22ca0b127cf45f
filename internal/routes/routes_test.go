package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/handler"
	"github.com/dukerupert/law7a/internal/handler/storefront"
	"github.com/dukerupert/law7a/internal/middleware"
	"github.com/dukerupert/law7a/internal/router"
)

func newTestRouter(t *testing.T) *router.Router {
	t.Helper()

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{Rate: 1, Burst: 1})

	uploads := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(uploads, "products"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(uploads, "products", "a.png"), []byte("png"), 0o644))

	r := router.New()
	RegisterStorefrontRoutes(r, StorefrontDeps{
		CatalogHandler:  storefront.NewCatalogHandler(nil, nil, nil, nil),
		CartHandler:     storefront.NewCartHandler(nil),
		CheckoutHandler: storefront.NewCheckoutHandler(nil, nil),
		OrderHandler:    storefront.NewOrderHandler(nil),
		AuthHandler:     storefront.NewAuthHandler(nil, nil),
		MediaHandler:    storefront.NewMediaHandler(nil),
		StudioHandler:   storefront.NewStudioHandler(nil),
		AuthLimiter:     limiter,
		RequestTimeout:  time.Second,
		SubmitTimeout:   time.Second,
	})
	RegisterOpsRoutes(r, OpsDeps{
		HealthHandler:  handler.Health(nil),
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("# metrics")) }),
		UploadsDir:     uploads,
	})
	return r
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		user   *domain.User
		status int
	}{
		{"health", http.MethodGet, "/healthz", nil, http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", nil, http.StatusOK},
		{"local upload", http.MethodGet, "/uploads/products/a.png", nil, http.StatusOK},
		{"me without session", http.MethodGet, "/api/auth/me", nil, http.StatusUnauthorized},
		{"me with session", http.MethodGet, "/api/auth/me", &domain.User{ID: "u1"}, http.StatusOK},
		{"artist route anonymous", http.MethodPost, "/api/artist/products/p1/images", nil, http.StatusUnauthorized},
		{"artist route for buyer", http.MethodPost, "/api/artist/products/p1/images", &domain.User{ID: "u1"}, http.StatusForbidden},
		{"listing create anonymous", http.MethodPost, "/api/artist/products", nil, http.StatusUnauthorized},
		{"profile for buyer", http.MethodPut, "/api/artist/profile", &domain.User{ID: "u1"}, http.StatusForbidden},
		{"wrong method", http.MethodPatch, "/api/cart", nil, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.user != nil {
				req = req.WithContext(domain.NewContextWithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRoutes_Registered(t *testing.T) {
	r := newTestRouter(t)

	assert.ElementsMatch(t, []string{
		"GET /healthz",
		"GET /metrics",
		"GET /uploads/",
		"GET /api/products/{id}",
		"GET /api/artists/{id}",
		"GET /api/artists/{id}/products",
		"GET /api/search",
		"GET /api/browse",
		"POST /api/browse",
		"POST /api/browse/more",
		"GET /api/cart",
		"DELETE /api/cart",
		"POST /api/cart/items",
		"PUT /api/cart/items/{id}",
		"DELETE /api/cart/items/{id}",
		"POST /api/checkout",
		"GET /api/checkout",
		"DELETE /api/checkout",
		"PUT /api/checkout/billing",
		"PUT /api/checkout/payment",
		"PUT /api/checkout/shipping",
		"POST /api/checkout/next",
		"POST /api/checkout/back",
		"POST /api/checkout/submit",
		"GET /api/orders",
		"GET /api/orders/{id}",
		"GET /api/auth/me",
		"POST /api/auth/logout",
		"POST /api/auth/register",
		"POST /api/auth/login",
		"POST /api/artist/products/{id}/images",
		"DELETE /api/artist/products/{id}/images",
		"GET /api/artist/profile",
		"PUT /api/artist/profile",
		"POST /api/artist/products",
		"PUT /api/artist/products/{id}",
		"DELETE /api/artist/products/{id}",
	}, r.Routes())
}

func TestRoutes_OversizedBody(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", nil)
	req.ContentLength = middleware.DefaultMaxBodySize + 1
	req.Body = http.NoBody
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
