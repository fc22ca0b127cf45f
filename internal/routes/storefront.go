package routes

import (
	"github.com/dukerupert/law7a/internal/middleware"
	"github.com/dukerupert/law7a/internal/router"
)

// RegisterStorefrontRoutes registers the storefront JSON API under /api.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	api := r.Mount("/api", middleware.MaxBodySize(), middleware.Timeout(deps.RequestTimeout))

	// Catalog
	api.Get("/products/{id}", deps.CatalogHandler.Product)
	api.Get("/artists/{id}", deps.CatalogHandler.Artist)
	api.Get("/artists/{id}/products", deps.CatalogHandler.ArtistProducts)
	api.Get("/search", deps.CatalogHandler.Search)
	api.Get("/browse", deps.CatalogHandler.BrowseState)
	api.Post("/browse", deps.CatalogHandler.Browse)
	api.Post("/browse/more", deps.CatalogHandler.BrowseMore)

	// Shopping cart
	api.Get("/cart", deps.CartHandler.View)
	api.Delete("/cart", deps.CartHandler.Clear)
	api.Post("/cart/items", deps.CartHandler.Add)
	api.Put("/cart/items/{id}", deps.CartHandler.Update)
	api.Delete("/cart/items/{id}", deps.CartHandler.Remove)

	// Checkout flow
	api.Post("/checkout", deps.CheckoutHandler.Start)
	api.Get("/checkout", deps.CheckoutHandler.View)
	api.Delete("/checkout", deps.CheckoutHandler.Abandon)
	api.Put("/checkout/billing", deps.CheckoutHandler.SetBilling)
	api.Put("/checkout/payment", deps.CheckoutHandler.SetPayment)
	api.Put("/checkout/shipping", deps.CheckoutHandler.SelectShipping)
	api.Post("/checkout/next", deps.CheckoutHandler.Next)
	api.Post("/checkout/back", deps.CheckoutHandler.Back)

	// Submission outlives the ordinary request timeout.
	submit := r.Mount("/api", middleware.MaxBodySize(), middleware.Timeout(deps.SubmitTimeout))
	submit.Post("/checkout/submit", deps.CheckoutHandler.Submit)

	// Orders of the signed-in user or the anonymous visitor
	api.Get("/orders", deps.OrderHandler.List)
	api.Get("/orders/{id}", deps.OrderHandler.Get)

	// Authentication (POST routes are rate limited)
	api.Get("/auth/me", deps.AuthHandler.Me, middleware.RequireAuth)
	api.Post("/auth/logout", deps.AuthHandler.Logout)
	limited := api.Group(deps.AuthLimiter.Middleware)
	limited.Post("/auth/register", deps.AuthHandler.Register)
	limited.Post("/auth/login", deps.AuthHandler.Login)

	// Artist routes
	artist := r.Mount("/api/artist", middleware.RequireArtist, middleware.Timeout(deps.RequestTimeout))
	artist.Get("/profile", deps.StudioHandler.Profile)
	artist.Put("/profile", deps.StudioHandler.SaveProfile, middleware.MaxBodySize())
	artist.Post("/products", deps.StudioHandler.CreateProduct, middleware.MaxBodySize())
	artist.Put("/products/{id}", deps.StudioHandler.UpdateProduct, middleware.MaxBodySize())
	artist.Delete("/products/{id}", deps.StudioHandler.DeleteProduct)
	artist.Post("/products/{id}/images", deps.MediaHandler.Upload, middleware.MaxBodySize(middleware.UploadMaxBodySize))
	artist.Delete("/products/{id}/images", deps.MediaHandler.Delete, middleware.MaxBodySize())
}
