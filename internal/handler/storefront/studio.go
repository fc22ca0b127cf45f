package storefront

import (
	"context"
	"net/http"

	"github.com/dukerupert/law7a/internal/catalog"
	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/handler"
)

// ListingManager is the artist side of the catalog.
type ListingManager interface {
	Profile(ctx context.Context, user *domain.User) (domain.Artist, error)
	SaveProfile(ctx context.Context, user *domain.User, in catalog.ProfileInput) (domain.Artist, error)
	CreateProduct(ctx context.Context, user *domain.User, in catalog.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, user *domain.User, productID string, in catalog.ProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, user *domain.User, productID string) error
}

// StudioHandler lets artists manage their profile and listings.
type StudioHandler struct {
	studio ListingManager
}

// NewStudioHandler creates a studio handler.
func NewStudioHandler(studio ListingManager) *StudioHandler {
	return &StudioHandler{studio: studio}
}

// Profile handles GET /api/artist/profile
func (h *StudioHandler) Profile(w http.ResponseWriter, r *http.Request) {
	artist, err := h.studio.Profile(r.Context(), domain.UserFromContext(r.Context()))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newArtistView(artist, language(r)))
}

// SaveProfile handles PUT /api/artist/profile
func (h *StudioHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProfileInput
	if err := handler.DecodeJSON(r, &in); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	artist, err := h.studio.SaveProfile(r.Context(), domain.UserFromContext(r.Context()), in)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newArtistView(artist, language(r)))
}

// CreateProduct handles POST /api/artist/products
func (h *StudioHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := handler.DecodeJSON(r, &in); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	product, err := h.studio.CreateProduct(r.Context(), domain.UserFromContext(r.Context()), in)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, newProductView(product, language(r)))
}

// UpdateProduct handles PUT /api/artist/products/{id}
func (h *StudioHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := handler.DecodeJSON(r, &in); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	product, err := h.studio.UpdateProduct(r.Context(), domain.UserFromContext(r.Context()), r.PathValue("id"), in)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newProductView(product, language(r)))
}

// DeleteProduct handles DELETE /api/artist/products/{id}
func (h *StudioHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.studio.DeleteProduct(r.Context(), domain.UserFromContext(r.Context()), r.PathValue("id")); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
