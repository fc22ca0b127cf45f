package storefront

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dukerupert/law7a/internal/catalog"
	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/handler"
)

// ImageManager stores and removes product images for their artist.
type ImageManager interface {
	UploadProductImage(ctx context.Context, user *domain.User, productID string, data []byte) (domain.Product, error)
	DeleteProductImage(ctx context.Context, user *domain.User, productID, imageURL string) (domain.Product, error)
}

// MediaHandler handles artist image uploads.
type MediaHandler struct {
	media ImageManager
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(media ImageManager) *MediaHandler {
	return &MediaHandler{media: media}
}

type deleteImageRequest struct {
	URL string `json:"url"`
}

// Upload handles POST /api/artist/products/{id}/images
//
// The image is read from the multipart "image" field, or from the raw body
// for any other content type.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	data, err := readImage(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	product, err := h.media.UploadProductImage(r.Context(), domain.UserFromContext(r.Context()), r.PathValue("id"), data)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, newProductView(product, language(r)))
}

// Delete handles DELETE /api/artist/products/{id}/images
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteImageRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	product, err := h.media.DeleteProductImage(r.Context(), domain.UserFromContext(r.Context()), r.PathValue("id"), req.URL)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newProductView(product, language(r)))
}

func readImage(r *http.Request) ([]byte, error) {
	const op = "storefront.readImage"

	body := io.Reader(r.Body)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("image")
		if err != nil {
			if isTooLarge(err) {
				return nil, domain.WithOp(catalog.ErrImageTooLarge, op, err)
			}
			return nil, domain.Invalid(op, "image file is required")
		}
		defer file.Close()
		body = file
	}

	data, err := io.ReadAll(body)
	if err != nil {
		if isTooLarge(err) {
			return nil, domain.WithOp(catalog.ErrImageTooLarge, op, err)
		}
		return nil, domain.Invalid(op, "failed to read image")
	}
	if len(data) == 0 {
		return nil, domain.Invalid(op, "image file is required")
	}
	return data, nil
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}
