package catalog

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/storage"
)

// MaxImageBytes caps a single product image upload.
const MaxImageBytes = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var (
	ErrImageTooLarge   = &domain.Error{Code: domain.ETOOLARGE, Message: "Image must be 5 MB or smaller"}
	ErrImageType       = &domain.Error{Code: domain.EINVALID, Message: "Only JPEG, PNG, WebP and GIF images are accepted"}
	ErrNotProductOwner = &domain.Error{Code: domain.EFORBIDDEN, Message: "You can only manage your own products"}
	ErrImageNotFound   = &domain.Error{Code: domain.ENOTFOUND, Message: "Image not found on this product"}
)

// Media manages product images in object storage.
type Media struct {
	repo    *Repository
	storage storage.Storage
	logger  *slog.Logger
}

// NewMedia creates a Media service.
func NewMedia(repo *Repository, store storage.Storage, logger *slog.Logger) *Media {
	return &Media{repo: repo, storage: store, logger: logger}
}

// UploadProductImage stores data as a new image of productID and appends its URL
// to the product. Only the artist account that owns the product may upload.
func (m *Media) UploadProductImage(ctx context.Context, user *domain.User, productID string, data []byte) (domain.Product, error) {
	const op = "catalog.UploadProductImage"

	product, err := ownedProduct(ctx, m.repo, op, user, productID)
	if err != nil {
		return domain.Product{}, err
	}

	if len(data) > MaxImageBytes {
		return domain.Product{}, domain.WithOp(ErrImageTooLarge, op, nil)
	}
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return domain.Product{}, domain.WithOp(ErrImageType, op, nil)
	}

	key := path.Join("products", productID, uuid.NewString()+ext)
	url, err := m.storage.Put(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		return domain.Product{}, domain.Internal(err, op, "failed to store image")
	}

	product.Images = append(product.Images, url)
	if err := m.repo.PutProduct(ctx, product); err != nil {
		if delErr := m.storage.Delete(ctx, key); delErr != nil {
			m.logger.Warn("failed to remove orphaned image", "key", key, "error", delErr)
		}
		return domain.Product{}, err
	}

	m.logger.Info("product image uploaded", "product_id", productID, "key", key, "bytes", len(data))
	return product, nil
}

// DeleteProductImage removes imageURL from the product and deletes the object
// when this storage issued it.
func (m *Media) DeleteProductImage(ctx context.Context, user *domain.User, productID, imageURL string) (domain.Product, error) {
	const op = "catalog.DeleteProductImage"

	product, err := ownedProduct(ctx, m.repo, op, user, productID)
	if err != nil {
		return domain.Product{}, err
	}

	kept := make([]string, 0, len(product.Images))
	for _, img := range product.Images {
		if img != imageURL {
			kept = append(kept, img)
		}
	}
	if len(kept) == len(product.Images) {
		return domain.Product{}, domain.WithOp(ErrImageNotFound, op, nil)
	}
	product.Images = kept

	if err := m.repo.PutProduct(ctx, product); err != nil {
		return domain.Product{}, err
	}

	if key, ok := m.storage.KeyFromURL(imageURL); ok && strings.HasPrefix(key, "products/"+productID+"/") {
		if err := m.storage.Delete(ctx, key); err != nil {
			m.logger.Warn("failed to delete image object", "key", key, "error", err)
		}
	}
	return product, nil
}

// ownedProduct loads productID for an artist account and fails unless that
// account owns the product's artist profile.
func ownedProduct(ctx context.Context, repo *Repository, op string, user *domain.User, productID string) (domain.Product, error) {
	if err := requireArtist(op, user); err != nil {
		return domain.Product{}, err
	}

	product, err := repo.GetProductByID(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	artist, err := repo.GetArtistByID(ctx, product.ArtistID)
	if err != nil {
		return domain.Product{}, err
	}
	if artist.UserID != user.ID {
		return domain.Product{}, domain.WithOp(ErrNotProductOwner, op, nil)
	}
	return product, nil
}

func requireArtist(op string, user *domain.User) error {
	if user == nil {
		return domain.WithOp(domain.ErrNotAuthenticated, op, nil)
	}
	if user.Role() != domain.RoleArtist {
		return domain.WithOp(domain.ErrArtistOnly, op, nil)
	}
	return nil
}
