package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/storage"
)

// ErrProfileRequired is returned when an artist account lists artwork before
// creating its profile.
var ErrProfileRequired = &domain.Error{Code: domain.EINVALID, Message: "Create your artist profile before listing artwork"}

// ProductInput is the editable part of a listing. Images are managed through
// Media; the ID, artist and featured flag are never taken from the client.
type ProductInput struct {
	Title       domain.TranslatedText `json:"title"`
	Description domain.TranslatedText `json:"description"`
	Price       decimal.Decimal       `json:"price"`
	Currency    domain.Currency       `json:"currency,omitempty"`
	Category    domain.Category       `json:"category"`
	Medium      domain.Medium         `json:"medium"`
	Dimensions  *domain.Dimensions    `json:"dimensions,omitempty"`
	Weight      *domain.Weight        `json:"weight,omitempty"`
	InStock     *bool                 `json:"inStock,omitempty"`
	Quantity    *int                  `json:"quantity,omitempty"`
	Tags        []string              `json:"tags,omitempty"`
}

// ProfileInput is the editable part of an artist profile.
type ProfileInput struct {
	Name           domain.TranslatedText `json:"name"`
	Bio            domain.TranslatedText `json:"bio"`
	Location       domain.TranslatedText `json:"location"`
	ProfilePicture string                `json:"profilePicture,omitempty"`
	CoverImage     string                `json:"coverImage,omitempty"`
	SocialLinks    domain.SocialLinks    `json:"socialLinks"`
	Tags           []string              `json:"tags,omitempty"`
}

// Studio lets artist accounts manage their profile and listings.
type Studio struct {
	repo    *Repository
	storage storage.Storage
	logger  *slog.Logger
	now     func() time.Time
}

// NewStudio creates a Studio. store holds the images removed with a product.
func NewStudio(repo *Repository, store storage.Storage, logger *slog.Logger) *Studio {
	return &Studio{repo: repo, storage: store, logger: logger, now: time.Now}
}

// Profile returns the artist profile of user.
func (s *Studio) Profile(ctx context.Context, user *domain.User) (domain.Artist, error) {
	const op = "catalog.Profile"

	if err := requireArtist(op, user); err != nil {
		return domain.Artist{}, err
	}
	return s.repo.GetArtistByUserID(ctx, user.ID)
}

// SaveProfile creates the artist profile of user or replaces the editable
// fields of the existing one.
func (s *Studio) SaveProfile(ctx context.Context, user *domain.User, in ProfileInput) (domain.Artist, error) {
	const op = "catalog.SaveProfile"

	if err := requireArtist(op, user); err != nil {
		return domain.Artist{}, err
	}
	if strings.TrimSpace(in.Name.EN) == "" {
		return domain.Artist{}, domain.NewValidationError(op, "name", "English name is required")
	}

	created := false
	artist, err := s.repo.GetArtistByUserID(ctx, user.ID)
	switch {
	case errors.Is(err, domain.ErrArtistNotFound):
		artist = domain.Artist{ID: uuid.NewString(), UserID: user.ID, DateAdded: s.now()}
		created = true
	case err != nil:
		return domain.Artist{}, err
	}

	artist.Name = in.Name
	artist.Bio = in.Bio
	artist.Location = in.Location
	artist.ProfilePicture = in.ProfilePicture
	artist.CoverImage = in.CoverImage
	artist.SocialLinks = in.SocialLinks
	artist.Tags = nonNilTags(in.Tags)

	if err := s.repo.PutArtist(ctx, artist); err != nil {
		return domain.Artist{}, err
	}
	s.logger.Info("artist profile saved", "artist_id", artist.ID, "user_id", user.ID, "created", created)
	return s.repo.GetArtistByID(ctx, artist.ID)
}

// CreateProduct lists a new artwork under the artist profile of user.
func (s *Studio) CreateProduct(ctx context.Context, user *domain.User, in ProductInput) (domain.Product, error) {
	const op = "catalog.CreateProduct"

	if err := requireArtist(op, user); err != nil {
		return domain.Product{}, err
	}
	if err := in.validate(op); err != nil {
		return domain.Product{}, err
	}

	artist, err := s.repo.GetArtistByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrArtistNotFound) {
			return domain.Product{}, domain.WithOp(ErrProfileRequired, op, err)
		}
		return domain.Product{}, err
	}

	now := s.now()
	product := domain.Product{
		ID:          uuid.NewString(),
		ArtistID:    artist.ID,
		Images:      []string{},
		DateCreated: now,
	}
	in.applyTo(&product, now)

	if err := s.repo.PutProduct(ctx, product); err != nil {
		return domain.Product{}, err
	}
	s.logger.Info("product created", "product_id", product.ID, "artist_id", artist.ID)
	return s.repo.GetProductByID(ctx, product.ID)
}

// UpdateProduct replaces the editable fields of a product user owns. The
// product moves to the top of the recency order.
func (s *Studio) UpdateProduct(ctx context.Context, user *domain.User, productID string, in ProductInput) (domain.Product, error) {
	const op = "catalog.UpdateProduct"

	product, err := ownedProduct(ctx, s.repo, op, user, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if err := in.validate(op); err != nil {
		return domain.Product{}, err
	}

	in.applyTo(&product, s.now())
	if err := s.repo.PutProduct(ctx, product); err != nil {
		return domain.Product{}, err
	}
	s.logger.Info("product updated", "product_id", product.ID, "artist_id", product.ArtistID)
	return s.repo.GetProductByID(ctx, product.ID)
}

// DeleteProduct removes a product user owns, then the image objects this
// storage issued for it. Image cleanup failures are logged, not returned.
func (s *Studio) DeleteProduct(ctx context.Context, user *domain.User, productID string) error {
	const op = "catalog.DeleteProduct"

	product, err := ownedProduct(ctx, s.repo, op, user, productID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, product.ID); err != nil {
		return err
	}

	prefix := "products/" + product.ID + "/"
	removed := 0
	for _, url := range product.Images {
		key, ok := s.storage.KeyFromURL(url)
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		if err := s.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("failed to delete image object", "key", key, "error", err)
			continue
		}
		removed++
	}

	s.logger.Info("product deleted", "product_id", product.ID, "artist_id", product.ArtistID, "images_removed", removed)
	return nil
}

func (in ProductInput) validate(op string) error {
	ve := &domain.ValidationError{Op: op, Fields: map[string]string{}}
	if strings.TrimSpace(in.Title.EN) == "" {
		ve.Fields["title"] = "English title is required"
	}
	if !in.Price.IsPositive() {
		ve.Fields["price"] = "Price must be greater than zero"
	}
	if in.Currency != "" && in.Currency != domain.CurrencyJOD && in.Currency != domain.CurrencyUSD {
		ve.Fields["currency"] = "Currency must be JOD or USD"
	}
	if !in.Category.Valid() {
		ve.Fields["category"] = "Please choose a category"
	}
	if !in.Medium.Valid() {
		ve.Fields["medium"] = "Please choose a medium"
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		ve.Fields["quantity"] = "Quantity cannot be negative"
	}
	if len(ve.Fields) == 0 {
		return nil
	}
	return ve
}

// applyTo copies the input onto p with the listing defaults: JOD, in stock,
// a single piece and no tags.
func (in ProductInput) applyTo(p *domain.Product, now time.Time) {
	p.Title = in.Title
	p.Description = in.Description
	p.Price = in.Price
	p.Currency = in.Currency
	if p.Currency == "" {
		p.Currency = domain.CurrencyJOD
	}
	p.Category = in.Category
	p.Medium = in.Medium
	p.Dimensions = in.Dimensions
	p.Weight = in.Weight
	p.InStock = in.InStock == nil || *in.InStock
	p.Quantity = in.Quantity
	if p.Quantity == nil {
		one := 1
		p.Quantity = &one
	}
	p.Tags = nonNilTags(in.Tags)
	p.DateAdded = now
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
