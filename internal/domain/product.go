package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CATALOG DOMAIN TYPES
// =============================================================================

// Language selects one side of a TranslatedText.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// TranslatedText holds the English and Arabic renditions of a piece of copy.
type TranslatedText struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

// In returns the text for lang, falling back to English.
func (t TranslatedText) In(lang Language) string {
	if lang == LanguageArabic && t.AR != "" {
		return t.AR
	}
	return t.EN
}

// Currency is the ISO code a product is priced in.
type Currency string

const (
	CurrencyJOD Currency = "JOD"
	CurrencyUSD Currency = "USD"
)

// Category classifies what kind of artwork a product is.
type Category string

const (
	CategoryPainting    Category = "painting"
	CategoryPottery     Category = "pottery"
	CategoryCalligraphy Category = "calligraphy"
	CategoryDigital     Category = "digital"
	CategorySculpture   Category = "sculpture"
	CategoryJewelry     Category = "jewelry"
	CategoryPhotography Category = "photography"
	CategoryTextile     Category = "textile"
	CategoryOther       Category = "other"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryPainting, CategoryPottery, CategoryCalligraphy, CategoryDigital, CategorySculpture,
	CategoryJewelry, CategoryPhotography, CategoryTextile, CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Medium is the material or technique an artwork uses.
type Medium string

const (
	MediumOil         Medium = "oil"
	MediumAcrylic     Medium = "acrylic"
	MediumWatercolor  Medium = "watercolor"
	MediumMixedMedia  Medium = "mixed_media"
	MediumCeramic     Medium = "ceramic"
	MediumWood        Medium = "wood"
	MediumMetal       Medium = "metal"
	MediumDigital     Medium = "digital"
	MediumClay        Medium = "clay"
	MediumGlass       Medium = "glass"
	MediumFabric      Medium = "fabric"
	MediumPaper       Medium = "paper"
	MediumOther       Medium = "other"
)

// Mediums lists every known medium in display order.
var Mediums = []Medium{
	MediumOil, MediumAcrylic, MediumWatercolor, MediumMixedMedia, MediumCeramic, MediumWood,
	MediumMetal, MediumDigital, MediumClay, MediumGlass, MediumFabric, MediumPaper, MediumOther,
}

// Valid reports whether m is a known medium.
func (m Medium) Valid() bool {
	for _, known := range Mediums {
		if m == known {
			return true
		}
	}
	return false
}

// Dimensions describes the physical size of an artwork.
type Dimensions struct {
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Depth  *float64 `json:"depth,omitempty"`
	Unit   string   `json:"unit"` // "cm" or "in"
}

// Weight describes the shipping weight of an artwork.
type Weight struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"` // "kg", "g", "lb" or "oz"
}

// Product is an artwork listed for sale.
// The cart and checkout only ever read products.
type Product struct {
	ID          string          `json:"id"`
	ArtistID    string          `json:"artistId"`
	Title       TranslatedText  `json:"title"`
	Description TranslatedText  `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    Currency        `json:"currency"`
	Images      []string        `json:"images"`
	Category    Category        `json:"category"`
	Medium      Medium          `json:"medium"`
	Dimensions  *Dimensions     `json:"dimensions,omitempty"`
	Weight      *Weight         `json:"weight,omitempty"`
	InStock     bool            `json:"inStock"`
	// Quantity is the remaining stock; nil means unlimited.
	Quantity    *int      `json:"quantity,omitempty"`
	Featured    bool      `json:"featured"`
	Tags        []string  `json:"tags"`
	DateCreated time.Time `json:"dateCreated"`
	DateAdded   time.Time `json:"dateAdded"`
}

// PrimaryImage returns the first image URL, or "" when the product has none.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// SocialLinks are an artist's external profiles.
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Website   string `json:"website,omitempty"`
}

// Artist is the public profile of a seller.
type Artist struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	Name           TranslatedText `json:"name"`
	Bio            TranslatedText `json:"bio"`
	ProfilePicture string         `json:"profilePicture"`
	CoverImage     string         `json:"coverImage,omitempty"`
	Location       TranslatedText `json:"location"`
	SocialLinks    SocialLinks    `json:"socialLinks"`
	Tags           []string       `json:"tags"`
	Featured       bool           `json:"featured"`
	DateAdded      time.Time      `json:"dateAdded"`
}

// Catalog errors.
var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrArtistNotFound  = &Error{Code: ENOTFOUND, Message: "Artist not found"}
)
