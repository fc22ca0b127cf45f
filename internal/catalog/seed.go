package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/law7a/internal/domain"
)

// demoArtists and demoProducts populate the in-memory document store so the
// server is browsable without a database.
var demoArtists = []domain.Artist{
	{
		ID:       "artist1",
		UserID:   "demo-user-1",
		Name:     domain.TranslatedText{EN: "Layla Ibrahim", AR: "ليلى إبراهيم"},
		Bio:      domain.TranslatedText{EN: "Abstract painter working from Amman.", AR: "رسامة تجريدية من عمان."},
		Location: domain.TranslatedText{EN: "Amman, Jordan", AR: "عمان، الأردن"},
		Tags:     []string{"abstract", "landscape"},
		Featured: true,
	},
	{
		ID:       "artist2",
		UserID:   "demo-user-2",
		Name:     domain.TranslatedText{EN: "Omar Nasser", AR: "عمر ناصر"},
		Bio:      domain.TranslatedText{EN: "Calligrapher mixing classical scripts with modern layouts.", AR: "خطاط يمزج الخطوط الكلاسيكية بالتصميم الحديث."},
		Location: domain.TranslatedText{EN: "Irbid, Jordan", AR: "إربد، الأردن"},
		Tags:     []string{"calligraphy", "arabic"},
		Featured: true,
	},
	{
		ID:       "artist3",
		UserID:   "demo-user-3",
		Name:     domain.TranslatedText{EN: "Haya Al-Qasem", AR: "هيا القاسم"},
		Bio:      domain.TranslatedText{EN: "Potter shaping everyday ceramics.", AR: "خزافة تصنع أواني يومية."},
		Location: domain.TranslatedText{EN: "Zarqa, Jordan", AR: "الزرقاء، الأردن"},
		Tags:     []string{"pottery", "heritage"},
	},
}

type demoProduct struct {
	artist   string
	en, ar   string
	price    string
	category domain.Category
	medium   domain.Medium
	tags     []string
}

var demoProducts = []demoProduct{
	{"artist1", "Desert Sunset", "غروب الصحراء", "350", domain.CategoryPainting, domain.MediumOil, []string{"desert", "sunset"}},
	{"artist1", "Olive Grove", "بستان الزيتون", "280", domain.CategoryPainting, domain.MediumAcrylic, []string{"olive", "landscape"}},
	{"artist1", "Wadi Rum at Dawn", "وادي رم عند الفجر", "420", domain.CategoryPainting, domain.MediumWatercolor, []string{"desert", "dawn"}},
	{"artist1", "Dead Sea Blues", "أزرق البحر الميت", "190", domain.CategoryDigital, domain.MediumDigital, []string{"sea", "print"}},
	{"artist2", "Bismillah in Thuluth", "البسملة بخط الثلث", "150", domain.CategoryCalligraphy, domain.MediumPaper, []string{"thuluth", "ink"}},
	{"artist2", "Kufic Square", "الكوفي المربع", "220", domain.CategoryCalligraphy, domain.MediumMixedMedia, []string{"kufic", "geometry"}},
	{"artist2", "Diwani Love Letter", "رسالة بالديواني", "95", domain.CategoryCalligraphy, domain.MediumPaper, []string{"diwani"}},
	{"artist2", "Brass Verse Plate", "لوحة نحاسية", "310", domain.CategorySculpture, domain.MediumMetal, []string{"brass", "verse"}},
	{"artist3", "Jerash Serving Bowl", "وعاء جرش", "65", domain.CategoryPottery, domain.MediumCeramic, []string{"bowl", "kitchen"}},
	{"artist3", "Salt Jar", "جرة الملح", "40", domain.CategoryPottery, domain.MediumClay, []string{"jar"}},
	{"artist3", "Blue Glaze Vase", "مزهرية زرقاء", "120", domain.CategoryPottery, domain.MediumCeramic, []string{"vase", "glaze"}},
	{"artist3", "Hebron Glass Beads", "خرز زجاج الخليل", "55", domain.CategoryJewelry, domain.MediumGlass, []string{"beads", "necklace"}},
	{"artist3", "Embroidered Runner", "مفرش مطرز", "85", domain.CategoryTextile, domain.MediumFabric, []string{"tatreez"}},
	{"artist1", "Petra by Night", "البتراء ليلاً", "260", domain.CategoryPhotography, domain.MediumDigital, []string{"petra", "night"}},
}

// SeedDemo writes the demo artists and products. Newer entries get later
// DateAdded values so the listing order is stable.
func SeedDemo(ctx context.Context, repo *Repository) error {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	for i, a := range demoArtists {
		a.DateAdded = base.Add(time.Duration(i) * time.Hour)
		if err := repo.PutArtist(ctx, a); err != nil {
			return fmt.Errorf("seed artist %s: %w", a.ID, err)
		}
	}

	for i, d := range demoProducts {
		added := base.Add(time.Duration(i+1) * 24 * time.Hour)
		p := domain.Product{
			ID:          fmt.Sprintf("product%d", i+1),
			ArtistID:    d.artist,
			Title:       domain.TranslatedText{EN: d.en, AR: d.ar},
			Description: domain.TranslatedText{EN: d.en + " by a Jordanian artist.", AR: d.ar + " لفنان أردني."},
			Price:       decimal.RequireFromString(d.price),
			Currency:    domain.CurrencyJOD,
			Images:      []string{},
			Category:    d.category,
			Medium:      d.medium,
			InStock:     true,
			Tags:        d.tags,
			DateCreated: added,
			DateAdded:   added,
		}
		if err := repo.PutProduct(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	return nil
}
