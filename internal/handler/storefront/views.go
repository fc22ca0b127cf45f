package storefront

import (
	"github.com/shopspring/decimal"

	"github.com/dukerupert/law7a/internal/catalog"
	"github.com/dukerupert/law7a/internal/checkout"
	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/money"
)

// =============================================================================
// RESPONSE VIEWS
// =============================================================================
//
// Views wrap domain values with what a client needs to display them in the
// request language: amounts as fixed two-digit strings next to a formatted
// rendition, and the matching side of every TranslatedText.

// Price is an amount on the wire.
type Price struct {
	Amount    string          `json:"amount"`
	Currency  domain.Currency `json:"currency"`
	Formatted string          `json:"formatted"`
}

func newPrice(amount decimal.Decimal, cur domain.Currency, lang domain.Language) Price {
	if cur == "" {
		cur = domain.CurrencyJOD
	}
	return Price{
		Amount:    money.String(amount),
		Currency:  cur,
		Formatted: money.Format(amount, cur, lang),
	}
}

// ProductView is a product with localized display fields.
type ProductView struct {
	domain.Product
	DisplayTitle       string `json:"displayTitle"`
	DisplayDescription string `json:"displayDescription"`
	DisplayPrice       Price  `json:"displayPrice"`
	PrimaryImage       string `json:"primaryImage,omitempty"`
}

func newProductView(p domain.Product, lang domain.Language) ProductView {
	return ProductView{
		Product:            p,
		DisplayTitle:       money.Localized(p.Title, lang),
		DisplayDescription: money.Localized(p.Description, lang),
		DisplayPrice:       newPrice(p.Price, p.Currency, lang),
		PrimaryImage:       p.PrimaryImage(),
	}
}

func newProductViews(products []domain.Product, lang domain.Language) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p, lang))
	}
	return views
}

// ArtistView is an artist with localized display fields.
type ArtistView struct {
	domain.Artist
	DisplayName     string `json:"displayName"`
	DisplayBio      string `json:"displayBio"`
	DisplayLocation string `json:"displayLocation"`
}

func newArtistView(a domain.Artist, lang domain.Language) ArtistView {
	return ArtistView{
		Artist:          a,
		DisplayName:     money.Localized(a.Name, lang),
		DisplayBio:      money.Localized(a.Bio, lang),
		DisplayLocation: money.Localized(a.Location, lang),
	}
}

func newArtistViews(artists []domain.Artist, lang domain.Language) []ArtistView {
	views := make([]ArtistView, 0, len(artists))
	for _, a := range artists {
		views = append(views, newArtistView(a, lang))
	}
	return views
}

// SearchView is one page of search results.
type SearchView struct {
	Kind       catalog.Kind  `json:"kind"`
	Products   []ProductView `json:"products,omitempty"`
	Artists    []ArtistView  `json:"artists,omitempty"`
	NextCursor string        `json:"nextCursor,omitempty"`
	HasMore    bool          `json:"hasMore"`
}

func newBrowserView(st catalog.BrowserState, lang domain.Language) SearchView {
	view := SearchView{Kind: st.Kind, NextCursor: st.NextCursor, HasMore: st.HasMore}
	if st.Kind == catalog.KindArtists {
		view.Artists = newArtistViews(st.Artists, lang)
	} else {
		view.Products = newProductViews(st.Products, lang)
	}
	return view
}

// CartItemView is one cart line.
type CartItemView struct {
	ProductID string      `json:"productId"`
	Quantity  int         `json:"quantity"`
	Product   ProductView `json:"product"`
	LineTotal Price       `json:"lineTotal"`
}

func newCartItemViews(items []domain.CartItem, lang domain.Language) []CartItemView {
	views := make([]CartItemView, 0, len(items))
	for _, item := range items {
		views = append(views, CartItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   newProductView(item.Product, lang),
			LineTotal: newPrice(item.LineTotal(), item.Product.Currency, lang),
		})
	}
	return views
}

// CartView is the cart with its derived totals.
type CartView struct {
	Items []CartItemView `json:"items"`
	Count int            `json:"count"`
	Total Price          `json:"total"`
}

func newCartView(s domain.CartSummary, lang domain.Language) CartView {
	return CartView{
		Items: newCartItemViews(s.Items, lang),
		Count: s.Count,
		Total: newPrice(s.Total, s.Currency(), lang),
	}
}

// ShippingView is a delivery option.
type ShippingView struct {
	Method           string `json:"method"`
	Name             string `json:"name"`
	Cost             Price  `json:"cost"`
	EstimatedDaysMin int    `json:"estimatedDaysMin"`
	EstimatedDaysMax int    `json:"estimatedDaysMax"`
}

// OrderView is a placed order.
type OrderView struct {
	domain.Order
	DisplaySubtotal Price          `json:"displaySubtotal"`
	DisplayShipping Price          `json:"displayShipping"`
	DisplayTotal    Price          `json:"displayTotal"`
	Lines           []CartItemView `json:"lines"`
}

func newOrderView(o domain.Order, lang domain.Language) OrderView {
	return OrderView{
		Order:           o,
		DisplaySubtotal: newPrice(o.Subtotal, o.Currency, lang),
		DisplayShipping: newPrice(o.Shipping.Cost, o.Currency, lang),
		DisplayTotal:    newPrice(o.Total, o.Currency, lang),
		Lines:           newCartItemViews(o.Items, lang),
	}
}

// CheckoutView is the checkout session as the client renders it.
type CheckoutView struct {
	ID           string             `json:"id"`
	Step         checkout.Step      `json:"step"`
	StepNumber   int                `json:"stepNumber"`
	Billing      domain.BillingInfo `json:"billing"`
	CardLast4    string             `json:"cardLast4,omitempty"`
	CardName     string             `json:"cardName,omitempty"`
	Shipping     ShippingView       `json:"shipping"`
	Items        []CartItemView     `json:"items"`
	Subtotal     Price              `json:"subtotal"`
	Total        Price              `json:"total"`
	Error        string             `json:"error,omitempty"`
	FieldErrors  map[string]string  `json:"fieldErrors,omitempty"`
	IsSubmitting bool               `json:"isSubmitting"`
	Order        *OrderView         `json:"order,omitempty"`
}

func newCheckoutView(st checkout.State, lang domain.Language) CheckoutView {
	view := CheckoutView{
		ID:         st.ID,
		Step:       st.Step,
		StepNumber: int(st.Step),
		Billing:    st.Billing,
		CardLast4:  st.CardLast4,
		CardName:   st.CardName,
		Shipping: ShippingView{
			Method:           st.Shipping.Method,
			Name:             money.Localized(st.Shipping.Name, lang),
			Cost:             newPrice(st.Shipping.Cost, st.Shipping.Currency, lang),
			EstimatedDaysMin: st.Shipping.EstimatedDaysMin,
			EstimatedDaysMax: st.Shipping.EstimatedDaysMax,
		},
		Items:        newCartItemViews(st.Items, lang),
		Subtotal:     newPrice(st.Subtotal, st.Currency, lang),
		Total:        newPrice(st.Total, st.Currency, lang),
		Error:        st.Error,
		FieldErrors:  st.FieldErrors,
		IsSubmitting: st.IsSubmitting,
	}
	if st.Order != nil {
		order := newOrderView(*st.Order, lang)
		view.Order = &order
	}
	return view
}
