package storefront

import (
	"net/http"

	"github.com/dukerupert/law7a/internal/domain"
)

var errNoVisitor = &domain.Error{Code: domain.EINVALID, Message: "Visitor session missing"}

// language returns the display language negotiated by middleware.
func language(r *http.Request) domain.Language {
	return domain.LanguageFromContext(r.Context())
}

// visitorKey returns the visitor session that keys the cart, checkout and
// browse state. The visitor middleware always sets one.
func visitorKey(r *http.Request) (string, error) {
	key := domain.VisitorFromContext(r.Context())
	if key == "" {
		return "", domain.WithOp(errNoVisitor, "storefront.visitorKey", nil)
	}
	return key, nil
}

// owner returns the key that order history is stored under.
func owner(r *http.Request) (string, error) {
	key := domain.OwnerFromContext(r.Context())
	if key == "" {
		return "", domain.WithOp(errNoVisitor, "storefront.owner", nil)
	}
	return key, nil
}
