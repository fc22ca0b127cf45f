package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/law7a/internal/auth"
	"github.com/dukerupert/law7a/internal/billing"
	"github.com/dukerupert/law7a/internal/cart"
	"github.com/dukerupert/law7a/internal/catalog"
	"github.com/dukerupert/law7a/internal/checkout"
	"github.com/dukerupert/law7a/internal/cookie"
	"github.com/dukerupert/law7a/internal/docstore"
	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/identity"
	"github.com/dukerupert/law7a/internal/kv"
	"github.com/dukerupert/law7a/internal/shipping"
	"github.com/dukerupert/law7a/internal/storage"
	"github.com/dukerupert/law7a/internal/visitor"
)

// testEnv wires the storefront handlers over the in-memory stores and the
// seeded demo catalog.
type testEnv struct {
	authorizer *billing.MockAuthorizer
	orders     *checkout.OrderHistory
	identity   *identity.Adapter
	cookies    *cookie.Config

	catalog  *CatalogHandler
	cart     *CartHandler
	checkout *CheckoutHandler
	order    *OrderHandler
	auth     *AuthHandler
	media    *MediaHandler
	studio   *StudioHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	docs := docstore.NewMemory()
	repo := catalog.NewRepository(docs)
	require.NoError(t, catalog.SeedDemo(ctx, repo))
	engine := catalog.NewEngine(docs, catalog.EngineConfig{PageSize: 4, FillPages: true}, logger)
	browsers := visitor.NewRegistry[*catalog.Browser](func(ctx context.Context, key string) (*catalog.Browser, error) {
		return catalog.NewBrowser(engine), nil
	})

	store := kv.NewMemory()
	carts := cart.NewRegistry(store, repo, cart.Options{Logger: logger})

	rates, err := shipping.NewFlatRateProvider(shipping.DefaultRates(), domain.CurrencyJOD)
	require.NoError(t, err)
	authorizer := billing.NewMockAuthorizer()
	orders := checkout.NewOrderHistory(store)
	sessions := checkout.NewRegistry(checkout.Deps{
		Authorizer: authorizer,
		Shipping:   rates,
		Orders:     orders,
		Logger:     logger,
	})

	accounts := identity.NewAdapter(identity.NewLocalProvider(docs, identity.LocalOptions{
		Hasher: auth.NewHasher(bcrypt.MinCost),
		Logger: logger,
	}), logger, nil)

	images, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	cookies := cookie.NewConfig("", false)
	return &testEnv{
		authorizer: authorizer,
		orders:     orders,
		identity:   accounts,
		cookies:    cookies,
		catalog:    NewCatalogHandler(repo, engine, browsers, nil),
		cart:       NewCartHandler(carts),
		checkout:   NewCheckoutHandler(sessions, carts),
		order:      NewOrderHandler(orders),
		auth:       NewAuthHandler(accounts, cookies),
		media:      NewMediaHandler(catalog.NewMedia(repo, images, logger)),
		studio:     NewStudioHandler(catalog.NewStudio(repo, images, logger)),
	}
}

// reqOpt decorates the request context.
type reqOpt func(ctx context.Context) context.Context

func asVisitor(id string) reqOpt {
	return func(ctx context.Context) context.Context {
		return domain.NewContextWithVisitor(ctx, id)
	}
}

func asUser(u *domain.User) reqOpt {
	return func(ctx context.Context) context.Context {
		return domain.NewContextWithUser(ctx, u)
	}
}

func inLanguage(lang domain.Language) reqOpt {
	return func(ctx context.Context) context.Context {
		return domain.NewContextWithLanguage(ctx, lang)
	}
}

// serve runs h for a request to target. body is encoded as JSON unless it is
// already a []byte.
func serve(t *testing.T, h http.HandlerFunc, method, target string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		if _, raw := body.([]byte); !raw {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	ctx := req.Context()
	for _, opt := range opts {
		ctx = opt(ctx)
	}

	rec := httptest.NewRecorder()
	h(rec, req.WithContext(ctx))
	return rec
}

// withPath sets path values the way ServeMux would.
func withPath(h http.HandlerFunc, pairs ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i+1 < len(pairs); i += 2 {
			r.SetPathValue(pairs[i], pairs[i+1])
		}
		h(w, r)
	}
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
	Checkout *checkoutResponse `json:"checkout"`
}

// checkoutResponse mirrors CheckoutView with the step decoded as its name.
type checkoutResponse struct {
	ID          string            `json:"id"`
	Step        string            `json:"step"`
	StepNumber  int               `json:"stepNumber"`
	CardLast4   string            `json:"cardLast4"`
	Shipping    ShippingView      `json:"shipping"`
	Subtotal    Price             `json:"subtotal"`
	Total       Price             `json:"total"`
	Error       string            `json:"error"`
	FieldErrors map[string]string `json:"fieldErrors"`
	Order       *struct {
		ID           string `json:"id"`
		Owner        string `json:"owner"`
		DisplayTotal Price  `json:"displayTotal"`
	} `json:"order"`
}
