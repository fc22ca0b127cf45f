package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/law7a/internal/auth"
	"github.com/dukerupert/law7a/internal/docstore"
	"github.com/dukerupert/law7a/internal/domain"
)

// Collections used by LocalProvider.
const (
	UsersCollection    = "users"
	EmailsCollection   = "user_emails"
	SessionsCollection = "sessions"
)

// DefaultSessionTTL is how long a login lasts.
const DefaultSessionTTL = 30 * 24 * time.Hour

// account is the stored user document.
type account struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	IsArtist       bool      `json:"isArtist"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	PasswordHash   string    `json:"passwordHash"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (a account) user() domain.User {
	return domain.User{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		IsArtist:       a.IsArtist,
		ProfilePicture: a.ProfilePicture,
	}
}

type emailIndex struct {
	UserID string `json:"userId"`
}

type sessionDoc struct {
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LocalProvider keeps accounts and sessions in the document store.
type LocalProvider struct {
	store  docstore.Store
	hasher *auth.Hasher
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	// mu serializes registrations so an email is claimed once.
	mu sync.Mutex
}

// LocalOptions configures a LocalProvider.
type LocalOptions struct {
	Hasher     *auth.Hasher
	SessionTTL time.Duration
	Logger     *slog.Logger
}

// NewLocalProvider creates a LocalProvider over store.
func NewLocalProvider(store docstore.Store, opts LocalOptions) *LocalProvider {
	p := &LocalProvider{
		store:  store,
		hasher: opts.Hasher,
		ttl:    opts.SessionTTL,
		logger: opts.Logger,
		now:    time.Now,
	}
	if p.hasher == nil {
		p.hasher = auth.NewHasher(auth.DefaultCost)
	}
	if p.ttl <= 0 {
		p.ttl = DefaultSessionTTL
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Compile-time check to ensure LocalProvider implements Provider.
var _ Provider = (*LocalProvider)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account.
func (p *LocalProvider) Register(ctx context.Context, email, password string, profile domain.Profile) (string, error) {
	const op = "identity.Register"

	email = normalizeEmail(email)
	hash, err := p.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) || errors.Is(err, auth.ErrPasswordTooLong) {
			return "", domain.NewValidationError(op, "password", passwordMessage(err))
		}
		return "", domain.Internal(err, op, "failed to hash password")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	_, err = p.store.Get(ctx, EmailsCollection, email)
	if err == nil {
		return "", domain.WithOp(domain.ErrEmailTaken, op, nil)
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return "", domain.Internal(err, op, "failed to check email")
	}

	acct := account{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(profile.Name),
		Email:        email,
		IsArtist:     profile.IsArtist,
		PasswordHash: hash,
		CreatedAt:    p.now().UTC(),
	}
	if err := p.store.Put(ctx, UsersCollection, acct.ID, acct); err != nil {
		return "", domain.Internal(err, op, "failed to save account")
	}
	if err := p.store.Put(ctx, EmailsCollection, email, emailIndex{UserID: acct.ID}); err != nil {
		if delErr := p.store.Delete(ctx, UsersCollection, acct.ID); delErr != nil {
			p.logger.Error("failed to roll back account", "user_id", acct.ID, "error", delErr)
		}
		return "", domain.Internal(err, op, "failed to save account")
	}

	p.logger.Info("account registered", "user_id", acct.ID, "artist", acct.IsArtist)
	return acct.ID, nil
}

// Login checks credentials and opens a session.
func (p *LocalProvider) Login(ctx context.Context, email, password string) (domain.Session, error) {
	const op = "identity.Login"

	acct, err := p.accountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.Session{}, domain.WithOp(domain.ErrInvalidCredentials, op, nil)
		}
		return domain.Session{}, domain.Internal(err, op, "failed to load account")
	}

	if err := p.hasher.Verify(password, acct.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return domain.Session{}, domain.WithOp(domain.ErrInvalidCredentials, op, nil)
		}
		return domain.Session{}, domain.Internal(err, op, "failed to verify password")
	}

	token, err := auth.GenerateToken()
	if err != nil {
		return domain.Session{}, domain.Internal(err, op, "failed to create session")
	}
	expires := p.now().Add(p.ttl).UTC()
	if err := p.store.Put(ctx, SessionsCollection, token, sessionDoc{UserID: acct.ID, ExpiresAt: expires}); err != nil {
		return domain.Session{}, domain.Internal(err, op, "failed to create session")
	}

	return domain.Session{Token: token, User: acct.user(), ExpiresAt: expires}, nil
}

// Logout deletes the session.
func (p *LocalProvider) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := p.store.Delete(ctx, SessionsCollection, token); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return domain.Internal(err, "identity.Logout", "failed to end session")
	}
	return nil
}

// Lookup resolves a session token. Expired sessions are deleted.
func (p *LocalProvider) Lookup(ctx context.Context, token string) (domain.User, error) {
	const op = "identity.Lookup"

	if token == "" {
		return domain.User{}, domain.WithOp(domain.ErrNotAuthenticated, op, nil)
	}
	doc, err := p.store.Get(ctx, SessionsCollection, token)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.User{}, domain.WithOp(domain.ErrNotAuthenticated, op, nil)
		}
		return domain.User{}, domain.Internal(err, op, "failed to load session")
	}

	var sess sessionDoc
	if err := doc.Decode(&sess); err != nil {
		return domain.User{}, domain.Internal(err, op, "failed to decode session")
	}
	if !p.now().Before(sess.ExpiresAt) {
		if err := p.store.Delete(ctx, SessionsCollection, token); err != nil {
			p.logger.Warn("failed to delete expired session", "error", err)
		}
		return domain.User{}, domain.WithOp(domain.ErrSessionExpired, op, nil)
	}

	acct, err := p.account(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.User{}, domain.WithOp(domain.ErrNotAuthenticated, op, err)
		}
		return domain.User{}, domain.Internal(err, op, "failed to load account")
	}
	return acct.user(), nil
}

// PurgeExpired deletes sessions whose expiry has passed and returns how many
// were removed. Lookup already drops an expired session it meets; this
// catches the ones never presented again.
func (p *LocalProvider) PurgeExpired(ctx context.Context) (int, error) {
	const op = "identity.PurgeExpired"

	now := p.now()
	removed := 0
	q := docstore.Query{Limit: 200}
	for {
		page, err := p.store.Query(ctx, SessionsCollection, q)
		if err != nil {
			return removed, domain.Internal(err, op, "failed to list sessions")
		}
		for _, doc := range page.Docs {
			var sess sessionDoc
			if err := doc.Decode(&sess); err != nil {
				p.logger.Warn("skipping undecodable session", "error", err)
				continue
			}
			if now.Before(sess.ExpiresAt) {
				continue
			}
			if err := p.store.Delete(ctx, SessionsCollection, doc.ID); err != nil && !errors.Is(err, docstore.ErrNotFound) {
				return removed, domain.Internal(err, op, "failed to delete session")
			}
			removed++
		}
		if len(page.Docs) < q.Limit {
			return removed, nil
		}
		q.Cursor = page.Cursor
	}
}

func (p *LocalProvider) accountByEmail(ctx context.Context, email string) (account, error) {
	doc, err := p.store.Get(ctx, EmailsCollection, email)
	if err != nil {
		return account{}, err
	}
	var idx emailIndex
	if err := doc.Decode(&idx); err != nil {
		return account{}, err
	}
	return p.account(ctx, idx.UserID)
}

func (p *LocalProvider) account(ctx context.Context, id string) (account, error) {
	doc, err := p.store.Get(ctx, UsersCollection, id)
	if err != nil {
		return account{}, err
	}
	var acct account
	if err := doc.Decode(&acct); err != nil {
		return account{}, err
	}
	return acct, nil
}

func passwordMessage(err error) string {
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "Password must be at most 72 characters"
	}
	return "Password must be at least 6 characters"
}
