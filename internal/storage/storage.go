package storage

import (
	"context"
	"io"
	"io/fs"
	"strings"

	"github.com/dukerupert/law7a/internal"
)

// Storage defines the interface for media storage operations.
// Implementations can use the local filesystem or any S3-compatible backend.
type Storage interface {
	// Put stores an object and returns its public URL.
	// The key is a slash-separated path (e.g., "products/p1/3f2a.jpg").
	Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error)

	// Get retrieves an object by its key.
	// Returns an io.ReadCloser that must be closed by the caller.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object by its key.
	// Returns nil if the object doesn't exist (idempotent).
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for a stored object.
	URL(key string) string

	// KeyFromURL reverses URL. ok is false for URLs this storage did not issue.
	KeyFromURL(url string) (key string, ok bool)

	// Exists checks if an object exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
}

// NewStorage creates a Storage implementation based on configuration.
func NewStorage(ctx context.Context, cfg internal.StorageConfig) (Storage, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalStorage(cfg.LocalPath, cfg.LocalURL)
	case "r2":
		return NewR2Storage(ctx, R2Config{
			AccountID:   cfg.R2AccountID,
			AccessKeyID: cfg.R2AccessKeyID,
			SecretKey:   cfg.R2SecretKey,
			BucketName:  cfg.R2BucketName,
			PublicURL:   cfg.R2PublicURL,
		})
	case "s3":
		return NewS3Storage(ctx, S3Config{
			Region:      cfg.S3Region,
			Endpoint:    cfg.S3Endpoint,
			AccessKeyID: cfg.R2AccessKeyID,
			SecretKey:   cfg.R2SecretKey,
			BucketName:  cfg.R2BucketName,
			PublicURL:   cfg.R2PublicURL,
		})
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}

// validateKey rejects empty, absolute and parent-relative keys.
func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || !fs.ValidPath(key) {
		return ErrInvalidKey(key)
	}
	return nil
}

// trimPrefix returns url with prefix + "/" removed.
func trimPrefix(url, prefix string) (string, bool) {
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if validateKey(key) != nil {
		return "", false
	}
	return key, true
}
