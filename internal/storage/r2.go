package storage

import (
	"context"
	"fmt"
)

// R2Config contains configuration for Cloudflare R2 storage.
type R2Config struct {
	AccountID   string
	AccessKeyID string
	SecretKey   string
	BucketName  string
	PublicURL   string
}

// NewR2Storage creates S3-compatible storage pointed at a Cloudflare R2 bucket.
func NewR2Storage(ctx context.Context, cfg R2Config) (*S3Storage, error) {
	if cfg.AccountID == "" {
		return nil, ErrR2AccountIDRequired
	}
	if cfg.AccessKeyID == "" || cfg.SecretKey == "" {
		return nil, ErrCredentialsRequired
	}
	if cfg.BucketName == "" {
		return nil, ErrBucketRequired
	}

	return NewS3Storage(ctx, S3Config{
		Region:      "auto",
		Endpoint:    fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID),
		AccessKeyID: cfg.AccessKeyID,
		SecretKey:   cfg.SecretKey,
		BucketName:  cfg.BucketName,
		PublicURL:   cfg.PublicURL,
		PathStyle:   true,
	})
}
