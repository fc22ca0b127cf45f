package storage

import (
	"fmt"

	"github.com/dukerupert/law7a/internal/domain"
)

// Configuration errors.
var (
	ErrR2AccountIDRequired = &domain.Error{Code: domain.EINVALID, Message: "R2 account ID is required"}
	ErrCredentialsRequired = &domain.Error{Code: domain.EINVALID, Message: "storage credentials are required"}
	ErrBucketRequired      = &domain.Error{Code: domain.EINVALID, Message: "storage bucket name is required"}
	ErrS3RegionRequired    = &domain.Error{Code: domain.EINVALID, Message: "S3 region is required"}
)

// ErrFileNotFound creates an error for when an object is not found.
func ErrFileNotFound(key string) error {
	return &domain.Error{
		Code:    domain.ENOTFOUND,
		Op:      "storage.Get",
		Message: fmt.Sprintf("file not found: %s", key),
	}
}

// ErrInvalidKey creates an error for keys that would escape the storage root.
func ErrInvalidKey(key string) error {
	return &domain.Error{
		Code:    domain.EINVALID,
		Op:      "storage.key",
		Message: fmt.Sprintf("invalid storage key: %q", key),
	}
}

// ErrUnknownProvider creates an error for unknown storage providers.
func ErrUnknownProvider(provider string) error {
	return &domain.Error{
		Code:    domain.EINVALID,
		Op:      "storage.NewStorage",
		Message: fmt.Sprintf("unknown storage provider: %s", provider),
	}
}
