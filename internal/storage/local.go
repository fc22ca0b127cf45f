package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// LocalStorage keeps artwork images on disk under dir and serves them from
// urlPrefix. The routes package mounts dir at urlPrefix when the local provider
// is configured.
type LocalStorage struct {
	dir       string
	urlPrefix string
}

// NewLocalStorage creates dir if needed.
func NewLocalStorage(dir, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir, urlPrefix: urlPrefix}, nil
}

// resolve maps a validated key to its file under dir.
func (s *LocalStorage) resolve(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, filepath.FromSlash(key)), nil
}

// Put replaces the image at key in one rename, so a product page never
// renders a half-written file. contentType is implied by the key's extension.
func (s *LocalStorage) Put(ctx context.Context, key string, content io.Reader, _ string) (string, error) {
	file, err := s.resolve(ctx, key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	if err := atomic.WriteFile(file, content); err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return s.URL(key), nil
}

func (s *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	file, err := s.resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, ErrFileNotFound(key)
	case err != nil:
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return f, nil
}

// Delete is a no-op for missing keys.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	file, err := s.resolve(ctx, key)
	if err != nil {
		return err
	}
	err = os.Remove(file)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("delete %s: %w", key, err)
}

func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	file, err := s.resolve(ctx, key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(file)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
}

func (s *LocalStorage) URL(key string) string {
	return path.Join(s.urlPrefix, key)
}

func (s *LocalStorage) KeyFromURL(url string) (string, bool) {
	return trimPrefix(url, s.urlPrefix)
}
