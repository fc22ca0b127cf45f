package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/storage"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newMediaFixture(t *testing.T) (*Media, *storage.LocalStorage) {
	t.Helper()
	repo := seedProducts(t, newProduct(1, "Sunset"))
	require.NoError(t, repo.PutArtist(context.Background(), domain.Artist{ID: "artist1", UserID: "u-artist"}))

	local, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMedia(repo, local, logger), local
}

func TestMedia_UploadAndDelete(t *testing.T) {
	media, local := newMediaFixture(t)
	ctx := context.Background()
	owner := &domain.User{ID: "u-artist", IsArtist: true}

	product, err := media.UploadProductImage(ctx, owner, "p001", pngHeader)
	require.NoError(t, err)
	require.Len(t, product.Images, 1)
	url := product.Images[0]
	assert.Regexp(t, `^/uploads/products/p001/[0-9a-f-]+\.png$`, url)

	key, ok := local.KeyFromURL(url)
	require.True(t, ok)
	exists, err := local.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	product, err = media.DeleteProductImage(ctx, owner, "p001", url)
	require.NoError(t, err)
	assert.Empty(t, product.Images)

	exists, err = local.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = media.DeleteProductImage(ctx, owner, "p001", url)
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestMedia_Authorization(t *testing.T) {
	media, _ := newMediaFixture(t)
	ctx := context.Background()

	_, err := media.UploadProductImage(ctx, nil, "p001", pngHeader)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, err = media.UploadProductImage(ctx, &domain.User{ID: "buyer"}, "p001", pngHeader)
	assert.ErrorIs(t, err, domain.ErrArtistOnly)

	_, err = media.UploadProductImage(ctx, &domain.User{ID: "someone-else", IsArtist: true}, "p001", pngHeader)
	assert.ErrorIs(t, err, ErrNotProductOwner)
}

func TestMedia_RejectsNonImages(t *testing.T) {
	media, _ := newMediaFixture(t)
	owner := &domain.User{ID: "u-artist", IsArtist: true}

	_, err := media.UploadProductImage(context.Background(), owner, "p001", []byte("just some text"))
	assert.ErrorIs(t, err, ErrImageType)

	big := make([]byte, MaxImageBytes+1)
	copy(big, pngHeader)
	_, err = media.UploadProductImage(context.Background(), owner, "p001", big)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}
