package media

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/storage"
)

func newTestRewriter(baseURL string) *Rewriter {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRewriter(storage.NewMemoryStorage(baseURL), logger)
}

func TestRewriteURL_ResolvesKey(t *testing.T) {
	rw := newTestRewriter("http://cdn.test/media")

	url := rw.RewriteURL(context.Background(), "product_variant/5/front.jpg")
	assert.Equal(t, "http://cdn.test/media/product_variant/5/front.jpg", url)
}

func TestRewriteURL_AbsoluteURLPassesThrough(t *testing.T) {
	rw := newTestRewriter("http://cdn.test/media")

	for _, url := range []string{
		"http://elsewhere.test/a.jpg",
		"https://elsewhere.test/a.jpg",
	} {
		assert.Equal(t, url, rw.RewriteURL(context.Background(), url))
	}
}

func TestRewriteURL_EmptyKey(t *testing.T) {
	rw := newTestRewriter("http://cdn.test/media")

	assert.Empty(t, rw.RewriteURL(context.Background(), ""))
}

func TestRewrite_SetsURLsInPlace(t *testing.T) {
	rw := newTestRewriter("http://cdn.test/media")

	files := []domain.MediaFile{
		{ID: 1, StorageKey: "product_variant/5/front.jpg"},
		{ID: 2, StorageKey: "product_variant/5/back.jpg", URL: "https://already.test/b.jpg"},
		{ID: 3, StorageKey: ""},
	}

	rw.Rewrite(context.Background(), files)

	assert.Equal(t, "http://cdn.test/media/product_variant/5/front.jpg", files[0].URL)
	assert.Equal(t, "https://already.test/b.jpg", files[1].URL)
	assert.Empty(t, files[2].URL)
}

func TestRewrite_Idempotent(t *testing.T) {
	rw := newTestRewriter("http://cdn.test/media")

	files := []domain.MediaFile{{ID: 1, StorageKey: "product_variant/5/front.jpg"}}

	rw.Rewrite(context.Background(), files)
	first := files[0].URL
	rw.Rewrite(context.Background(), files)

	assert.Equal(t, first, files[0].URL)
}
