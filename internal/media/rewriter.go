package media

import (
	"context"
	"log/slog"
	"strings"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/storage"
)

// Rewriter fills in public URLs on media records at read time. Rewriting is
// idempotent: values that are already absolute URLs pass through untouched,
// so a record can be rewritten any number of times. A record that cannot be
// rewritten is skipped and logged, never failing the read that triggered it.
type Rewriter struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewRewriter creates a media URL rewriter.
func NewRewriter(st storage.Storage, logger *slog.Logger) *Rewriter {
	return &Rewriter{storage: st, logger: logger}
}

// Rewrite sets URL from StorageKey on each media file in place.
func (rw *Rewriter) Rewrite(ctx context.Context, files []domain.MediaFile) {
	for i := range files {
		files[i].URL = rw.rewriteOne(ctx, files[i].StorageKey, files[i].URL, files[i].ID)
	}
}

// RewriteURL resolves a single storage key or pre-resolved URL. An empty key
// yields an empty URL.
func (rw *Rewriter) RewriteURL(ctx context.Context, keyOrURL string) string {
	return rw.rewriteOne(ctx, keyOrURL, "", 0)
}

func (rw *Rewriter) rewriteOne(ctx context.Context, key, existing string, id int64) string {
	if isAbsoluteURL(existing) {
		return existing
	}
	if isAbsoluteURL(key) {
		return key
	}
	if key == "" {
		return ""
	}

	url := rw.storage.PublicURL(key)
	if url == "" {
		rw.logger.WarnContext(ctx, "media url rewrite skipped",
			slog.Int64("media_id", id),
			slog.String("storage_key", key),
		)
		return ""
	}

	return url
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
