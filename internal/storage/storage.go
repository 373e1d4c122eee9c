package storage

import (
	"context"
	"io"
)

// Storage abstracts the object store that holds media files. PublicURL must
// be deterministic for a given key so reads can rebuild URLs without touching
// the store.
type Storage interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) error
	Delete(ctx context.Context, keys []string) error
	PublicURL(key string) string
}
