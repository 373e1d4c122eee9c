package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

// MemoryStorage is an in-memory Storage used in development and tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	baseURL string
}

type memoryObject struct {
	contentType string
	data        []byte
}

// NewMemoryStorage creates an in-memory object store. Public URLs are built
// from baseURL, e.g. "http://localhost:8080/media".
func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{
		objects: make(map[string]memoryObject),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload stores the object under the given key, replacing any existing object.
func (s *MemoryStorage) Upload(ctx context.Context, key string, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read object body: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{contentType: contentType, data: data}

	return nil
}

// Delete removes the given keys. Missing keys are not an error; delete is
// idempotent so retried cleanups converge.
func (s *MemoryStorage) Delete(ctx context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.objects, key)
	}
	return nil
}

// PublicURL returns the deterministic public URL for a key.
func (s *MemoryStorage) PublicURL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Get retrieves a stored object. Used by the media serving handler and tests.
func (s *MemoryStorage) Get(key string) (contentType string, data []byte, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return "", nil, apperrors.NotFoundMsg(fmt.Sprintf("object %q not found", key))
	}

	return obj.contentType, obj.data, nil
}

// Len reports the number of stored objects.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
