package domain

import (
	"time"
)

// Media kind discriminators.
const (
	MediaKindImage    = "image"
	MediaKindVideo    = "video"
	MediaKindDocument = "document"
)

// Media owner types.
const (
	MediaOwnerProductVariant = "product_variant"
	MediaOwnerReview         = "review"
	MediaOwnerUser           = "user"
)

// ValidMediaKinds returns the set of valid media kinds.
func ValidMediaKinds() []string {
	return []string{MediaKindImage, MediaKindVideo, MediaKindDocument}
}

// IsValidMediaKind checks whether the given kind string is valid.
func IsValidMediaKind(kind string) bool {
	for _, k := range ValidMediaKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// IsValidMediaOwnerType checks whether the given owner type is valid.
func IsValidMediaOwnerType(ownerType string) bool {
	switch ownerType {
	case MediaOwnerProductVariant, MediaOwnerReview, MediaOwnerUser:
		return true
	}
	return false
}

// MediaFile represents a stored object attached to a record. StorageKey is the
// persisted storage-relative key; URL is filled in-memory at read time by the
// rewriter and never written back.
type MediaFile struct {
	ID         int64     `json:"id"`
	Kind       string    `json:"kind"`
	OwnerType  string    `json:"owner_type"`
	OwnerID    int64     `json:"owner_id"`
	StorageKey string    `json:"storage_key"`
	URL        string    `json:"url,omitempty"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
