package domain

import (
	"time"
)

// Product status constants.
const (
	ProductStatusDraft     = "draft"
	ProductStatusPublished = "published"
	ProductStatusArchived  = "archived"
)

// ValidProductStatuses returns the set of valid product statuses.
func ValidProductStatuses() []string {
	return []string{ProductStatusDraft, ProductStatusPublished, ProductStatusArchived}
}

// IsValidProductStatus checks whether the given status string is valid.
func IsValidProductStatus(status string) bool {
	for _, s := range ValidProductStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// Product represents a product in the catalog. Money amounts are minor units
// with an informational currency code.
type Product struct {
	ID           int64     `json:"id"`
	ShopOfficeID int64     `json:"shop_office_id"`
	CategoryID   *int64    `json:"category_id,omitempty"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	BasePrice    int64     `json:"base_price"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductVariant represents a purchasable variant (color + size) of a product.
// Weight and dimensions feed the shipment package builder.
type ProductVariant struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	ColorID     *int64    `json:"color_id,omitempty"`
	Size        string    `json:"size"`
	SKU         string    `json:"sku"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	WeightGrams int       `json:"weight_grams"`
	LengthCm    int       `json:"length_cm"`
	WidthCm     int       `json:"width_cm"`
	HeightCm    int       `json:"height_cm"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductDetail is a product enriched with its variants and media.
type ProductDetail struct {
	Product
	Variants []ProductVariant `json:"variants"`
	Media    []MediaFile      `json:"media"`
}

// ProductListItem is a product list entry with its primary image, if any.
type ProductListItem struct {
	Product
	PrimaryImage *MediaFile `json:"primary_image,omitempty"`
}

// Review represents a product review left by a user.
type Review struct {
	ID        int64       `json:"id"`
	ProductID int64       `json:"product_id"`
	UserID    int64       `json:"user_id"`
	Rating    int         `json:"rating"`
	Body      string      `json:"body"`
	Media     []MediaFile `json:"media,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
