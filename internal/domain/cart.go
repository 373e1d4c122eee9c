package domain

import (
	"time"
)

// Cart represents a user's shopping cart. Each user has at most one cart,
// created lazily on first item add.
type Cart struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem represents one variant line in a cart. (cart_id, variant_id) is
// unique; adding the same variant again merges quantities.
type CartItem struct {
	ID        int64     `json:"id"`
	CartID    int64     `json:"cart_id"`
	VariantID int64     `json:"variant_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItemDetail is a cart item denormalized with variant, product, and
// primary image information for display.
type CartItemDetail struct {
	CartItem
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	ShopOfficeID int64  `json:"shop_office_id"`
	Size         string `json:"size"`
	SKU          string `json:"sku"`
	UnitPrice    int64  `json:"unit_price"`
	Currency     string `json:"currency"`
	Stock        int    `json:"stock"`
	ImageURL     string `json:"image_url,omitempty"`
}

// CartDetail is a cart with its denormalized items.
type CartDetail struct {
	Cart
	Items []CartItemDetail `json:"items"`
}
