package domain

import (
	"time"
)

// Order status constants.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipping  = "shipping"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
)

// ValidOrderStatuses returns the set of valid order statuses.
func ValidOrderStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusShipping,
		OrderStatusDelivered,
		OrderStatusCanceled,
	}
}

// orderTransitions maps each status to the statuses reachable from it.
var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCanceled},
	OrderStatusConfirmed: {OrderStatusShipping, OrderStatusCanceled},
	OrderStatusShipping:  {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCanceled:  {},
}

// CanTransitionOrder reports whether an order may move from one status to another.
func CanTransitionOrder(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ShippingAddress is the address snapshot stored on the order as JSONB.
type ShippingAddress struct {
	Recipient    string `json:"recipient"`
	Phone        string `json:"phone"`
	ProvinceCode int    `json:"province_code"`
	ProvinceName string `json:"province_name"`
	DistrictCode int    `json:"district_code"`
	DistrictName string `json:"district_name"`
	WardCode     string `json:"ward_code"`
	WardName     string `json:"ward_name"`
	Street       string `json:"street"`
}

// Order represents a placed order. Amounts are minor units.
type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	Status          string          `json:"status"`
	Subtotal        int64           `json:"subtotal"`
	Discount        int64           `json:"discount"`
	ShippingFee     int64           `json:"shipping_fee"`
	Total           int64           `json:"total"`
	Currency        string          `json:"currency"`
	VoucherID       *int64          `json:"voucher_id,omitempty"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Note            string          `json:"note"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem is a line item with the product name and unit price snapshotted at
// order time, so later catalog edits do not rewrite order history.
type OrderItem struct {
	ID           int64     `json:"id"`
	OrderID      int64     `json:"order_id"`
	VariantID    int64     `json:"variant_id"`
	ProductName  string    `json:"product_name"`
	Size         string    `json:"size"`
	SKU          string    `json:"sku"`
	UnitPrice    int64     `json:"unit_price"`
	Quantity     int       `json:"quantity"`
	WeightGrams  int       `json:"weight_grams"`
	LengthCm     int       `json:"length_cm"`
	WidthCm      int       `json:"width_cm"`
	HeightCm     int       `json:"height_cm"`
	ShopOfficeID int64     `json:"shop_office_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// OrderDetail is an order with its line items.
type OrderDetail struct {
	Order
	Items []OrderItem `json:"items"`
}
