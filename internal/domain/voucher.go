package domain

import (
	"time"
)

// Voucher represents a discount voucher. Quantity is the remaining number of
// redemptions across all users.
type Voucher struct {
	ID              int64     `json:"id"`
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discount_percent"`
	MaxDiscount     int64     `json:"max_discount"`
	MinOrder        int64     `json:"min_order"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	Quantity        int       `json:"quantity"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DiscountFor returns the discount amount the voucher yields for the given
// order subtotal, capped at MaxDiscount. It does not check the validity
// window or quantity; callers validate those first.
func (v *Voucher) DiscountFor(subtotal int64) int64 {
	discount := subtotal * int64(v.DiscountPercent) / 100
	if v.MaxDiscount > 0 && discount > v.MaxDiscount {
		discount = v.MaxDiscount
	}
	return discount
}

// UserVoucher represents a voucher claimed by a user. UsedAt is set when the
// voucher is redeemed on an order.
type UserVoucher struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	VoucherID int64      `json:"voucher_id"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
