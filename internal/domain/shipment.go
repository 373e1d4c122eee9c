package domain

import (
	"time"
)

// Shipment status constants.
const (
	ShipmentStatusCreated    = "created"
	ShipmentStatusPickedUp   = "picked_up"
	ShipmentStatusDelivering = "delivering"
	ShipmentStatusDelivered  = "delivered"
	ShipmentStatusCanceled   = "canceled"
)

// Shipment represents one carrier package for one shop office of an order.
type Shipment struct {
	ID           int64     `json:"id"`
	OrderID      int64     `json:"order_id"`
	ShopOfficeID int64     `json:"shop_office_id"`
	CarrierCode  string    `json:"carrier_code"`
	TrackingCode string    `json:"tracking_code"`
	Status       string    `json:"status"`
	Fee          int64     `json:"fee"`
	Currency     string    `json:"currency"`
	WeightGrams  int       `json:"weight_grams"`
	LengthCm     int       `json:"length_cm"`
	WidthCm      int       `json:"width_cm"`
	HeightCm     int       `json:"height_cm"`
	ItemCount    int       `json:"item_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Return request status constants.
const (
	ReturnStatusRequested = "requested"
	ReturnStatusApproved  = "approved"
	ReturnStatusRejected  = "rejected"
	ReturnStatusRefunded  = "refunded"
)

// returnTransitions maps each return status to the statuses reachable from it.
var returnTransitions = map[string][]string{
	ReturnStatusRequested: {ReturnStatusApproved, ReturnStatusRejected},
	ReturnStatusApproved:  {ReturnStatusRefunded},
	ReturnStatusRejected:  {},
	ReturnStatusRefunded:  {},
}

// CanTransitionReturn reports whether a return request may move from one
// status to another.
func CanTransitionReturn(from, to string) bool {
	for _, s := range returnTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ReturnRequest represents a user's request to return a delivered order.
type ReturnRequest struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	UserID    int64     `json:"user_id"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
