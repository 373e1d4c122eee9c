package domain

import (
	"time"
)

// Category represents a product category. Categories form a tree via ParentID.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Color represents a product color option.
type Color struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	HexCode   string    `json:"hex_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShopOffice represents a seller's pickup office. Shipment packages are
// grouped by shop office, one carrier request per office.
type ShopOffice struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	ProvinceCode int       `json:"province_code"`
	DistrictCode int       `json:"district_code"`
	WardCode     string    `json:"ward_code"`
	Street       string    `json:"street"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
