package domain

import (
	"time"
)

// Role constants. Role sets on routes are exact-match against this flat enum;
// there is no hierarchy.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleShop  = "shop"
)

// ValidRoles returns the set of valid user roles.
func ValidRoles() []string {
	return []string{RoleAdmin, RoleUser, RoleShop}
}

// IsValidRole checks whether the given role string is a valid role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// User represents a registered account.
type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	FullName       string     `json:"full_name"`
	Phone          string     `json:"phone"`
	Role           string     `json:"role"`
	IsActive       bool       `json:"is_active"`
	AvatarKey      string     `json:"-"`
	AvatarURL      string     `json:"avatar_url,omitempty"`
	ActivationCode string     `json:"-"`
	CodeExpiresAt  *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Address represents a user's delivery address. Province, district, and ward
// follow the carrier's administrative-unit codes so shipping requests can be
// built without another lookup.
type Address struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Recipient    string    `json:"recipient"`
	Phone        string    `json:"phone"`
	ProvinceCode int       `json:"province_code"`
	ProvinceName string    `json:"province_name"`
	DistrictCode int       `json:"district_code"`
	DistrictName string    `json:"district_name"`
	WardCode     string    `json:"ward_code"`
	WardName     string    `json:"ward_name"`
	Street       string    `json:"street"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SizeProfile holds a user's body measurements for size suggestions.
type SizeProfile struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Label        string    `json:"label"`
	HeightCm     int       `json:"height_cm"`
	WeightKg     int       `json:"weight_kg"`
	Measurements string    `json:"measurements"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
