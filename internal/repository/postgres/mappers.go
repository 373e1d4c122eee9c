package postgres

import (
	"time"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/crud"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/database"
)

// NewColorRepository creates a generic repository for colors.
func NewColorRepository(db database.DBTX) *crud.Repository[domain.Color] {
	return crud.NewRepository(db, crud.Mapper[domain.Color]{
		Table:    "colors",
		Resource: "color",
		Columns:  []string{"name", "hex_code"},
		Values: func(e *domain.Color) []any {
			return []any{e.Name, e.HexCode}
		},
		Fields: func(e *domain.Color) []any {
			return []any{&e.ID, &e.Name, &e.HexCode, &e.CreatedAt, &e.UpdatedAt}
		},
		ID:    func(e *domain.Color) int64 { return e.ID },
		SetID: func(e *domain.Color, id int64) { e.ID = id },
		SetTimestamps: func(e *domain.Color, createdAt, updatedAt time.Time) {
			e.CreatedAt = createdAt
			e.UpdatedAt = updatedAt
		},
	})
}

// NewCategoryRepository creates a generic repository for categories.
func NewCategoryRepository(db database.DBTX) *crud.Repository[domain.Category] {
	return crud.NewRepository(db, crud.Mapper[domain.Category]{
		Table:    "categories",
		Resource: "category",
		Columns:  []string{"name", "slug", "parent_id", "sort_order"},
		Values: func(e *domain.Category) []any {
			return []any{e.Name, e.Slug, e.ParentID, e.SortOrder}
		},
		Fields: func(e *domain.Category) []any {
			return []any{&e.ID, &e.Name, &e.Slug, &e.ParentID, &e.SortOrder, &e.CreatedAt, &e.UpdatedAt}
		},
		ID:    func(e *domain.Category) int64 { return e.ID },
		SetID: func(e *domain.Category, id int64) { e.ID = id },
		SetTimestamps: func(e *domain.Category, createdAt, updatedAt time.Time) {
			e.CreatedAt = createdAt
			e.UpdatedAt = updatedAt
		},
	})
}

// NewShopOfficeRepository creates a generic repository for shop offices.
func NewShopOfficeRepository(db database.DBTX) *crud.Repository[domain.ShopOffice] {
	return crud.NewRepository(db, crud.Mapper[domain.ShopOffice]{
		Table:    "shop_offices",
		Resource: "shop office",
		Columns:  []string{"name", "phone", "province_code", "district_code", "ward_code", "street"},
		Values: func(e *domain.ShopOffice) []any {
			return []any{e.Name, e.Phone, e.ProvinceCode, e.DistrictCode, e.WardCode, e.Street}
		},
		Fields: func(e *domain.ShopOffice) []any {
			return []any{&e.ID, &e.Name, &e.Phone, &e.ProvinceCode, &e.DistrictCode, &e.WardCode, &e.Street, &e.CreatedAt, &e.UpdatedAt}
		},
		ID:    func(e *domain.ShopOffice) int64 { return e.ID },
		SetID: func(e *domain.ShopOffice, id int64) { e.ID = id },
		SetTimestamps: func(e *domain.ShopOffice, createdAt, updatedAt time.Time) {
			e.CreatedAt = createdAt
			e.UpdatedAt = updatedAt
		},
	})
}

// NewSizeProfileRepository creates a generic repository for size profiles.
func NewSizeProfileRepository(db database.DBTX) *crud.Repository[domain.SizeProfile] {
	return crud.NewRepository(db, crud.Mapper[domain.SizeProfile]{
		Table:    "size_profiles",
		Resource: "size profile",
		Columns:  []string{"user_id", "label", "height_cm", "weight_kg", "measurements"},
		Values: func(e *domain.SizeProfile) []any {
			return []any{e.UserID, e.Label, e.HeightCm, e.WeightKg, e.Measurements}
		},
		Fields: func(e *domain.SizeProfile) []any {
			return []any{&e.ID, &e.UserID, &e.Label, &e.HeightCm, &e.WeightKg, &e.Measurements, &e.CreatedAt, &e.UpdatedAt}
		},
		ID:    func(e *domain.SizeProfile) int64 { return e.ID },
		SetID: func(e *domain.SizeProfile, id int64) { e.ID = id },
		SetTimestamps: func(e *domain.SizeProfile, createdAt, updatedAt time.Time) {
			e.CreatedAt = createdAt
			e.UpdatedAt = updatedAt
		},
	})
}
