package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/database"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

// AddressRepository implements repository.AddressRepository using PostgreSQL.
type AddressRepository struct {
	db database.DBTX
}

// NewAddressRepository creates a new PostgreSQL address repository.
func NewAddressRepository(db database.DBTX) *AddressRepository {
	return &AddressRepository{db: db}
}

// Create inserts a new address.
func (r *AddressRepository) Create(ctx context.Context, address *domain.Address) error {
	query := `
		INSERT INTO addresses (user_id, recipient, phone, province_code, province_name, district_code, district_name, ward_code, ward_name, street, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`

	now := time.Now().UTC()
	address.CreatedAt = now
	address.UpdatedAt = now

	ctx, end := database.TraceQuery(ctx, "CreateAddress", query)
	err := r.db.QueryRow(ctx, query,
		address.UserID,
		address.Recipient,
		address.Phone,
		address.ProvinceCode,
		address.ProvinceName,
		address.DistrictCode,
		address.DistrictName,
		address.WardCode,
		address.WardName,
		address.Street,
		address.IsDefault,
		address.CreatedAt,
		address.UpdatedAt,
	).Scan(&address.ID)
	end(err)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}

	return nil
}

// GetByID retrieves an address by ID.
func (r *AddressRepository) GetByID(ctx context.Context, id int64) (*domain.Address, error) {
	query := `
		SELECT id, user_id, recipient, phone, province_code, province_name, district_code, district_name, ward_code, ward_name, street, is_default, created_at, updated_at
		FROM addresses
		WHERE id = $1`

	var a domain.Address
	ctx, end := database.TraceQuery(ctx, "GetAddress", query)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.UserID,
		&a.Recipient,
		&a.Phone,
		&a.ProvinceCode,
		&a.ProvinceName,
		&a.DistrictCode,
		&a.DistrictName,
		&a.WardCode,
		&a.WardName,
		&a.Street,
		&a.IsDefault,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("address", id)
		}
		return nil, fmt.Errorf("scan address: %w", err)
	}

	return &a, nil
}

// ListByUser retrieves one page of a user's addresses ordered by ascending id.
func (r *AddressRepository) ListByUser(ctx context.Context, userID int64, page repository.Page) ([]domain.Address, int, error) {
	query := `
		SELECT id, user_id, recipient, phone, province_code, province_name, district_code, district_name, ward_code, ward_name, street, is_default, created_at, updated_at,
			count(*) OVER() AS total_count
		FROM addresses
		WHERE user_id = $1
		ORDER BY id ASC
		LIMIT $2 OFFSET $3`

	ctx, end := database.TraceQuery(ctx, "ListAddresses", query)
	rows, err := r.db.Query(ctx, query, userID, page.Limit, page.Offset)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	var (
		addresses  []domain.Address
		totalCount int
	)

	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Recipient,
			&a.Phone,
			&a.ProvinceCode,
			&a.ProvinceName,
			&a.DistrictCode,
			&a.DistrictName,
			&a.WardCode,
			&a.WardName,
			&a.Street,
			&a.IsDefault,
			&a.CreatedAt,
			&a.UpdatedAt,
			&totalCount,
		); err != nil {
			end(err)
			return nil, 0, fmt.Errorf("scan address row: %w", err)
		}
		addresses = append(addresses, a)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, 0, fmt.Errorf("iterate address rows: %w", err)
	}
	end(nil)

	if addresses == nil {
		addresses = []domain.Address{}
	}

	return addresses, totalCount, nil
}

// Update updates all mutable fields of an existing address.
func (r *AddressRepository) Update(ctx context.Context, address *domain.Address) error {
	query := `
		UPDATE addresses
		SET recipient = $1, phone = $2, province_code = $3, province_name = $4, district_code = $5, district_name = $6, ward_code = $7, ward_name = $8, street = $9, is_default = $10, updated_at = $11
		WHERE id = $12`

	address.UpdatedAt = time.Now().UTC()

	ctx, end := database.TraceQuery(ctx, "UpdateAddress", query)
	ct, err := r.db.Exec(ctx, query,
		address.Recipient,
		address.Phone,
		address.ProvinceCode,
		address.ProvinceName,
		address.DistrictCode,
		address.DistrictName,
		address.WardCode,
		address.WardName,
		address.Street,
		address.IsDefault,
		address.UpdatedAt,
		address.ID,
	)
	end(err)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("address", address.ID)
	}

	return nil
}

// Delete removes an address by ID.
func (r *AddressRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM addresses WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteAddress", query)
	ct, err := r.db.Exec(ctx, query, id)
	end(err)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("address", id)
	}

	return nil
}

// ClearDefault unsets is_default on all of the user's addresses.
func (r *AddressRepository) ClearDefault(ctx context.Context, userID int64) error {
	query := `UPDATE addresses SET is_default = false, updated_at = $1 WHERE user_id = $2 AND is_default = true`

	ctx, end := database.TraceQuery(ctx, "ClearDefaultAddress", query)
	_, err := r.db.Exec(ctx, query, time.Now().UTC(), userID)
	end(err)
	if err != nil {
		return fmt.Errorf("clear default address: %w", err)
	}

	return nil
}
