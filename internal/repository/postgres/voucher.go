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

// VoucherRepository implements repository.VoucherRepository using PostgreSQL.
type VoucherRepository struct {
	db database.DBTX
}

// NewVoucherRepository creates a new PostgreSQL voucher repository.
func NewVoucherRepository(db database.DBTX) *VoucherRepository {
	return &VoucherRepository{db: db}
}

// Create inserts a new voucher.
func (r *VoucherRepository) Create(ctx context.Context, voucher *domain.Voucher) error {
	query := `
		INSERT INTO vouchers (code, discount_percent, max_discount, min_order, starts_at, ends_at, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	now := time.Now().UTC()
	voucher.CreatedAt = now
	voucher.UpdatedAt = now

	ctx, end := database.TraceQuery(ctx, "CreateVoucher", query)
	err := r.db.QueryRow(ctx, query,
		voucher.Code,
		voucher.DiscountPercent,
		voucher.MaxDiscount,
		voucher.MinOrder,
		voucher.StartsAt,
		voucher.EndsAt,
		voucher.Quantity,
		voucher.CreatedAt,
		voucher.UpdatedAt,
	).Scan(&voucher.ID)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("voucher", "code", voucher.Code)
		}
		return fmt.Errorf("insert voucher: %w", err)
	}

	return nil
}

// GetByID retrieves a voucher by ID.
func (r *VoucherRepository) GetByID(ctx context.Context, id int64) (*domain.Voucher, error) {
	query := voucherSelect + ` WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetVoucher", query)
	voucher, err := scanVoucher(r.db.QueryRow(ctx, query, id))
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("voucher", id)
		}
		return nil, fmt.Errorf("scan voucher: %w", err)
	}

	return voucher, nil
}

// GetByCode retrieves a voucher by its code.
func (r *VoucherRepository) GetByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	query := voucherSelect + ` WHERE code = $1`

	ctx, end := database.TraceQuery(ctx, "GetVoucherByCode", query)
	voucher, err := scanVoucher(r.db.QueryRow(ctx, query, code))
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundMsg(fmt.Sprintf("voucher with code %q not found", code))
		}
		return nil, fmt.Errorf("scan voucher: %w", err)
	}

	return voucher, nil
}

// List retrieves one page of vouchers ordered by ascending id.
func (r *VoucherRepository) List(ctx context.Context, page repository.Page) ([]domain.Voucher, int, error) {
	query := `
		SELECT id, code, discount_percent, max_discount, min_order, starts_at, ends_at, quantity, created_at, updated_at,
			count(*) OVER() AS total_count
		FROM vouchers
		ORDER BY id ASC
		LIMIT $1 OFFSET $2`

	ctx, end := database.TraceQuery(ctx, "ListVouchers", query)
	rows, err := r.db.Query(ctx, query, page.Limit, page.Offset)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	var (
		vouchers   []domain.Voucher
		totalCount int
	)

	for rows.Next() {
		var v domain.Voucher
		if err := rows.Scan(
			&v.ID,
			&v.Code,
			&v.DiscountPercent,
			&v.MaxDiscount,
			&v.MinOrder,
			&v.StartsAt,
			&v.EndsAt,
			&v.Quantity,
			&v.CreatedAt,
			&v.UpdatedAt,
			&totalCount,
		); err != nil {
			end(err)
			return nil, 0, fmt.Errorf("scan voucher row: %w", err)
		}
		vouchers = append(vouchers, v)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, 0, fmt.Errorf("iterate voucher rows: %w", err)
	}
	end(nil)

	if vouchers == nil {
		vouchers = []domain.Voucher{}
	}

	return vouchers, totalCount, nil
}

// Update updates all mutable fields of an existing voucher.
func (r *VoucherRepository) Update(ctx context.Context, voucher *domain.Voucher) error {
	query := `
		UPDATE vouchers
		SET code = $1, discount_percent = $2, max_discount = $3, min_order = $4, starts_at = $5, ends_at = $6, quantity = $7, updated_at = $8
		WHERE id = $9`

	voucher.UpdatedAt = time.Now().UTC()

	ctx, end := database.TraceQuery(ctx, "UpdateVoucher", query)
	ct, err := r.db.Exec(ctx, query,
		voucher.Code,
		voucher.DiscountPercent,
		voucher.MaxDiscount,
		voucher.MinOrder,
		voucher.StartsAt,
		voucher.EndsAt,
		voucher.Quantity,
		voucher.UpdatedAt,
		voucher.ID,
	)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("voucher", "code", voucher.Code)
		}
		return fmt.Errorf("update voucher: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("voucher", voucher.ID)
	}

	return nil
}

// Delete removes a voucher by ID.
func (r *VoucherRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM vouchers WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteVoucher", query)
	ct, err := r.db.Exec(ctx, query, id)
	end(err)
	if err != nil {
		return fmt.Errorf("delete voucher: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("voucher", id)
	}

	return nil
}

// SetVariantScope replaces the voucher's variant restrictions in one
// transaction. An empty set clears the restriction.
func (r *VoucherRepository) SetVariantScope(ctx context.Context, voucherID int64, variantIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin voucher scope tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM voucher_products WHERE voucher_id = $1`, voucherID); err != nil {
		return fmt.Errorf("clear voucher scope: %w", err)
	}

	insert := `INSERT INTO voucher_products (voucher_id, product_variant_id) VALUES ($1, $2)`
	for _, variantID := range variantIDs {
		if _, err := tx.Exec(ctx, insert, voucherID, variantID); err != nil {
			return fmt.Errorf("insert voucher scope: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit voucher scope tx: %w", err)
	}

	return nil
}

// GetVariantScope returns the variant ids the voucher is restricted to.
func (r *VoucherRepository) GetVariantScope(ctx context.Context, voucherID int64) ([]int64, error) {
	query := `SELECT product_variant_id FROM voucher_products WHERE voucher_id = $1 ORDER BY product_variant_id ASC`

	ctx, end := database.TraceQuery(ctx, "GetVoucherScope", query)
	rows, err := r.db.Query(ctx, query, voucherID)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list voucher scope: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			end(err)
			return nil, fmt.Errorf("scan voucher scope row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, fmt.Errorf("iterate voucher scope rows: %w", err)
	}
	end(nil)

	return ids, nil
}

// Claim records that the user claimed the voucher. Claiming the same voucher
// twice hits the (user_id, voucher_id) unique constraint.
func (r *VoucherRepository) Claim(ctx context.Context, userID, voucherID int64) (*domain.UserVoucher, error) {
	query := `
		INSERT INTO user_vouchers (user_id, voucher_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, voucher_id, used_at, created_at, updated_at`

	now := time.Now().UTC()

	var uv domain.UserVoucher
	ctx, end := database.TraceQuery(ctx, "ClaimVoucher", query)
	err := r.db.QueryRow(ctx, query, userID, voucherID, now, now).Scan(
		&uv.ID,
		&uv.UserID,
		&uv.VoucherID,
		&uv.UsedAt,
		&uv.CreatedAt,
		&uv.UpdatedAt,
	)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("user voucher", "voucher_id", fmt.Sprintf("%d", voucherID))
		}
		return nil, fmt.Errorf("claim voucher: %w", err)
	}

	return &uv, nil
}

// GetUserVoucher retrieves the user's claim on a voucher.
func (r *VoucherRepository) GetUserVoucher(ctx context.Context, userID, voucherID int64) (*domain.UserVoucher, error) {
	query := `
		SELECT id, user_id, voucher_id, used_at, created_at, updated_at
		FROM user_vouchers
		WHERE user_id = $1 AND voucher_id = $2`

	var uv domain.UserVoucher
	ctx, end := database.TraceQuery(ctx, "GetUserVoucher", query)
	err := r.db.QueryRow(ctx, query, userID, voucherID).Scan(
		&uv.ID,
		&uv.UserID,
		&uv.VoucherID,
		&uv.UsedAt,
		&uv.CreatedAt,
		&uv.UpdatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundMsg("voucher has not been claimed")
		}
		return nil, fmt.Errorf("scan user voucher: %w", err)
	}

	return &uv, nil
}

// ListUserVouchers retrieves one page of the user's claimed vouchers ordered
// by ascending id.
func (r *VoucherRepository) ListUserVouchers(ctx context.Context, userID int64, page repository.Page) ([]domain.UserVoucher, int, error) {
	query := `
		SELECT id, user_id, voucher_id, used_at, created_at, updated_at,
			count(*) OVER() AS total_count
		FROM user_vouchers
		WHERE user_id = $1
		ORDER BY id ASC
		LIMIT $2 OFFSET $3`

	ctx, end := database.TraceQuery(ctx, "ListUserVouchers", query)
	rows, err := r.db.Query(ctx, query, userID, page.Limit, page.Offset)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("list user vouchers: %w", err)
	}
	defer rows.Close()

	var (
		vouchers   []domain.UserVoucher
		totalCount int
	)

	for rows.Next() {
		var uv domain.UserVoucher
		if err := rows.Scan(
			&uv.ID,
			&uv.UserID,
			&uv.VoucherID,
			&uv.UsedAt,
			&uv.CreatedAt,
			&uv.UpdatedAt,
			&totalCount,
		); err != nil {
			end(err)
			return nil, 0, fmt.Errorf("scan user voucher row: %w", err)
		}
		vouchers = append(vouchers, uv)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, 0, fmt.Errorf("iterate user voucher rows: %w", err)
	}
	end(nil)

	if vouchers == nil {
		vouchers = []domain.UserVoucher{}
	}

	return vouchers, totalCount, nil
}

const voucherSelect = `
	SELECT id, code, discount_percent, max_discount, min_order, starts_at, ends_at, quantity, created_at, updated_at
	FROM vouchers`

func scanVoucher(row pgx.Row) (*domain.Voucher, error) {
	var v domain.Voucher
	err := row.Scan(
		&v.ID,
		&v.Code,
		&v.DiscountPercent,
		&v.MaxDiscount,
		&v.MinOrder,
		&v.StartsAt,
		&v.EndsAt,
		&v.Quantity,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
