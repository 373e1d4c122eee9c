package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/database"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

// CartRepository implements repository.CartRepository using PostgreSQL.
type CartRepository struct {
	db database.DBTX
}

// NewCartRepository creates a new PostgreSQL cart repository.
func NewCartRepository(db database.DBTX) *CartRepository {
	return &CartRepository{db: db}
}

// GetOrCreate returns the user's cart, creating it if absent. The insert uses
// ON CONFLICT DO NOTHING so concurrent first adds for the same user converge
// on one row.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID int64) (*domain.Cart, error) {
	selectQuery := `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`

	var c domain.Cart
	ctx, end := database.TraceQuery(ctx, "GetCart", selectQuery)
	err := r.db.QueryRow(ctx, selectQuery, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	end(err)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("scan cart: %w", err)
	}

	insertQuery := `
		INSERT INTO carts (user_id, created_at, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING id, user_id, created_at, updated_at`

	now := time.Now().UTC()
	ctx, end = database.TraceQuery(ctx, "CreateCart", insertQuery)
	err = r.db.QueryRow(ctx, insertQuery, userID, now, now).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	end(err)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("insert cart: %w", err)
	}

	// Lost the race to a concurrent insert; the row exists now.
	ctx, end = database.TraceQuery(ctx, "GetCart", selectQuery)
	err = r.db.QueryRow(ctx, selectQuery, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("scan cart after insert conflict: %w", err)
	}

	return &c, nil
}

// AddItem inserts a cart item, merging quantities when the variant is already
// in the cart.
func (r *CartRepository) AddItem(ctx context.Context, cartID, variantID int64, quantity int) (*domain.CartItem, error) {
	query := `
		INSERT INTO cart_items (cart_id, variant_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, variant_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		RETURNING id, cart_id, variant_id, quantity, created_at, updated_at`

	now := time.Now().UTC()

	var item domain.CartItem
	ctx, end := database.TraceQuery(ctx, "AddCartItem", query)
	err := r.db.QueryRow(ctx, query, cartID, variantID, quantity, now, now).Scan(
		&item.ID,
		&item.CartID,
		&item.VariantID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}

	return &item, nil
}

// UpdateItemQuantity sets the quantity of a cart item. The cart id is part of
// the predicate so a user cannot touch another cart's items.
func (r *CartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) error {
	query := `UPDATE cart_items SET quantity = $1, updated_at = $2 WHERE id = $3 AND cart_id = $4`

	ctx, end := database.TraceQuery(ctx, "UpdateCartItem", query)
	ct, err := r.db.Exec(ctx, query, quantity, time.Now().UTC(), itemID, cartID)
	end(err)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("cart item", itemID)
	}

	return nil
}

// RemoveItem removes a cart item.
func (r *CartRepository) RemoveItem(ctx context.Context, cartID, itemID int64) error {
	query := `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`

	ctx, end := database.TraceQuery(ctx, "RemoveCartItem", query)
	ct, err := r.db.Exec(ctx, query, itemID, cartID)
	end(err)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("cart item", itemID)
	}

	return nil
}

// ListItems retrieves the cart's items denormalized with variant and product
// display data, ordered by ascending item id.
func (r *CartRepository) ListItems(ctx context.Context, cartID int64) ([]domain.CartItemDetail, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.variant_id, ci.quantity, ci.created_at, ci.updated_at,
			p.id, p.name, p.shop_office_id, pv.size, pv.sku, pv.price, p.currency, pv.stock,
			COALESCE((
				SELECT m.storage_key FROM media_files m
				WHERE m.owner_type = $1 AND m.owner_id = pv.id AND m.kind = $2
				ORDER BY m.sort_order ASC, m.id ASC
				LIMIT 1
			), '') AS image_key
		FROM cart_items ci
		JOIN product_variants pv ON pv.id = ci.variant_id
		JOIN products p ON p.id = pv.product_id
		WHERE ci.cart_id = $3
		ORDER BY ci.id ASC`

	ctx, end := database.TraceQuery(ctx, "ListCartItems", query)
	rows, err := r.db.Query(ctx, query, domain.MediaOwnerProductVariant, domain.MediaKindImage, cartID)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItemDetail
	for rows.Next() {
		var d domain.CartItemDetail
		if err := rows.Scan(
			&d.ID,
			&d.CartID,
			&d.VariantID,
			&d.Quantity,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.ProductID,
			&d.ProductName,
			&d.ShopOfficeID,
			&d.Size,
			&d.SKU,
			&d.UnitPrice,
			&d.Currency,
			&d.Stock,
			&d.ImageURL,
		); err != nil {
			end(err)
			return nil, fmt.Errorf("scan cart item row: %w", err)
		}
		items = append(items, d)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, fmt.Errorf("iterate cart item rows: %w", err)
	}
	end(nil)

	if items == nil {
		items = []domain.CartItemDetail{}
	}

	return items, nil
}

// Clear removes all items from the cart.
func (r *CartRepository) Clear(ctx context.Context, cartID int64) error {
	query := `DELETE FROM cart_items WHERE cart_id = $1`

	ctx, end := database.TraceQuery(ctx, "ClearCart", query)
	_, err := r.db.Exec(ctx, query, cartID)
	end(err)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	return nil
}
