package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/database"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	db database.DBTX
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db database.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateWithItems inserts the order and its items in one transaction. When
// userVoucherID is non-nil the matching user_voucher row is marked used and
// the voucher quantity decremented in the same transaction; a voucher with no
// remaining quantity fails the whole order.
func (r *OrderRepository) CreateWithItems(ctx context.Context, order *domain.Order, items []domain.OrderItem, userVoucherID *int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create order tx: %w", err)
	}
	defer tx.Rollback(ctx)

	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	insertOrder := `
		INSERT INTO orders (user_id, status, subtotal, discount, shipping_fee, total, currency, voucher_id, shipping_address, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	err = tx.QueryRow(ctx, insertOrder,
		order.UserID,
		order.Status,
		order.Subtotal,
		order.Discount,
		order.ShippingFee,
		order.Total,
		order.Currency,
		order.VoucherID,
		addressJSON,
		order.Note,
		order.CreatedAt,
		order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	insertItem := `
		INSERT INTO order_items (order_id, variant_id, product_name, size, sku, unit_price, quantity, weight_grams, length_cm, width_cm, height_cm, shop_office_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`

	for i := range items {
		items[i].OrderID = order.ID
		items[i].CreatedAt = now

		err = tx.QueryRow(ctx, insertItem,
			items[i].OrderID,
			items[i].VariantID,
			items[i].ProductName,
			items[i].Size,
			items[i].SKU,
			items[i].UnitPrice,
			items[i].Quantity,
			items[i].WeightGrams,
			items[i].LengthCm,
			items[i].WidthCm,
			items[i].HeightCm,
			items[i].ShopOfficeID,
			items[i].CreatedAt,
		).Scan(&items[i].ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if userVoucherID != nil {
		markUsed := `UPDATE user_vouchers SET used_at = $1, updated_at = $1 WHERE id = $2 AND used_at IS NULL`
		ct, err := tx.Exec(ctx, markUsed, now, *userVoucherID)
		if err != nil {
			return fmt.Errorf("mark voucher used: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return apperrors.Conflict("voucher has already been used")
		}

		decrement := `UPDATE vouchers SET quantity = quantity - 1, updated_at = $1 WHERE id = $2 AND quantity > 0`
		ct, err = tx.Exec(ctx, decrement, now, *order.VoucherID)
		if err != nil {
			return fmt.Errorf("decrement voucher quantity: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return apperrors.Conflict("voucher has no remaining quantity")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create order tx: %w", err)
	}

	return nil
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `
		SELECT id, user_id, status, subtotal, discount, shipping_fee, total, currency, voucher_id, shipping_address, note, created_at, updated_at
		FROM orders
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetOrder", query)
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	return order, nil
}

// GetItems retrieves the order's line items ordered by ascending id.
func (r *OrderRepository) GetItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, variant_id, product_name, size, sku, unit_price, quantity, weight_grams, length_cm, width_cm, height_cm, shop_office_id, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC`

	ctx, end := database.TraceQuery(ctx, "GetOrderItems", query)
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.VariantID,
			&item.ProductName,
			&item.Size,
			&item.SKU,
			&item.UnitPrice,
			&item.Quantity,
			&item.WeightGrams,
			&item.LengthCm,
			&item.WidthCm,
			&item.HeightCm,
			&item.ShopOfficeID,
			&item.CreatedAt,
		); err != nil {
			end(err)
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}
	end(nil)

	if items == nil {
		items = []domain.OrderItem{}
	}

	return items, nil
}

// List retrieves one page of orders ordered by ascending id. A non-nil userID
// restricts the result to that user's orders.
func (r *OrderRepository) List(ctx context.Context, userID *int64, page repository.Page) ([]domain.Order, int, error) {
	var (
		query string
		args  []any
	)

	if userID != nil {
		query = `
			SELECT id, user_id, status, subtotal, discount, shipping_fee, total, currency, voucher_id, shipping_address, note, created_at, updated_at,
				count(*) OVER() AS total_count
			FROM orders
			WHERE user_id = $1
			ORDER BY id ASC
			LIMIT $2 OFFSET $3`
		args = []any{*userID, page.Limit, page.Offset}
	} else {
		query = `
			SELECT id, user_id, status, subtotal, discount, shipping_fee, total, currency, voucher_id, shipping_address, note, created_at, updated_at,
				count(*) OVER() AS total_count
			FROM orders
			ORDER BY id ASC
			LIMIT $1 OFFSET $2`
		args = []any{page.Limit, page.Offset}
	}

	ctx, end := database.TraceQuery(ctx, "ListOrders", query)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var (
		orders     []domain.Order
		totalCount int
	)

	for rows.Next() {
		var (
			o           domain.Order
			addressJSON []byte
		)
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.Status,
			&o.Subtotal,
			&o.Discount,
			&o.ShippingFee,
			&o.Total,
			&o.Currency,
			&o.VoucherID,
			&addressJSON,
			&o.Note,
			&o.CreatedAt,
			&o.UpdatedAt,
			&totalCount,
		); err != nil {
			end(err)
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		if err := json.Unmarshal(addressJSON, &o.ShippingAddress); err != nil {
			end(err)
			return nil, 0, fmt.Errorf("unmarshal shipping address: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}
	end(nil)

	if orders == nil {
		orders = []domain.Order{}
	}

	return orders, totalCount, nil
}

// UpdateStatus sets the order's status. Transition legality is checked by the
// service before calling.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`

	ctx, end := database.TraceQuery(ctx, "UpdateOrderStatus", query)
	ct, err := r.db.Exec(ctx, query, status, time.Now().UTC(), id)
	end(err)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o           domain.Order
		addressJSON []byte
	)
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Status,
		&o.Subtotal,
		&o.Discount,
		&o.ShippingFee,
		&o.Total,
		&o.Currency,
		&o.VoucherID,
		&addressJSON,
		&o.Note,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addressJSON, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}
	return &o, nil
}
