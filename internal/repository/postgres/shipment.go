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

// ShipmentRepository implements repository.ShipmentRepository using PostgreSQL.
type ShipmentRepository struct {
	db database.DBTX
}

// NewShipmentRepository creates a new PostgreSQL shipment repository.
func NewShipmentRepository(db database.DBTX) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

// CreateAll inserts all shipments in one transaction, so either every row of
// an order's shipment batch lands or none do.
func (r *ShipmentRepository) CreateAll(ctx context.Context, shipments []domain.Shipment) error {
	if len(shipments) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create shipments tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO shipments (order_id, shop_office_id, carrier_code, tracking_code, status, fee, currency, weight_grams, length_cm, width_cm, height_cm, item_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	now := time.Now().UTC()
	for i := range shipments {
		s := &shipments[i]
		s.CreatedAt = now
		s.UpdatedAt = now

		err := tx.QueryRow(ctx, query,
			s.OrderID,
			s.ShopOfficeID,
			s.CarrierCode,
			s.TrackingCode,
			s.Status,
			s.Fee,
			s.Currency,
			s.WeightGrams,
			s.LengthCm,
			s.WidthCm,
			s.HeightCm,
			s.ItemCount,
			s.CreatedAt,
			s.UpdatedAt,
		).Scan(&s.ID)
		if err != nil {
			return fmt.Errorf("insert shipment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create shipments tx: %w", err)
	}

	return nil
}

// GetByID retrieves a shipment by ID.
func (r *ShipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Shipment, error) {
	query := `
		SELECT id, order_id, shop_office_id, carrier_code, tracking_code, status, fee, currency, weight_grams, length_cm, width_cm, height_cm, item_count, created_at, updated_at
		FROM shipments
		WHERE id = $1`

	var s domain.Shipment
	ctx, end := database.TraceQuery(ctx, "GetShipment", query)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.OrderID,
		&s.ShopOfficeID,
		&s.CarrierCode,
		&s.TrackingCode,
		&s.Status,
		&s.Fee,
		&s.Currency,
		&s.WeightGrams,
		&s.LengthCm,
		&s.WidthCm,
		&s.HeightCm,
		&s.ItemCount,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("shipment", id)
		}
		return nil, fmt.Errorf("scan shipment: %w", err)
	}

	return &s, nil
}

// ListByOrder retrieves all shipments of an order ordered by ascending id.
func (r *ShipmentRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.Shipment, error) {
	query := `
		SELECT id, order_id, shop_office_id, carrier_code, tracking_code, status, fee, currency, weight_grams, length_cm, width_cm, height_cm, item_count, created_at, updated_at
		FROM shipments
		WHERE order_id = $1
		ORDER BY id ASC`

	ctx, end := database.TraceQuery(ctx, "ListShipmentsByOrder", query)
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()

	shipments, err := collectShipments(rows)
	end(err)
	if err != nil {
		return nil, err
	}

	return shipments, nil
}

// List retrieves one page of shipments ordered by ascending id.
func (r *ShipmentRepository) List(ctx context.Context, page repository.Page) ([]domain.Shipment, int, error) {
	query := `
		SELECT id, order_id, shop_office_id, carrier_code, tracking_code, status, fee, currency, weight_grams, length_cm, width_cm, height_cm, item_count, created_at, updated_at,
			count(*) OVER() AS total_count
		FROM shipments
		ORDER BY id ASC
		LIMIT $1 OFFSET $2`

	ctx, end := database.TraceQuery(ctx, "ListShipments", query)
	rows, err := r.db.Query(ctx, query, page.Limit, page.Offset)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()

	var (
		shipments  []domain.Shipment
		totalCount int
	)

	for rows.Next() {
		var s domain.Shipment
		if err := rows.Scan(
			&s.ID,
			&s.OrderID,
			&s.ShopOfficeID,
			&s.CarrierCode,
			&s.TrackingCode,
			&s.Status,
			&s.Fee,
			&s.Currency,
			&s.WeightGrams,
			&s.LengthCm,
			&s.WidthCm,
			&s.HeightCm,
			&s.ItemCount,
			&s.CreatedAt,
			&s.UpdatedAt,
			&totalCount,
		); err != nil {
			end(err)
			return nil, 0, fmt.Errorf("scan shipment row: %w", err)
		}
		shipments = append(shipments, s)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, 0, fmt.Errorf("iterate shipment rows: %w", err)
	}
	end(nil)

	if shipments == nil {
		shipments = []domain.Shipment{}
	}

	return shipments, totalCount, nil
}

// UpdateStatus sets the shipment's status.
func (r *ShipmentRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE shipments SET status = $1, updated_at = $2 WHERE id = $3`

	ctx, end := database.TraceQuery(ctx, "UpdateShipmentStatus", query)
	ct, err := r.db.Exec(ctx, query, status, time.Now().UTC(), id)
	end(err)
	if err != nil {
		return fmt.Errorf("update shipment status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("shipment", id)
	}

	return nil
}

func collectShipments(rows pgx.Rows) ([]domain.Shipment, error) {
	var shipments []domain.Shipment
	for rows.Next() {
		var s domain.Shipment
		if err := rows.Scan(
			&s.ID,
			&s.OrderID,
			&s.ShopOfficeID,
			&s.CarrierCode,
			&s.TrackingCode,
			&s.Status,
			&s.Fee,
			&s.Currency,
			&s.WeightGrams,
			&s.LengthCm,
			&s.WidthCm,
			&s.HeightCm,
			&s.ItemCount,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan shipment row: %w", err)
		}
		shipments = append(shipments, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shipment rows: %w", err)
	}

	if shipments == nil {
		shipments = []domain.Shipment{}
	}

	return shipments, nil
}
