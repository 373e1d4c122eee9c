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

// ReturnRequestRepository implements repository.ReturnRequestRepository using
// PostgreSQL.
type ReturnRequestRepository struct {
	db database.DBTX
}

// NewReturnRequestRepository creates a new PostgreSQL return-request repository.
func NewReturnRequestRepository(db database.DBTX) *ReturnRequestRepository {
	return &ReturnRequestRepository{db: db}
}

// Create inserts a new return request.
func (r *ReturnRequestRepository) Create(ctx context.Context, req *domain.ReturnRequest) error {
	query := `
		INSERT INTO return_requests (order_id, user_id, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now

	ctx, end := database.TraceQuery(ctx, "CreateReturnRequest", query)
	err := r.db.QueryRow(ctx, query,
		req.OrderID,
		req.UserID,
		req.Reason,
		req.Status,
		req.CreatedAt,
		req.UpdatedAt,
	).Scan(&req.ID)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("return request", "order_id", fmt.Sprintf("%d", req.OrderID))
		}
		return fmt.Errorf("insert return request: %w", err)
	}

	return nil
}

// GetByID retrieves a return request by ID.
func (r *ReturnRequestRepository) GetByID(ctx context.Context, id int64) (*domain.ReturnRequest, error) {
	query := `
		SELECT id, order_id, user_id, reason, status, created_at, updated_at
		FROM return_requests
		WHERE id = $1`

	var req domain.ReturnRequest
	ctx, end := database.TraceQuery(ctx, "GetReturnRequest", query)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.OrderID,
		&req.UserID,
		&req.Reason,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("return request", id)
		}
		return nil, fmt.Errorf("scan return request: %w", err)
	}

	return &req, nil
}

// List retrieves one page of return requests ordered by ascending id. A
// non-nil userID restricts the result to that user's requests.
func (r *ReturnRequestRepository) List(ctx context.Context, userID *int64, page repository.Page) ([]domain.ReturnRequest, int, error) {
	var (
		query string
		args  []any
	)

	if userID != nil {
		query = `
			SELECT id, order_id, user_id, reason, status, created_at, updated_at,
				count(*) OVER() AS total_count
			FROM return_requests
			WHERE user_id = $1
			ORDER BY id ASC
			LIMIT $2 OFFSET $3`
		args = []any{*userID, page.Limit, page.Offset}
	} else {
		query = `
			SELECT id, order_id, user_id, reason, status, created_at, updated_at,
				count(*) OVER() AS total_count
			FROM return_requests
			ORDER BY id ASC
			LIMIT $1 OFFSET $2`
		args = []any{page.Limit, page.Offset}
	}

	ctx, end := database.TraceQuery(ctx, "ListReturnRequests", query)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("list return requests: %w", err)
	}
	defer rows.Close()

	var (
		requests   []domain.ReturnRequest
		totalCount int
	)

	for rows.Next() {
		var req domain.ReturnRequest
		if err := rows.Scan(
			&req.ID,
			&req.OrderID,
			&req.UserID,
			&req.Reason,
			&req.Status,
			&req.CreatedAt,
			&req.UpdatedAt,
			&totalCount,
		); err != nil {
			end(err)
			return nil, 0, fmt.Errorf("scan return request row: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, 0, fmt.Errorf("iterate return request rows: %w", err)
	}
	end(nil)

	if requests == nil {
		requests = []domain.ReturnRequest{}
	}

	return requests, totalCount, nil
}

// UpdateStatus sets the return request's status. Transition legality is
// checked by the service before calling.
func (r *ReturnRequestRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE return_requests SET status = $1, updated_at = $2 WHERE id = $3`

	ctx, end := database.TraceQuery(ctx, "UpdateReturnRequestStatus", query)
	ct, err := r.db.Exec(ctx, query, status, time.Now().UTC(), id)
	end(err)
	if err != nil {
		return fmt.Errorf("update return request status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("return request", id)
	}

	return nil
}
