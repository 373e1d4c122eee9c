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

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new PostgreSQL review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (product_id, user_id, rating, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now

	ctx, end := database.TraceQuery(ctx, "CreateReview", query)
	err := r.db.QueryRow(ctx, query,
		review.ProductID,
		review.UserID,
		review.Rating,
		review.Body,
		review.CreatedAt,
		review.UpdatedAt,
	).Scan(&review.ID)
	end(err)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	query := `
		SELECT id, product_id, user_id, rating, body, created_at, updated_at
		FROM reviews
		WHERE id = $1`

	var rev domain.Review
	ctx, end := database.TraceQuery(ctx, "GetReview", query)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rev.ID,
		&rev.ProductID,
		&rev.UserID,
		&rev.Rating,
		&rev.Body,
		&rev.CreatedAt,
		&rev.UpdatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}

	return &rev, nil
}

// ListByProduct retrieves one page of a product's reviews ordered by
// ascending id.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64, page repository.Page) ([]domain.Review, int, error) {
	query := `
		SELECT id, product_id, user_id, rating, body, created_at, updated_at,
			count(*) OVER() AS total_count
		FROM reviews
		WHERE product_id = $1
		ORDER BY id ASC
		LIMIT $2 OFFSET $3`

	ctx, end := database.TraceQuery(ctx, "ListReviews", query)
	rows, err := r.db.Query(ctx, query, productID, page.Limit, page.Offset)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)

	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(
			&rev.ID,
			&rev.ProductID,
			&rev.UserID,
			&rev.Rating,
			&rev.Body,
			&rev.CreatedAt,
			&rev.UpdatedAt,
			&totalCount,
		); err != nil {
			end(err)
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rev)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}
	end(nil)

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, totalCount, nil
}

// Delete removes a review by ID.
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM reviews WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteReview", query)
	ct, err := r.db.Exec(ctx, query, id)
	end(err)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}
