package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/media"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
)

// ReviewService handles product reviews.
type ReviewService struct {
	reviews   repository.ReviewRepository
	products  repository.ProductRepository
	mediaRepo repository.MediaRepository
	rewriter  *media.Rewriter
	logger    *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	mediaRepo repository.MediaRepository,
	rewriter *media.Rewriter,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		products:  products,
		mediaRepo: mediaRepo,
		rewriter:  rewriter,
		logger:    logger,
	}
}

// CreateReviewInput holds the data for creating a review.
type CreateReviewInput struct {
	ProductID int64
	Rating    int
	Body      string
}

// Create adds a review for a product.
func (s *ReviewService) Create(ctx context.Context, userID int64, input CreateReviewInput) (*domain.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	review := &domain.Review{
		ProductID: input.ProductID,
		UserID:    userID,
		Rating:    input.Rating,
		Body:      input.Body,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.Int64("review_id", review.ID),
		slog.Int64("product_id", input.ProductID),
		slog.Int64("user_id", userID),
	)

	return review, nil
}

// ListByProduct retrieves one page of a product's reviews with media URLs
// rewritten.
func (s *ReviewService) ListByProduct(ctx context.Context, productID int64, params pagination.Params) ([]domain.Review, int, error) {
	reviews, total, err := s.reviews.ListByProduct(ctx, productID, repository.Page{Limit: params.PerPage, Offset: params.Offset})
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	for i := range reviews {
		files, err := s.mediaRepo.ListByOwner(ctx, domain.MediaOwnerReview, reviews[i].ID)
		if err != nil {
			return nil, 0, fmt.Errorf("list review media: %w", err)
		}
		s.rewriter.Rewrite(ctx, files)
		reviews[i].Media = files
	}

	return reviews, total, nil
}

// Delete removes a review. Only the review's owner or an admin may delete it.
func (s *ReviewService) Delete(ctx context.Context, requesterID int64, requesterRole string, id int64) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get review: %w", err)
	}

	if requesterRole != domain.RoleAdmin && review.UserID != requesterID {
		return apperrors.Forbidden("cannot delete another user's review")
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.Int64("review_id", id),
	)

	return nil
}
