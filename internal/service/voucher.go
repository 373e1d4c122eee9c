package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
)

// VoucherService handles voucher administration and user claims.
type VoucherService struct {
	vouchers repository.VoucherRepository
	logger   *slog.Logger
}

// NewVoucherService creates a new voucher service.
func NewVoucherService(vouchers repository.VoucherRepository, logger *slog.Logger) *VoucherService {
	return &VoucherService{vouchers: vouchers, logger: logger}
}

// CreateVoucherInput holds the data for creating a voucher.
type CreateVoucherInput struct {
	Code            string
	DiscountPercent int
	MaxDiscount     int64
	MinOrder        int64
	StartsAt        time.Time
	EndsAt          time.Time
	Quantity        int
	VariantIDs      []int64
}

// Create inserts a new voucher, optionally restricted to a set of product
// variants.
func (s *VoucherService) Create(ctx context.Context, input CreateVoucherInput) (*domain.Voucher, error) {
	if err := validateVoucherShape(input.DiscountPercent, input.StartsAt, input.EndsAt); err != nil {
		return nil, err
	}

	voucher := &domain.Voucher{
		Code:            strings.ToUpper(strings.TrimSpace(input.Code)),
		DiscountPercent: input.DiscountPercent,
		MaxDiscount:     input.MaxDiscount,
		MinOrder:        input.MinOrder,
		StartsAt:        input.StartsAt,
		EndsAt:          input.EndsAt,
		Quantity:        input.Quantity,
	}

	if err := s.vouchers.Create(ctx, voucher); err != nil {
		return nil, fmt.Errorf("create voucher: %w", err)
	}

	if len(input.VariantIDs) > 0 {
		if err := s.vouchers.SetVariantScope(ctx, voucher.ID, input.VariantIDs); err != nil {
			return nil, fmt.Errorf("set voucher scope: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "voucher created",
		slog.Int64("voucher_id", voucher.ID),
		slog.String("code", voucher.Code),
	)

	return voucher, nil
}

// Get retrieves a voucher by id.
func (s *VoucherService) Get(ctx context.Context, id int64) (*domain.Voucher, error) {
	voucher, err := s.vouchers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	return voucher, nil
}

// List retrieves one page of vouchers.
func (s *VoucherService) List(ctx context.Context, params pagination.Params) ([]domain.Voucher, int, error) {
	vouchers, total, err := s.vouchers.List(ctx, repository.Page{Limit: params.PerPage, Offset: params.Offset})
	if err != nil {
		return nil, 0, fmt.Errorf("list vouchers: %w", err)
	}
	return vouchers, total, nil
}

// UpdateVoucherInput holds the partial-update fields for a voucher. Nil
// fields are left unchanged.
type UpdateVoucherInput struct {
	Code            *string
	DiscountPercent *int
	MaxDiscount     *int64
	MinOrder        *int64
	StartsAt        *time.Time
	EndsAt          *time.Time
	Quantity        *int
	VariantIDs      []int64
}

// Update applies a partial update to a voucher. A non-nil VariantIDs replaces
// the variant scope; an empty non-nil slice clears it.
func (s *VoucherService) Update(ctx context.Context, id int64, input UpdateVoucherInput) (*domain.Voucher, error) {
	voucher, err := s.vouchers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}

	if input.Code != nil {
		voucher.Code = strings.ToUpper(strings.TrimSpace(*input.Code))
	}
	if input.DiscountPercent != nil {
		voucher.DiscountPercent = *input.DiscountPercent
	}
	if input.MaxDiscount != nil {
		voucher.MaxDiscount = *input.MaxDiscount
	}
	if input.MinOrder != nil {
		voucher.MinOrder = *input.MinOrder
	}
	if input.StartsAt != nil {
		voucher.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		voucher.EndsAt = *input.EndsAt
	}
	if input.Quantity != nil {
		voucher.Quantity = *input.Quantity
	}

	if err := validateVoucherShape(voucher.DiscountPercent, voucher.StartsAt, voucher.EndsAt); err != nil {
		return nil, err
	}

	if err := s.vouchers.Update(ctx, voucher); err != nil {
		return nil, fmt.Errorf("update voucher: %w", err)
	}

	if input.VariantIDs != nil {
		if err := s.vouchers.SetVariantScope(ctx, id, input.VariantIDs); err != nil {
			return nil, fmt.Errorf("set voucher scope: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "voucher updated",
		slog.Int64("voucher_id", id),
	)

	return voucher, nil
}

// Delete removes a voucher.
func (s *VoucherService) Delete(ctx context.Context, id int64) error {
	if err := s.vouchers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete voucher: %w", err)
	}

	s.logger.InfoContext(ctx, "voucher deleted",
		slog.Int64("voucher_id", id),
	)

	return nil
}

// Claim records a user's claim on a voucher by code.
func (s *VoucherService) Claim(ctx context.Context, userID int64, code string) (*domain.UserVoucher, error) {
	voucher, err := s.vouchers.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}

	now := time.Now().UTC()
	if now.After(voucher.EndsAt) {
		return nil, apperrors.InvalidInput("voucher has expired")
	}
	if voucher.Quantity <= 0 {
		return nil, apperrors.Conflict("voucher has no remaining quantity")
	}

	uv, err := s.vouchers.Claim(ctx, userID, voucher.ID)
	if err != nil {
		return nil, fmt.Errorf("claim voucher: %w", err)
	}

	s.logger.InfoContext(ctx, "voucher claimed",
		slog.Int64("voucher_id", voucher.ID),
		slog.Int64("user_id", userID),
	)

	return uv, nil
}

// ListClaimed retrieves one page of the user's claimed vouchers.
func (s *VoucherService) ListClaimed(ctx context.Context, userID int64, params pagination.Params) ([]domain.UserVoucher, int, error) {
	vouchers, total, err := s.vouchers.ListUserVouchers(ctx, userID, repository.Page{Limit: params.PerPage, Offset: params.Offset})
	if err != nil {
		return nil, 0, fmt.Errorf("list user vouchers: %w", err)
	}
	return vouchers, total, nil
}

func validateVoucherShape(discountPercent int, startsAt, endsAt time.Time) error {
	if discountPercent < 1 || discountPercent > 100 {
		return apperrors.InvalidInput("discount percent must be between 1 and 100")
	}
	if !endsAt.After(startsAt) {
		return apperrors.InvalidInput("voucher end must be after its start")
	}
	return nil
}
