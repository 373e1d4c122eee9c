package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/event"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
)

// OrderService handles order placement and status transitions.
type OrderService struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	addresses repository.AddressRepository
	vouchers  repository.VoucherRepository
	cart      *CartService
	events    *event.Producer
	logger    *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	addresses repository.AddressRepository,
	vouchers repository.VoucherRepository,
	cart *CartService,
	events *event.Producer,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		addresses: addresses,
		vouchers:  vouchers,
		cart:      cart,
		events:    events,
		logger:    logger,
	}
}

// CreateOrderInput holds the data for placing an order from the cart.
type CreateOrderInput struct {
	AddressID   int64
	VoucherCode string
	Note        string
}

// Create places an order from the user's cart: snapshot name and price per
// item, apply the voucher if given, insert order and items in one
// transaction, then clear the cart and publish order.created.
func (s *OrderService) Create(ctx context.Context, userID int64, input CreateOrderInput) (*domain.OrderDetail, error) {
	detail, err := s.cart.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(detail.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	address, err := s.addresses.GetByID(ctx, input.AddressID)
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	if address.UserID != userID {
		return nil, apperrors.NotFound("address", input.AddressID)
	}

	var (
		items    []domain.OrderItem
		subtotal int64
		currency string
	)

	for _, ci := range detail.Items {
		variant, err := s.products.GetVariant(ctx, ci.VariantID)
		if err != nil {
			return nil, fmt.Errorf("get variant: %w", err)
		}
		if variant.Stock < ci.Quantity {
			return nil, apperrors.Conflict(fmt.Sprintf("insufficient stock for sku %q", variant.SKU))
		}

		items = append(items, domain.OrderItem{
			VariantID:    ci.VariantID,
			ProductName:  ci.ProductName,
			Size:         variant.Size,
			SKU:          variant.SKU,
			UnitPrice:    variant.Price,
			Quantity:     ci.Quantity,
			WeightGrams:  variant.WeightGrams,
			LengthCm:     variant.LengthCm,
			WidthCm:      variant.WidthCm,
			HeightCm:     variant.HeightCm,
			ShopOfficeID: ci.ShopOfficeID,
		})
		subtotal += variant.Price * int64(ci.Quantity)
		if currency == "" {
			currency = ci.Currency
		}
	}

	var (
		discount      int64
		voucherID     *int64
		userVoucherID *int64
	)

	if input.VoucherCode != "" {
		voucher, uv, err := s.validateVoucher(ctx, userID, input.VoucherCode, subtotal, items)
		if err != nil {
			return nil, err
		}
		discount = voucher.DiscountFor(subtotal)
		voucherID = &voucher.ID
		userVoucherID = &uv.ID
	}

	order := &domain.Order{
		UserID:    userID,
		Status:    domain.OrderStatusPending,
		Subtotal:  subtotal,
		Discount:  discount,
		Total:     subtotal - discount,
		Currency:  currency,
		VoucherID: voucherID,
		ShippingAddress: domain.ShippingAddress{
			Recipient:    address.Recipient,
			Phone:        address.Phone,
			ProvinceCode: address.ProvinceCode,
			ProvinceName: address.ProvinceName,
			DistrictCode: address.DistrictCode,
			DistrictName: address.DistrictName,
			WardCode:     address.WardCode,
			WardName:     address.WardName,
			Street:       address.Street,
		},
		Note: input.Note,
	}

	if err := s.orders.CreateWithItems(ctx, order, items, userVoucherID); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.cart.Clear(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear cart after order",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.events.OrderCreated(ctx, order.ID, userID, order.Total, order.Currency)

	s.logger.InfoContext(ctx, "order created",
		slog.Int64("order_id", order.ID),
		slog.Int64("user_id", userID),
		slog.Int64("total", order.Total),
	)

	return &domain.OrderDetail{Order: *order, Items: items}, nil
}

func (s *OrderService) validateVoucher(ctx context.Context, userID int64, code string, subtotal int64, items []domain.OrderItem) (*domain.Voucher, *domain.UserVoucher, error) {
	voucher, err := s.vouchers.GetByCode(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("get voucher: %w", err)
	}

	now := time.Now().UTC()
	if now.Before(voucher.StartsAt) || now.After(voucher.EndsAt) {
		return nil, nil, apperrors.InvalidInput("voucher is not in its validity window")
	}
	if voucher.Quantity <= 0 {
		return nil, nil, apperrors.Conflict("voucher has no remaining quantity")
	}
	if subtotal < voucher.MinOrder {
		return nil, nil, apperrors.InvalidInput("order subtotal is below the voucher minimum")
	}

	scope, err := s.vouchers.GetVariantScope(ctx, voucher.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("get voucher scope: %w", err)
	}
	if len(scope) > 0 && !anyVariantInScope(items, scope) {
		return nil, nil, apperrors.InvalidInput("voucher does not apply to any item in the cart")
	}

	uv, err := s.vouchers.GetUserVoucher(ctx, userID, voucher.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.InvalidInput("voucher has not been claimed")
		}
		return nil, nil, fmt.Errorf("get user voucher: %w", err)
	}
	if uv.UsedAt != nil {
		return nil, nil, apperrors.Conflict("voucher has already been used")
	}

	return voucher, uv, nil
}

func anyVariantInScope(items []domain.OrderItem, scope []int64) bool {
	inScope := make(map[int64]struct{}, len(scope))
	for _, id := range scope {
		inScope[id] = struct{}{}
	}
	for _, item := range items {
		if _, ok := inScope[item.VariantID]; ok {
			return true
		}
	}
	return false
}

// Get retrieves an order with its items. A non-nil requester restricts
// access to that user's own orders.
func (s *OrderService) Get(ctx context.Context, id int64, requester *int64) (*domain.OrderDetail, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if requester != nil && order.UserID != *requester {
		return nil, apperrors.NotFound("order", id)
	}

	items, err := s.orders.GetItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}

	return &domain.OrderDetail{Order: *order, Items: items}, nil
}

// List retrieves one page of orders. A non-nil userID restricts the result
// to that user's orders.
func (s *OrderService) List(ctx context.Context, userID *int64, params pagination.Params) ([]domain.Order, int, error) {
	orders, total, err := s.orders.List(ctx, userID, repository.Page{Limit: params.PerPage, Offset: params.Offset})
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus moves an order along its lifecycle. Illegal transitions are
// rejected with CONFLICT.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if !domain.CanTransitionOrder(order.Status, status) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot transition order from %q to %q", order.Status, status))
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	s.events.OrderStatusChanged(ctx, id, order.Status, status)

	s.logger.InfoContext(ctx, "order status updated",
		slog.Int64("order_id", id),
		slog.String("from", order.Status),
		slog.String("to", status),
	)

	order.Status = status
	return order, nil
}

// Cancel cancels an order on behalf of its owner while it is still pending.
func (s *OrderService) Cancel(ctx context.Context, userID, id int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.UserID != userID {
		return nil, apperrors.NotFound("order", id)
	}
	if order.Status != domain.OrderStatusPending {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot cancel order in status %q", order.Status))
	}

	return s.UpdateStatus(ctx, id, domain.OrderStatusCanceled)
}
