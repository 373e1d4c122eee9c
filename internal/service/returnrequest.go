package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/event"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
)

// ReturnRequestService handles return requests on delivered orders.
type ReturnRequestService struct {
	returns repository.ReturnRequestRepository
	orders  repository.OrderRepository
	events  *event.Producer
	logger  *slog.Logger
}

// NewReturnRequestService creates a new return-request service.
func NewReturnRequestService(
	returns repository.ReturnRequestRepository,
	orders repository.OrderRepository,
	events *event.Producer,
	logger *slog.Logger,
) *ReturnRequestService {
	return &ReturnRequestService{
		returns: returns,
		orders:  orders,
		events:  events,
		logger:  logger,
	}
}

// Create opens a return request for one of the user's delivered orders.
func (s *ReturnRequestService) Create(ctx context.Context, userID, orderID int64, reason string) (*domain.ReturnRequest, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.UserID != userID {
		return nil, apperrors.NotFound("order", orderID)
	}
	if order.Status != domain.OrderStatusDelivered {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot return order in status %q", order.Status))
	}

	req := &domain.ReturnRequest{
		OrderID: orderID,
		UserID:  userID,
		Reason:  reason,
		Status:  domain.ReturnStatusRequested,
	}

	if err := s.returns.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create return request: %w", err)
	}

	s.events.ReturnRequested(ctx, req.ID, orderID, userID)

	s.logger.InfoContext(ctx, "return request created",
		slog.Int64("return_id", req.ID),
		slog.Int64("order_id", orderID),
	)

	return req, nil
}

// Get retrieves a return request. A non-nil requester restricts access to
// that user's own requests.
func (s *ReturnRequestService) Get(ctx context.Context, id int64, requester *int64) (*domain.ReturnRequest, error) {
	req, err := s.returns.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get return request: %w", err)
	}

	if requester != nil && req.UserID != *requester {
		return nil, apperrors.NotFound("return request", id)
	}

	return req, nil
}

// List retrieves one page of return requests. A non-nil userID restricts the
// result to that user's requests.
func (s *ReturnRequestService) List(ctx context.Context, userID *int64, params pagination.Params) ([]domain.ReturnRequest, int, error) {
	requests, total, err := s.returns.List(ctx, userID, repository.Page{Limit: params.PerPage, Offset: params.Offset})
	if err != nil {
		return nil, 0, fmt.Errorf("list return requests: %w", err)
	}
	return requests, total, nil
}

// UpdateStatus moves a return request along its lifecycle: requested to
// approved or rejected, approved to refunded. Illegal transitions are
// rejected with CONFLICT.
func (s *ReturnRequestService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.ReturnRequest, error) {
	req, err := s.returns.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get return request: %w", err)
	}

	if !domain.CanTransitionReturn(req.Status, status) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot transition return request from %q to %q", req.Status, status))
	}

	if err := s.returns.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update return request status: %w", err)
	}

	s.events.ReturnResolved(ctx, id, status)

	s.logger.InfoContext(ctx, "return request status updated",
		slog.Int64("return_id", id),
		slog.String("from", req.Status),
		slog.String("to", status),
	)

	req.Status = status
	return req, nil
}
