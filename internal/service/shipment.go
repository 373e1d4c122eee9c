package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/carrier"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/crud"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/event"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
)

// Package is one carrier package: all items of an order that ship from the
// same shop office.
type Package struct {
	ShopOfficeID int64
	WeightGrams  int
	ItemCount    int
	LengthCm     int
	WidthCm      int
	HeightCm     int
	Items        []domain.OrderItem
}

// BuildPackages groups order items by shop office in one pass. Per group:
// weight and item count are summed, dimensions take the per-item maximum.
// Group order follows first appearance in the input.
func BuildPackages(items []domain.OrderItem) []Package {
	var (
		packages []Package
		index    = make(map[int64]int)
	)

	for _, item := range items {
		i, ok := index[item.ShopOfficeID]
		if !ok {
			i = len(packages)
			index[item.ShopOfficeID] = i
			packages = append(packages, Package{ShopOfficeID: item.ShopOfficeID})
		}

		p := &packages[i]
		p.WeightGrams += item.WeightGrams * item.Quantity
		p.ItemCount += item.Quantity
		if item.LengthCm > p.LengthCm {
			p.LengthCm = item.LengthCm
		}
		if item.WidthCm > p.WidthCm {
			p.WidthCm = item.WidthCm
		}
		if item.HeightCm > p.HeightCm {
			p.HeightCm = item.HeightCm
		}
		p.Items = append(p.Items, item)
	}

	return packages
}

// CarrierGateway is the subset of the carrier client the shipment service
// uses.
type CarrierGateway interface {
	Code() string
	CalculateFee(ctx context.Context, req carrier.FeeRequest) (*carrier.FeeResponse, error)
	CreateOrder(ctx context.Context, req carrier.OrderRequest) (*carrier.OrderResponse, error)
	CancelOrder(ctx context.Context, orderCode string) error
	TrackOrder(ctx context.Context, orderCode string) (*carrier.TrackResponse, error)
}

// ShipmentService builds carrier packages for confirmed orders, one carrier
// order per shop office.
type ShipmentService struct {
	shipments repository.ShipmentRepository
	orders    repository.OrderRepository
	offices   *crud.Repository[domain.ShopOffice]
	gateway   CarrierGateway
	events    *event.Producer
	logger    *slog.Logger
}

// NewShipmentService creates a new shipment service.
func NewShipmentService(
	shipments repository.ShipmentRepository,
	orders repository.OrderRepository,
	offices *crud.Repository[domain.ShopOffice],
	gateway CarrierGateway,
	events *event.Producer,
	logger *slog.Logger,
) *ShipmentService {
	return &ShipmentService{
		shipments: shipments,
		orders:    orders,
		offices:   offices,
		gateway:   gateway,
		events:    events,
		logger:    logger,
	}
}

// CreateForOrder builds and places one carrier order per shop office of a
// confirmed order, then moves the order to shipping. If a later shop's
// carrier order fails, the already-placed carrier orders are cancelled on a
// best effort basis and the whole operation fails.
func (s *ShipmentService) CreateForOrder(ctx context.Context, orderID int64) ([]domain.Shipment, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.Status != domain.OrderStatusConfirmed {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot ship order in status %q", order.Status))
	}

	existing, err := s.shipments.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	if len(existing) > 0 {
		return nil, apperrors.Conflict("order already has shipments")
	}

	items, err := s.orders.GetItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}

	packages := BuildPackages(items)
	if len(packages) == 0 {
		return nil, apperrors.InvalidInput("order has no items to ship")
	}

	var (
		shipments []domain.Shipment
		placed    []string
	)

	for _, pkg := range packages {
		office, err := s.offices.GetByID(ctx, pkg.ShopOfficeID)
		if err != nil {
			s.compensate(ctx, placed)
			return nil, apperrors.InvalidInput(fmt.Sprintf("shipment failed for shop office %d: %v", pkg.ShopOfficeID, err))
		}

		req := buildCarrierRequest(order, office, pkg)

		fee, err := s.gateway.CalculateFee(ctx, carrier.FeeRequest{
			FromDistrictID: office.DistrictCode,
			ToDistrictID:   order.ShippingAddress.DistrictCode,
			ToWardCode:     order.ShippingAddress.WardCode,
			WeightGrams:    pkg.WeightGrams,
			LengthCm:       pkg.LengthCm,
			WidthCm:        pkg.WidthCm,
			HeightCm:       pkg.HeightCm,
		})
		if err != nil {
			s.compensate(ctx, placed)
			return nil, classifyCarrierFailure(pkg.ShopOfficeID, err)
		}

		resp, err := s.gateway.CreateOrder(ctx, req)
		if err != nil {
			s.compensate(ctx, placed)
			return nil, classifyCarrierFailure(pkg.ShopOfficeID, err)
		}
		placed = append(placed, resp.OrderCode)

		shipments = append(shipments, domain.Shipment{
			OrderID:      orderID,
			ShopOfficeID: pkg.ShopOfficeID,
			CarrierCode:  s.gateway.Code(),
			TrackingCode: resp.OrderCode,
			Status:       domain.ShipmentStatusCreated,
			Fee:          fee.Total,
			Currency:     order.Currency,
			WeightGrams:  pkg.WeightGrams,
			LengthCm:     pkg.LengthCm,
			WidthCm:      pkg.WidthCm,
			HeightCm:     pkg.HeightCm,
			ItemCount:    pkg.ItemCount,
		})
	}

	// One transaction for the whole batch: a store failure leaves no rows
	// behind, so after compensation the order can be retried.
	if err := s.shipments.CreateAll(ctx, shipments); err != nil {
		s.compensate(ctx, placed)
		return nil, fmt.Errorf("store shipments: %w", err)
	}
	for i := range shipments {
		s.events.ShipmentCreated(ctx, shipments[i].ID, orderID, shipments[i].ShopOfficeID)
	}

	if domain.CanTransitionOrder(order.Status, domain.OrderStatusShipping) {
		if err := s.orders.UpdateStatus(ctx, orderID, domain.OrderStatusShipping); err != nil {
			s.logger.WarnContext(ctx, "failed to move order to shipping",
				slog.Int64("order_id", orderID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "shipments created",
		slog.Int64("order_id", orderID),
		slog.Int("packages", len(shipments)),
	)

	return shipments, nil
}

func buildCarrierRequest(order *domain.Order, office *domain.ShopOffice, pkg Package) carrier.OrderRequest {
	items := make([]carrier.OrderItem, len(pkg.Items))
	for i, it := range pkg.Items {
		items[i] = carrier.OrderItem{
			Name:     it.ProductName,
			Code:     it.SKU,
			Quantity: it.Quantity,
		}
	}

	return carrier.OrderRequest{
		FromName:       office.Name,
		FromPhone:      office.Phone,
		FromDistrictID: office.DistrictCode,
		FromWardCode:   office.WardCode,
		FromAddress:    office.Street,
		ToName:         order.ShippingAddress.Recipient,
		ToPhone:        order.ShippingAddress.Phone,
		ToDistrictID:   order.ShippingAddress.DistrictCode,
		ToWardCode:     order.ShippingAddress.WardCode,
		ToAddress:      order.ShippingAddress.Street,
		WeightGrams:    pkg.WeightGrams,
		LengthCm:       pkg.LengthCm,
		WidthCm:        pkg.WidthCm,
		HeightCm:       pkg.HeightCm,
		Note:           order.Note,
		Items:          items,
	}
}

func (s *ShipmentService) compensate(ctx context.Context, placed []string) {
	for _, code := range placed {
		if err := s.gateway.CancelOrder(ctx, code); err != nil {
			s.logger.ErrorContext(ctx, "failed to cancel carrier order during compensation",
				slog.String("tracking_code", code),
				slog.String("error", err.Error()),
			)
		}
	}
}

func classifyCarrierFailure(shopOfficeID int64, err error) error {
	if errors.Is(err, apperrors.ErrServiceUnavail) {
		return err
	}
	return apperrors.InvalidInput(fmt.Sprintf("shipment failed for shop office %d: %v", shopOfficeID, err))
}

// Get retrieves a shipment by id.
func (s *ShipmentService) Get(ctx context.Context, id int64) (*domain.Shipment, error) {
	shipment, err := s.shipments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return shipment, nil
}

// ListByOrder retrieves all shipments of an order.
func (s *ShipmentService) ListByOrder(ctx context.Context, orderID int64) ([]domain.Shipment, error) {
	shipments, err := s.shipments.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	return shipments, nil
}

// List retrieves one page of shipments.
func (s *ShipmentService) List(ctx context.Context, params pagination.Params) ([]domain.Shipment, int, error) {
	shipments, total, err := s.shipments.List(ctx, repository.Page{Limit: params.PerPage, Offset: params.Offset})
	if err != nil {
		return nil, 0, fmt.Errorf("list shipments: %w", err)
	}
	return shipments, total, nil
}

// UpdateStatus sets a shipment's status to one of the known statuses.
func (s *ShipmentService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Shipment, error) {
	switch status {
	case domain.ShipmentStatusCreated, domain.ShipmentStatusPickedUp,
		domain.ShipmentStatusDelivering, domain.ShipmentStatusDelivered,
		domain.ShipmentStatusCanceled:
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid shipment status %q", status))
	}

	if err := s.shipments.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update shipment status: %w", err)
	}

	s.logger.InfoContext(ctx, "shipment status updated",
		slog.Int64("shipment_id", id),
		slog.String("status", status),
	)

	return s.Get(ctx, id)
}

// Track fetches the carrier's current view of a shipment.
func (s *ShipmentService) Track(ctx context.Context, id int64) (*carrier.TrackResponse, error) {
	shipment, err := s.shipments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get shipment: %w", err)
	}

	track, err := s.gateway.TrackOrder(ctx, shipment.TrackingCode)
	if err != nil {
		return nil, fmt.Errorf("track shipment: %w", err)
	}

	return track, nil
}

// Cancel cancels a shipment with the carrier and marks it canceled.
func (s *ShipmentService) Cancel(ctx context.Context, id int64) (*domain.Shipment, error) {
	shipment, err := s.shipments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get shipment: %w", err)
	}

	if shipment.Status == domain.ShipmentStatusDelivered || shipment.Status == domain.ShipmentStatusCanceled {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot cancel shipment in status %q", shipment.Status))
	}

	if err := s.gateway.CancelOrder(ctx, shipment.TrackingCode); err != nil {
		return nil, fmt.Errorf("cancel carrier order: %w", err)
	}

	return s.UpdateStatus(ctx, id, domain.ShipmentStatusCanceled)
}
