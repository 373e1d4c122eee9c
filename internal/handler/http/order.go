package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/service"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/httputil"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/middleware"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateOrderRequest is the JSON request body for placing an order from the cart.
type CreateOrderRequest struct {
	AddressID   int64  `json:"address_id" validate:"required,gt=0"`
	VoucherCode string `json:"voucher_code" validate:"omitempty,max=50"`
	Note        string `json:"note" validate:"omitempty,max=1000"`
}

// UpdateOrderStatusRequest is the JSON request body for moving an order along
// its lifecycle.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed shipping delivered canceled"`
}

// --- Handlers ---

// CreateOrder handles POST /api/v1/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req CreateOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.service.Create(r.Context(), userID, service.CreateOrderInput{
		AddressID:   req.AddressID,
		VoucherCode: req.VoucherCode,
		Note:        req.Note,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// ListOrders handles GET /api/v1/orders
// Admins see all orders; other callers see their own.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	var userID *int64
	if middleware.RoleFromContext(r.Context()) != domain.RoleAdmin {
		id := middleware.UserIDFromContext(r.Context())
		userID = &id
	}

	orders, total, err := h.service.List(r.Context(), userID, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pagination.NewResult(orders, total, params)})
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var requester *int64
	if middleware.RoleFromContext(r.Context()) != domain.RoleAdmin {
		uid := middleware.UserIDFromContext(r.Context())
		requester = &uid
	}

	order, err := h.service.Get(r.Context(), id, requester)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// UpdateOrderStatus handles PUT /api/v1/orders/{id}/status
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// CancelOrder handles POST /api/v1/orders/{id}/cancel
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.service.Cancel(r.Context(), userID, id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}
