package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/service"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/httputil"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
)

// ShipmentHandler handles HTTP requests for shipment endpoints.
type ShipmentHandler struct {
	service *service.ShipmentService
	logger  *slog.Logger
}

// NewShipmentHandler creates a new shipment HTTP handler.
func NewShipmentHandler(svc *service.ShipmentService, logger *slog.Logger) *ShipmentHandler {
	return &ShipmentHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateShipmentRequest is the JSON request body for creating an order's shipments.
type CreateShipmentRequest struct {
	OrderID int64 `json:"order_id" validate:"required,gt=0"`
}

// UpdateShipmentStatusRequest is the JSON request body for updating a
// shipment's status.
type UpdateShipmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=created picked_up delivering delivered canceled"`
}

// --- Handlers ---

// CreateShipments handles POST /api/v1/shipments
// One shipment is created per shop office of the order's items.
func (h *ShipmentHandler) CreateShipments(w http.ResponseWriter, r *http.Request) {
	var req CreateShipmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	shipments, err := h.service.CreateForOrder(r.Context(), req.OrderID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: shipments})
}

// ListShipments handles GET /api/v1/shipments
// With order_id set it returns that order's shipments, otherwise one page of all.
func (h *ShipmentHandler) ListShipments(w http.ResponseWriter, r *http.Request) {
	if v := r.URL.Query().Get("order_id"); v != "" {
		orderID, ok := httputil.ParseID(w, v)
		if !ok {
			return
		}

		shipments, err := h.service.ListByOrder(r.Context(), orderID)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: shipments})
		return
	}

	params := pagination.FromRequest(r)

	shipments, total, err := h.service.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pagination.NewResult(shipments, total, params)})
}

// GetShipment handles GET /api/v1/shipments/{id}
func (h *ShipmentHandler) GetShipment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	shipment, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: shipment})
}

// UpdateShipmentStatus handles PUT /api/v1/shipments/{id}/status
func (h *ShipmentHandler) UpdateShipmentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateShipmentStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	shipment, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: shipment})
}

// TrackShipment handles GET /api/v1/shipments/{id}/track
func (h *ShipmentHandler) TrackShipment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	track, err := h.service.Track(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: track})
}

// CancelShipment handles POST /api/v1/shipments/{id}/cancel
func (h *ShipmentHandler) CancelShipment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	shipment, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: shipment})
}
