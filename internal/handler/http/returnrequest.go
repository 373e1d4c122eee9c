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

// ReturnRequestHandler handles HTTP requests for return-request endpoints.
type ReturnRequestHandler struct {
	service *service.ReturnRequestService
	logger  *slog.Logger
}

// NewReturnRequestHandler creates a new return-request HTTP handler.
func NewReturnRequestHandler(svc *service.ReturnRequestService, logger *slog.Logger) *ReturnRequestHandler {
	return &ReturnRequestHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateReturnRequest is the JSON request body for opening a return request.
type CreateReturnRequest struct {
	OrderID int64  `json:"order_id" validate:"required,gt=0"`
	Reason  string `json:"reason" validate:"required,min=1,max=1000"`
}

// UpdateReturnStatusRequest is the JSON request body for resolving a return
// request.
type UpdateReturnStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected refunded"`
}

// --- Handlers ---

// CreateReturn handles POST /api/v1/return-requests
func (h *ReturnRequestHandler) CreateReturn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req CreateReturnRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ret, err := h.service.Create(r.Context(), userID, req.OrderID, req.Reason)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: ret})
}

// ListReturns handles GET /api/v1/return-requests
// Admins see all return requests; other callers see their own.
func (h *ReturnRequestHandler) ListReturns(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	var userID *int64
	if middleware.RoleFromContext(r.Context()) != domain.RoleAdmin {
		id := middleware.UserIDFromContext(r.Context())
		userID = &id
	}

	returns, total, err := h.service.List(r.Context(), userID, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pagination.NewResult(returns, total, params)})
}

// GetReturn handles GET /api/v1/return-requests/{id}
func (h *ReturnRequestHandler) GetReturn(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var requester *int64
	if middleware.RoleFromContext(r.Context()) != domain.RoleAdmin {
		uid := middleware.UserIDFromContext(r.Context())
		requester = &uid
	}

	ret, err := h.service.Get(r.Context(), id, requester)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ret})
}

// UpdateReturnStatus handles PUT /api/v1/return-requests/{id}/status
func (h *ReturnRequestHandler) UpdateReturnStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateReturnStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ret, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ret})
}
