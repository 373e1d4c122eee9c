package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/service"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/httputil"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/middleware"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
)

// VoucherHandler handles HTTP requests for voucher and user-voucher endpoints.
type VoucherHandler struct {
	service *service.VoucherService
	logger  *slog.Logger
}

// NewVoucherHandler creates a new voucher HTTP handler.
func NewVoucherHandler(svc *service.VoucherService, logger *slog.Logger) *VoucherHandler {
	return &VoucherHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateVoucherRequest is the JSON request body for creating a voucher.
type CreateVoucherRequest struct {
	Code            string    `json:"code" validate:"required,min=3,max=50"`
	DiscountPercent int       `json:"discount_percent" validate:"required,gte=1,lte=100"`
	MaxDiscount     int64     `json:"max_discount" validate:"gte=0"`
	MinOrder        int64     `json:"min_order" validate:"gte=0"`
	StartsAt        time.Time `json:"starts_at" validate:"required"`
	EndsAt          time.Time `json:"ends_at" validate:"required"`
	Quantity        int       `json:"quantity" validate:"required,gt=0"`
	VariantIDs      []int64   `json:"variant_ids" validate:"omitempty,dive,gt=0"`
}

// UpdateVoucherRequest is the JSON request body for updating a voucher.
type UpdateVoucherRequest struct {
	Code            *string    `json:"code" validate:"omitempty,min=3,max=50"`
	DiscountPercent *int       `json:"discount_percent" validate:"omitempty,gte=1,lte=100"`
	MaxDiscount     *int64     `json:"max_discount" validate:"omitempty,gte=0"`
	MinOrder        *int64     `json:"min_order" validate:"omitempty,gte=0"`
	StartsAt        *time.Time `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at"`
	Quantity        *int       `json:"quantity" validate:"omitempty,gte=0"`
	VariantIDs      []int64    `json:"variant_ids" validate:"omitempty,dive,gt=0"`
}

// ClaimVoucherRequest is the JSON request body for claiming a voucher by code.
type ClaimVoucherRequest struct {
	Code string `json:"code" validate:"required,min=3,max=50"`
}

// --- Handlers ---

// CreateVoucher handles POST /api/v1/vouchers
func (h *VoucherHandler) CreateVoucher(w http.ResponseWriter, r *http.Request) {
	var req CreateVoucherRequest
	if !decodeBody(w, r, &req) {
		return
	}

	voucher, err := h.service.Create(r.Context(), service.CreateVoucherInput{
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		MaxDiscount:     req.MaxDiscount,
		MinOrder:        req.MinOrder,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		Quantity:        req.Quantity,
		VariantIDs:      req.VariantIDs,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: voucher})
}

// ListVouchers handles GET /api/v1/vouchers
func (h *VoucherHandler) ListVouchers(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	vouchers, total, err := h.service.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pagination.NewResult(vouchers, total, params)})
}

// GetVoucher handles GET /api/v1/vouchers/{id}
func (h *VoucherHandler) GetVoucher(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	voucher, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: voucher})
}

// UpdateVoucher handles PUT /api/v1/vouchers/{id}
func (h *VoucherHandler) UpdateVoucher(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateVoucherRequest
	if !decodeBody(w, r, &req) {
		return
	}

	voucher, err := h.service.Update(r.Context(), id, service.UpdateVoucherInput{
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		MaxDiscount:     req.MaxDiscount,
		MinOrder:        req.MinOrder,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		Quantity:        req.Quantity,
		VariantIDs:      req.VariantIDs,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: voucher})
}

// DeleteVoucher handles DELETE /api/v1/vouchers/{id}
func (h *VoucherHandler) DeleteVoucher(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}

// ClaimVoucher handles POST /api/v1/user-vouchers
func (h *VoucherHandler) ClaimVoucher(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req ClaimVoucherRequest
	if !decodeBody(w, r, &req) {
		return
	}

	claimed, err := h.service.Claim(r.Context(), userID, req.Code)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: claimed})
}

// ListUserVouchers handles GET /api/v1/user-vouchers
func (h *VoucherHandler) ListUserVouchers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	params := pagination.FromRequest(r)

	vouchers, total, err := h.service.ListClaimed(r.Context(), userID, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pagination.NewResult(vouchers, total, params)})
}
