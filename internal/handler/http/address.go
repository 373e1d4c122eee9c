package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/service"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/httputil"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/middleware"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
)

// AddressHandler handles HTTP requests for the caller's shipping addresses.
type AddressHandler struct {
	service *service.AddressService
	logger  *slog.Logger
}

// NewAddressHandler creates a new address HTTP handler.
func NewAddressHandler(svc *service.AddressService, logger *slog.Logger) *AddressHandler {
	return &AddressHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateAddressRequest is the JSON request body for creating an address.
type CreateAddressRequest struct {
	Recipient    string `json:"recipient" validate:"required,min=1,max=255"`
	Phone        string `json:"phone" validate:"required,max=20"`
	ProvinceCode int    `json:"province_code" validate:"required,gt=0"`
	ProvinceName string `json:"province_name" validate:"required,max=100"`
	DistrictCode int    `json:"district_code" validate:"required,gt=0"`
	DistrictName string `json:"district_name" validate:"required,max=100"`
	WardCode     string `json:"ward_code" validate:"required,max=20"`
	WardName     string `json:"ward_name" validate:"required,max=100"`
	Street       string `json:"street" validate:"required,min=1,max=500"`
	IsDefault    bool   `json:"is_default"`
}

// UpdateAddressRequest is the JSON request body for updating an address.
type UpdateAddressRequest struct {
	Recipient    *string `json:"recipient" validate:"omitempty,min=1,max=255"`
	Phone        *string `json:"phone" validate:"omitempty,max=20"`
	ProvinceCode *int    `json:"province_code" validate:"omitempty,gt=0"`
	ProvinceName *string `json:"province_name" validate:"omitempty,max=100"`
	DistrictCode *int    `json:"district_code" validate:"omitempty,gt=0"`
	DistrictName *string `json:"district_name" validate:"omitempty,max=100"`
	WardCode     *string `json:"ward_code" validate:"omitempty,max=20"`
	WardName     *string `json:"ward_name" validate:"omitempty,max=100"`
	Street       *string `json:"street" validate:"omitempty,min=1,max=500"`
	IsDefault    *bool   `json:"is_default"`
}

// --- Handlers ---

// CreateAddress handles POST /api/v1/addresses
func (h *AddressHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req CreateAddressRequest
	if !decodeBody(w, r, &req) {
		return
	}

	address, err := h.service.Create(r.Context(), userID, service.CreateAddressInput{
		Recipient:    req.Recipient,
		Phone:        req.Phone,
		ProvinceCode: req.ProvinceCode,
		ProvinceName: req.ProvinceName,
		DistrictCode: req.DistrictCode,
		DistrictName: req.DistrictName,
		WardCode:     req.WardCode,
		WardName:     req.WardName,
		Street:       req.Street,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: address})
}

// ListAddresses handles GET /api/v1/addresses
func (h *AddressHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	params := pagination.FromRequest(r)

	addresses, total, err := h.service.List(r.Context(), userID, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pagination.NewResult(addresses, total, params)})
}

// GetAddress handles GET /api/v1/addresses/{id}
func (h *AddressHandler) GetAddress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	address, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: address})
}

// UpdateAddress handles PUT /api/v1/addresses/{id}
func (h *AddressHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateAddressRequest
	if !decodeBody(w, r, &req) {
		return
	}

	address, err := h.service.Update(r.Context(), userID, id, service.UpdateAddressInput{
		Recipient:    req.Recipient,
		Phone:        req.Phone,
		ProvinceCode: req.ProvinceCode,
		ProvinceName: req.ProvinceName,
		DistrictCode: req.DistrictCode,
		DistrictName: req.DistrictName,
		WardCode:     req.WardCode,
		WardName:     req.WardName,
		Street:       req.Street,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: address})
}

// DeleteAddress handles DELETE /api/v1/addresses/{id}
func (h *AddressHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}
