package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/carrier"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/httputil"
)

// CarrierHandler exposes read-only carrier lookups: administrative divisions,
// shipping fee quotes and order previews.
type CarrierHandler struct {
	client *carrier.Client
	logger *slog.Logger
}

// NewCarrierHandler creates a new carrier lookup HTTP handler.
func NewCarrierHandler(client *carrier.Client, logger *slog.Logger) *CarrierHandler {
	return &CarrierHandler{
		client: client,
		logger: logger,
	}
}

// FeeQuoteRequest is the JSON request body for a shipping fee quote.
type FeeQuoteRequest struct {
	FromDistrictID int    `json:"from_district_id" validate:"required,gt=0"`
	ToDistrictID   int    `json:"to_district_id" validate:"required,gt=0"`
	ToWardCode     string `json:"to_ward_code" validate:"required"`
	WeightGrams    int    `json:"weight_grams" validate:"required,gt=0"`
	LengthCm       int    `json:"length_cm" validate:"gte=0"`
	WidthCm        int    `json:"width_cm" validate:"gte=0"`
	HeightCm       int    `json:"height_cm" validate:"gte=0"`
}

// PreviewOrderItem is one line of an order preview request.
type PreviewOrderItem struct {
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// PreviewOrderRequest is the JSON request body for a carrier order preview.
type PreviewOrderRequest struct {
	FromName       string             `json:"from_name" validate:"required"`
	FromPhone      string             `json:"from_phone" validate:"required"`
	FromDistrictID int                `json:"from_district_id" validate:"required,gt=0"`
	FromWardCode   string             `json:"from_ward_code" validate:"required"`
	FromAddress    string             `json:"from_address" validate:"required"`
	ToName         string             `json:"to_name" validate:"required"`
	ToPhone        string             `json:"to_phone" validate:"required"`
	ToDistrictID   int                `json:"to_district_id" validate:"required,gt=0"`
	ToWardCode     string             `json:"to_ward_code" validate:"required"`
	ToAddress      string             `json:"to_address" validate:"required"`
	CODAmount      int64              `json:"cod_amount" validate:"gte=0"`
	WeightGrams    int                `json:"weight_grams" validate:"required,gt=0"`
	LengthCm       int                `json:"length_cm" validate:"gte=0"`
	WidthCm        int                `json:"width_cm" validate:"gte=0"`
	HeightCm       int                `json:"height_cm" validate:"gte=0"`
	Note           string             `json:"note"`
	Items          []PreviewOrderItem `json:"items" validate:"required,min=1,dive"`
}

// ListProvinces handles GET /api/v1/shipping/provinces
func (h *CarrierHandler) ListProvinces(w http.ResponseWriter, r *http.Request) {
	provinces, err := h.client.Provinces(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: provinces})
}

// ListDistricts handles GET /api/v1/shipping/districts?province_id=
func (h *CarrierHandler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	provinceID, err := strconv.Atoi(r.URL.Query().Get("province_id"))
	if err != nil || provinceID <= 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "province_id must be a valid positive integer"},
		})
		return
	}

	districts, err := h.client.Districts(r.Context(), provinceID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: districts})
}

// ListWards handles GET /api/v1/shipping/wards?district_id=
func (h *CarrierHandler) ListWards(w http.ResponseWriter, r *http.Request) {
	districtID, err := strconv.Atoi(r.URL.Query().Get("district_id"))
	if err != nil || districtID <= 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "district_id must be a valid positive integer"},
		})
		return
	}

	wards, err := h.client.Wards(r.Context(), districtID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wards})
}

// QuoteFee handles POST /api/v1/shipping/fee
func (h *CarrierHandler) QuoteFee(w http.ResponseWriter, r *http.Request) {
	var req FeeQuoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fee, err := h.client.CalculateFee(r.Context(), carrier.FeeRequest{
		FromDistrictID: req.FromDistrictID,
		ToDistrictID:   req.ToDistrictID,
		ToWardCode:     req.ToWardCode,
		WeightGrams:    req.WeightGrams,
		LengthCm:       req.LengthCm,
		WidthCm:        req.WidthCm,
		HeightCm:       req.HeightCm,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: fee})
}

// PreviewOrder handles POST /api/v1/shipping/preview
func (h *CarrierHandler) PreviewOrder(w http.ResponseWriter, r *http.Request) {
	var req PreviewOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	items := make([]carrier.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = carrier.OrderItem{Name: item.Name, Code: item.Code, Quantity: item.Quantity}
	}

	preview, err := h.client.PreviewOrder(r.Context(), carrier.OrderRequest{
		FromName:       req.FromName,
		FromPhone:      req.FromPhone,
		FromDistrictID: req.FromDistrictID,
		FromWardCode:   req.FromWardCode,
		FromAddress:    req.FromAddress,
		ToName:         req.ToName,
		ToPhone:        req.ToPhone,
		ToDistrictID:   req.ToDistrictID,
		ToWardCode:     req.ToWardCode,
		ToAddress:      req.ToAddress,
		CODAmount:      req.CODAmount,
		WeightGrams:    req.WeightGrams,
		LengthCm:       req.LengthCm,
		WidthCm:        req.WidthCm,
		HeightCm:       req.HeightCm,
		Note:           req.Note,
		Items:          items,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: preview})
}
