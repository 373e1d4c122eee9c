package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/service"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/httputil"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
)

// ProductHandler handles HTTP requests for product and variant endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	ShopOfficeID int64  `json:"shop_office_id" validate:"required,gt=0"`
	CategoryID   *int64 `json:"category_id" validate:"omitempty,gt=0"`
	Name         string `json:"name" validate:"required,min=1,max=500"`
	Description  string `json:"description"`
	Status       string `json:"status" validate:"omitempty,oneof=draft published archived"`
	BasePrice    int64  `json:"base_price" validate:"required,gte=0"`
	Currency     string `json:"currency" validate:"required,len=3"`
}

// UpdateProductRequest is the JSON request body for updating a product.
type UpdateProductRequest struct {
	CategoryID  *int64  `json:"category_id" validate:"omitempty,gt=0"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=500"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=draft published archived"`
	BasePrice   *int64  `json:"base_price" validate:"omitempty,gte=0"`
	Currency    *string `json:"currency" validate:"omitempty,len=3"`
}

// CreateVariantRequest is the JSON request body for adding a product variant.
type CreateVariantRequest struct {
	ColorID     *int64 `json:"color_id" validate:"omitempty,gt=0"`
	Size        string `json:"size" validate:"required,max=20"`
	SKU         string `json:"sku" validate:"required,min=1,max=100"`
	Price       int64  `json:"price" validate:"required,gte=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	WeightGrams int    `json:"weight_grams" validate:"gte=0"`
	LengthCm    int    `json:"length_cm" validate:"gte=0"`
	WidthCm     int    `json:"width_cm" validate:"gte=0"`
	HeightCm    int    `json:"height_cm" validate:"gte=0"`
}

// UpdateVariantRequest is the JSON request body for updating a product variant.
type UpdateVariantRequest struct {
	ColorID     *int64  `json:"color_id" validate:"omitempty,gt=0"`
	Size        *string `json:"size" validate:"omitempty,max=20"`
	SKU         *string `json:"sku" validate:"omitempty,min=1,max=100"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0"`
	WeightGrams *int    `json:"weight_grams" validate:"omitempty,gte=0"`
	LengthCm    *int    `json:"length_cm" validate:"omitempty,gte=0"`
	WidthCm     *int    `json:"width_cm" validate:"omitempty,gte=0"`
	HeightCm    *int    `json:"height_cm" validate:"omitempty,gte=0"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		Page:    1,
		PerPage: 10,
	}

	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if v := q.Get("per_page"); v != "" {
		if perPage, err := strconv.Atoi(v); err == nil && perPage > 0 {
			if perPage > 100 {
				perPage = 100
			}
			filter.PerPage = perPage
		}
	}
	if v := q.Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "category_id must be a valid positive integer"},
			})
			return
		}
		filter.CategoryID = &id
	}
	if v := q.Get("shop_office_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "shop_office_id must be a valid positive integer"},
			})
			return
		}
		filter.ShopOfficeID = &id
	}
	if v := q.Get("status"); v != "" {
		if !domain.IsValidProductStatus(v) {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "status must be one of: draft, published, archived"},
			})
			return
		}
		filter.Status = &v
	}
	if v := q.Get("search"); v != "" {
		filter.Search = &v
	}
	if v := q.Get("min_price"); v != "" {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "min_price must be a valid number"},
			})
			return
		}
		filter.MinPrice = &price
	}
	if v := q.Get("max_price"); v != "" {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "max_price must be a valid number"},
			})
			return
		}
		filter.MaxPrice = &price
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "min_price must not exceed max_price"},
		})
		return
	}

	products, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	params := pagination.Params{Page: filter.Page, PerPage: filter.PerPage}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pagination.NewResult(products, total, params)})
}

// GetProduct handles GET /api/v1/products/{idOrSlug}
// It accepts both a numeric id and a slug for lookup.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")
	if idOrSlug == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "product id or slug is required"},
		})
		return
	}

	var (
		detail *domain.ProductDetail
		err    error
	)

	if id, parseErr := strconv.ParseInt(idOrSlug, 10, 64); parseErr == nil && id > 0 {
		detail, err = h.service.Get(r.Context(), id)
	} else {
		detail, err = h.service.GetBySlug(r.Context(), idOrSlug)
	}

	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.service.Create(r.Context(), service.CreateProductInput{
		ShopOfficeID: req.ShopOfficeID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		Status:       req.Status,
		BasePrice:    req.BasePrice,
		Currency:     req.Currency,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.service.Update(r.Context(), id, service.UpdateProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		BasePrice:   req.BasePrice,
		Currency:    req.Currency,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
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

// CreateVariant handles POST /api/v1/products/{id}/variants
func (h *ProductHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req CreateVariantRequest
	if !decodeBody(w, r, &req) {
		return
	}

	variant, err := h.service.CreateVariant(r.Context(), productID, service.CreateVariantInput{
		ColorID:     req.ColorID,
		Size:        req.Size,
		SKU:         req.SKU,
		Price:       req.Price,
		Stock:       req.Stock,
		WeightGrams: req.WeightGrams,
		LengthCm:    req.LengthCm,
		WidthCm:     req.WidthCm,
		HeightCm:    req.HeightCm,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: variant})
}

// UpdateVariant handles PUT /api/v1/products/{id}/variants/{variantID}
func (h *ProductHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	variantID, ok := httputil.ParseID(w, chi.URLParam(r, "variantID"))
	if !ok {
		return
	}

	var req UpdateVariantRequest
	if !decodeBody(w, r, &req) {
		return
	}

	variant, err := h.service.UpdateVariant(r.Context(), variantID, service.UpdateVariantInput{
		ColorID:     req.ColorID,
		Size:        req.Size,
		SKU:         req.SKU,
		Price:       req.Price,
		Stock:       req.Stock,
		WeightGrams: req.WeightGrams,
		LengthCm:    req.LengthCm,
		WidthCm:     req.WidthCm,
		HeightCm:    req.HeightCm,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: variant})
}

// DeleteVariant handles DELETE /api/v1/products/{id}/variants/{variantID}
func (h *ProductHandler) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	variantID, ok := httputil.ParseID(w, chi.URLParam(r, "variantID"))
	if !ok {
		return
	}

	if err := h.service.DeleteVariant(r.Context(), variantID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}
