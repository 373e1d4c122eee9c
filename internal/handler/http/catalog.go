package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/crud"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/httputil"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/slug"
)

// ColorHandler handles HTTP requests for color endpoints.
type ColorHandler struct {
	service *crud.Service[domain.Color]
	logger  *slog.Logger
}

// NewColorHandler creates a new color HTTP handler.
func NewColorHandler(svc *crud.Service[domain.Color], logger *slog.Logger) *ColorHandler {
	return &ColorHandler{service: svc, logger: logger}
}

// CreateColorRequest is the JSON request body for creating a color.
type CreateColorRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	HexCode string `json:"hex_code" validate:"required,hexcolor"`
}

// UpdateColorRequest is the JSON request body for updating a color.
type UpdateColorRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=100"`
	HexCode *string `json:"hex_code" validate:"omitempty,hexcolor"`
}

// CreateColor handles POST /api/v1/colors
func (h *ColorHandler) CreateColor(w http.ResponseWriter, r *http.Request) {
	var req CreateColorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	color, err := h.service.Create(r.Context(), &domain.Color{Name: req.Name, HexCode: req.HexCode})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: color})
}

// ListColors handles GET /api/v1/colors
func (h *ColorHandler) ListColors(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	colors, total, err := h.service.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pagination.NewResult(colors, total, params)})
}

// GetColor handles GET /api/v1/colors/{id}
func (h *ColorHandler) GetColor(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	color, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: color})
}

// UpdateColor handles PUT /api/v1/colors/{id}
func (h *ColorHandler) UpdateColor(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateColorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	color, err := h.service.Update(r.Context(), id, func(c *domain.Color) error {
		if req.Name != nil {
			c.Name = *req.Name
		}
		if req.HexCode != nil {
			c.HexCode = *req.HexCode
		}
		return nil
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: color})
}

// DeleteColor handles DELETE /api/v1/colors/{id}
func (h *ColorHandler) DeleteColor(w http.ResponseWriter, r *http.Request) {
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

// CategoryHandler handles HTTP requests for category endpoints.
type CategoryHandler struct {
	service *crud.Service[domain.Category]
	logger  *slog.Logger
}

// NewCategoryHandler creates a new category HTTP handler.
func NewCategoryHandler(svc *crud.Service[domain.Category], logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{service: svc, logger: logger}
}

// CreateCategoryRequest is the JSON request body for creating a category.
type CreateCategoryRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=255"`
	ParentID  *int64 `json:"parent_id" validate:"omitempty,gt=0"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
}

// UpdateCategoryRequest is the JSON request body for updating a category.
type UpdateCategoryRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=255"`
	ParentID  *int64  `json:"parent_id" validate:"omitempty,gt=0"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,gte=0"`
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.service.Create(r.Context(), &domain.Category{
		Name:      req.Name,
		Slug:      slug.Generate(req.Name),
		ParentID:  req.ParentID,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: category})
}

// ListCategories handles GET /api/v1/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	categories, total, err := h.service.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pagination.NewResult(categories, total, params)})
}

// GetCategory handles GET /api/v1/categories/{id}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: category})
}

// UpdateCategory handles PUT /api/v1/categories/{id}
// A name change regenerates the slug.
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.service.Update(r.Context(), id, func(c *domain.Category) error {
		if req.Name != nil {
			c.Name = *req.Name
			c.Slug = slug.Generate(*req.Name)
		}
		if req.ParentID != nil {
			c.ParentID = req.ParentID
		}
		if req.SortOrder != nil {
			c.SortOrder = *req.SortOrder
		}
		return nil
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: category})
}

// DeleteCategory handles DELETE /api/v1/categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
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

// ShopOfficeHandler handles HTTP requests for shop office endpoints.
type ShopOfficeHandler struct {
	service *crud.Service[domain.ShopOffice]
	logger  *slog.Logger
}

// NewShopOfficeHandler creates a new shop office HTTP handler.
func NewShopOfficeHandler(svc *crud.Service[domain.ShopOffice], logger *slog.Logger) *ShopOfficeHandler {
	return &ShopOfficeHandler{service: svc, logger: logger}
}

// CreateShopOfficeRequest is the JSON request body for creating a shop office.
type CreateShopOfficeRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=255"`
	Phone        string `json:"phone" validate:"required,max=20"`
	ProvinceCode int    `json:"province_code" validate:"required,gt=0"`
	DistrictCode int    `json:"district_code" validate:"required,gt=0"`
	WardCode     string `json:"ward_code" validate:"required,max=20"`
	Street       string `json:"street" validate:"required,min=1,max=500"`
}

// UpdateShopOfficeRequest is the JSON request body for updating a shop office.
type UpdateShopOfficeRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=255"`
	Phone        *string `json:"phone" validate:"omitempty,max=20"`
	ProvinceCode *int    `json:"province_code" validate:"omitempty,gt=0"`
	DistrictCode *int    `json:"district_code" validate:"omitempty,gt=0"`
	WardCode     *string `json:"ward_code" validate:"omitempty,max=20"`
	Street       *string `json:"street" validate:"omitempty,min=1,max=500"`
}

// CreateShopOffice handles POST /api/v1/shop-offices
func (h *ShopOfficeHandler) CreateShopOffice(w http.ResponseWriter, r *http.Request) {
	var req CreateShopOfficeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	office, err := h.service.Create(r.Context(), &domain.ShopOffice{
		Name:         req.Name,
		Phone:        req.Phone,
		ProvinceCode: req.ProvinceCode,
		DistrictCode: req.DistrictCode,
		WardCode:     req.WardCode,
		Street:       req.Street,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: office})
}

// ListShopOffices handles GET /api/v1/shop-offices
func (h *ShopOfficeHandler) ListShopOffices(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	offices, total, err := h.service.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pagination.NewResult(offices, total, params)})
}

// GetShopOffice handles GET /api/v1/shop-offices/{id}
func (h *ShopOfficeHandler) GetShopOffice(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	office, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: office})
}

// UpdateShopOffice handles PUT /api/v1/shop-offices/{id}
func (h *ShopOfficeHandler) UpdateShopOffice(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateShopOfficeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	office, err := h.service.Update(r.Context(), id, func(o *domain.ShopOffice) error {
		if req.Name != nil {
			o.Name = *req.Name
		}
		if req.Phone != nil {
			o.Phone = *req.Phone
		}
		if req.ProvinceCode != nil {
			o.ProvinceCode = *req.ProvinceCode
		}
		if req.DistrictCode != nil {
			o.DistrictCode = *req.DistrictCode
		}
		if req.WardCode != nil {
			o.WardCode = *req.WardCode
		}
		if req.Street != nil {
			o.Street = *req.Street
		}
		return nil
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: office})
}

// DeleteShopOffice handles DELETE /api/v1/shop-offices/{id}
func (h *ShopOfficeHandler) DeleteShopOffice(w http.ResponseWriter, r *http.Request) {
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
