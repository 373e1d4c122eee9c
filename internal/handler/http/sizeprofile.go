package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/crud"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/httputil"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/middleware"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
)

// SizeProfileHandler handles HTTP requests for the caller's size profiles.
// Profiles are user-owned: access to another user's profile reads as missing.
type SizeProfileHandler struct {
	service *crud.Service[domain.SizeProfile]
	logger  *slog.Logger
}

// NewSizeProfileHandler creates a new size profile HTTP handler.
func NewSizeProfileHandler(svc *crud.Service[domain.SizeProfile], logger *slog.Logger) *SizeProfileHandler {
	return &SizeProfileHandler{service: svc, logger: logger}
}

// CreateSizeProfileRequest is the JSON request body for creating a size profile.
type CreateSizeProfileRequest struct {
	Label        string `json:"label" validate:"required,min=1,max=100"`
	HeightCm     int    `json:"height_cm" validate:"required,gt=0,lte=300"`
	WeightKg     int    `json:"weight_kg" validate:"required,gt=0,lte=500"`
	Measurements string `json:"measurements" validate:"omitempty,max=1000"`
}

// UpdateSizeProfileRequest is the JSON request body for updating a size profile.
type UpdateSizeProfileRequest struct {
	Label        *string `json:"label" validate:"omitempty,min=1,max=100"`
	HeightCm     *int    `json:"height_cm" validate:"omitempty,gt=0,lte=300"`
	WeightKg     *int    `json:"weight_kg" validate:"omitempty,gt=0,lte=500"`
	Measurements *string `json:"measurements" validate:"omitempty,max=1000"`
}

// CreateSizeProfile handles POST /api/v1/size-profiles
func (h *SizeProfileHandler) CreateSizeProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req CreateSizeProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	profile, err := h.service.Create(r.Context(), &domain.SizeProfile{
		UserID:       userID,
		Label:        req.Label,
		HeightCm:     req.HeightCm,
		WeightKg:     req.WeightKg,
		Measurements: req.Measurements,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: profile})
}

// ListSizeProfiles handles GET /api/v1/size-profiles
func (h *SizeProfileHandler) ListSizeProfiles(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	params := pagination.FromRequest(r)

	profiles, total, err := h.service.ListBy(r.Context(), "user_id", userID, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pagination.NewResult(profiles, total, params)})
}

// GetSizeProfile handles GET /api/v1/size-profiles/{id}
func (h *SizeProfileHandler) GetSizeProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	profile, err := h.getOwned(r, id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: profile})
}

// UpdateSizeProfile handles PUT /api/v1/size-profiles/{id}
func (h *SizeProfileHandler) UpdateSizeProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateSizeProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := h.getOwned(r, id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	profile, err := h.service.Update(r.Context(), id, func(p *domain.SizeProfile) error {
		if req.Label != nil {
			p.Label = *req.Label
		}
		if req.HeightCm != nil {
			p.HeightCm = *req.HeightCm
		}
		if req.WeightKg != nil {
			p.WeightKg = *req.WeightKg
		}
		if req.Measurements != nil {
			p.Measurements = *req.Measurements
		}
		return nil
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: profile})
}

// DeleteSizeProfile handles DELETE /api/v1/size-profiles/{id}
func (h *SizeProfileHandler) DeleteSizeProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if _, err := h.getOwned(r, id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}

// getOwned loads a profile and verifies the caller owns it.
func (h *SizeProfileHandler) getOwned(r *http.Request, id int64) (*domain.SizeProfile, error) {
	profile, err := h.service.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}

	if profile.UserID != middleware.UserIDFromContext(r.Context()) {
		return nil, apperrors.NotFound("size profile", id)
	}

	return profile, nil
}
