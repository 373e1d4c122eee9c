package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/service"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/httputil"
)

// maxMediaBytes caps media uploads at 20MB.
const maxMediaBytes = 20 << 20

// MediaHandler handles HTTP requests for media endpoints.
type MediaHandler struct {
	service *service.MediaService
	logger  *slog.Logger
}

// NewMediaHandler creates a new media HTTP handler.
func NewMediaHandler(svc *service.MediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{
		service: svc,
		logger:  logger,
	}
}

// UploadMedia handles POST /api/v1/media
// The object is the raw request body; kind, owner_type, owner_id, and
// sort_order come from query parameters.
func (h *MediaHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ownerID, ok := httputil.ParseID(w, q.Get("owner_id"))
	if !ok {
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "Content-Type header is required"},
		})
		return
	}

	sortOrder := 0
	if v := q.Get("sort_order"); v != "" {
		n, parseOK := httputil.ParseID(w, v)
		if !parseOK {
			return
		}
		sortOrder = int(n)
	}

	file, err := h.service.Upload(r.Context(), service.UploadInput{
		Kind:        q.Get("kind"),
		OwnerType:   q.Get("owner_type"),
		OwnerID:     ownerID,
		SortOrder:   sortOrder,
		ContentType: contentType,
		Body:        http.MaxBytesReader(w, r.Body, maxMediaBytes),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: file})
}

// ListMedia handles GET /api/v1/media?owner_type=&owner_id=
func (h *MediaHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ownerID, ok := httputil.ParseID(w, q.Get("owner_id"))
	if !ok {
		return
	}

	files, err := h.service.ListByOwner(r.Context(), q.Get("owner_type"), ownerID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: files})
}

// DeleteMedia handles DELETE /api/v1/media/{id}
func (h *MediaHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
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
