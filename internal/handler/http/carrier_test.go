package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/carrier"
)

// newCarrierTestRouter routes the shipping endpoints at a stub carrier
// backend. The stub answers every request with the given envelope data and
// records the paths it was asked for.
func newCarrierTestRouter(t *testing.T, data any) (*chi.Mux, *[]string) {
	t.Helper()

	var paths []string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		payload, err := json.Marshal(data)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"message":"Success","data":` + string(payload) + `}`))
	}))
	t.Cleanup(backend.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := carrier.NewClient(carrier.Config{
		BaseURL: backend.URL,
		Code:    "ghn",
		Timeout: 2 * time.Second,
	}, logger)
	handler := NewCarrierHandler(client, logger)

	r := chi.NewRouter()
	r.Post("/shipping/fee", handler.QuoteFee)
	r.Post("/shipping/preview", handler.PreviewOrder)
	return r, &paths
}

func previewOrderBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"from_name":        "District Office",
		"from_phone":       "0900000000",
		"from_district_id": 201,
		"from_ward_code":   "11006",
		"from_address":     "1 Pho Hue",
		"to_name":          "Nguyen Van A",
		"to_phone":         "0900000001",
		"to_district_id":   1482,
		"to_ward_code":     "11006",
		"to_address":       "12 Lang Ha",
		"weight_grams":     600,
		"length_cm":        30,
		"width_cm":         20,
		"height_cm":        8,
		"items": []map[string]any{
			{"name": "Linen Shirt", "code": "LS-M-BLUE", "quantity": 2},
		},
	})
	require.NoError(t, err)
	return body
}

func TestCarrierHandler_PreviewOrder_Success(t *testing.T) {
	router, paths := newCarrierTestRouter(t, carrier.OrderResponse{
		TotalFee:             45000,
		ExpectedDeliveryTime: "2025-06-18",
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/shipping/preview", bytes.NewReader(previewOrderBody(t))))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec.Body)
	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(45000), data["total_fee"])
	assert.Equal(t, "2025-06-18", data["expected_delivery_time"])

	// A preview is quoted without placing anything.
	assert.Equal(t, []string{"/v2/shipping-order/preview"}, *paths)
}

func TestCarrierHandler_PreviewOrder_ValidationError(t *testing.T) {
	router, paths := newCarrierTestRouter(t, carrier.OrderResponse{})

	// Destination and items are required.
	body, err := json.Marshal(map[string]any{
		"from_name":        "District Office",
		"from_phone":       "0900000000",
		"from_district_id": 201,
		"from_ward_code":   "11006",
		"from_address":     "1 Pho Hue",
		"weight_grams":     600,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/shipping/preview", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, *paths)
}

func TestCarrierHandler_QuoteFee_Success(t *testing.T) {
	router, paths := newCarrierTestRouter(t, carrier.FeeResponse{Total: 30000, ServiceFee: 30000})

	body, err := json.Marshal(map[string]any{
		"from_district_id": 201,
		"to_district_id":   1482,
		"to_ward_code":     "11006",
		"weight_grams":     600,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/shipping/fee", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec.Body)
	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(30000), data["total"])
	assert.Equal(t, []string{"/v2/shipping-order/fee"}, *paths)
}
