package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func rateLimitTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_AllowsBurstThenRejects(t *testing.T) {
	handler := RateLimit(1, 3, rateLimitTestLogger())(okHandler())

	var last int
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "10.0.0.1:50000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		last = rec.Code
		if i < 3 {
			assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
		}
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestRateLimit_SeparateIPsHaveSeparateBuckets(t *testing.T) {
	handler := RateLimit(1, 1, rateLimitTestLogger())(okHandler())

	first := httptest.NewRequest("POST", "/login", nil)
	first.RemoteAddr = "10.0.0.1:50000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Same IP again: bucket drained.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	other := httptest.NewRequest("POST", "/login", nil)
	other.RemoteAddr = "10.0.0.2:50000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_UsesForwardedForHeader(t *testing.T) {
	handler := RateLimit(1, 1, rateLimitTestLogger())(okHandler())

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "127.0.0.1:50000"
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "request %d", i+1)
	}
}

func TestVisitorStore_CleanupEvictsStale(t *testing.T) {
	store := newVisitorStore(1, 1, time.Minute)

	current := time.Now()
	store.nowFunc = func() time.Time { return current }

	store.get("10.0.0.1")
	store.get("10.0.0.2")
	assert.Equal(t, 2, store.size())

	// Only the first visitor comes back after a while.
	current = current.Add(2 * time.Minute)
	store.get("10.0.0.1")

	store.cleanup()
	assert.Equal(t, 1, store.size())
}

func TestClientIP_FallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.9:42317"

	assert.Equal(t, "192.0.2.9", clientIP(req))
}
