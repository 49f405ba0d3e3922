package common_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/LukasGLars/construction-buddy/internal/common"
)

func TestIdempotencyMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	var calls int
	wrapped := common.Idem{R: client, TTL: time.Minute}.Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls++
			w.WriteHeader(http.StatusOK)
		}))

	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/ledgers/abc/items", nil)
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, send("k1").Code)
	require.Equal(t, 1, calls)

	rec := send("k1")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "IDEMPOTENT_REPLAY")
	require.Equal(t, 1, calls)

	require.Equal(t, http.StatusOK, send("k2").Code)
	require.Equal(t, 2, calls)

	// requests without a key are never deduplicated
	require.Equal(t, http.StatusOK, send("").Code)
	require.Equal(t, http.StatusOK, send("").Code)
	require.Equal(t, 4, calls)
}

func TestIdempotencyKeyReleasedOnFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	var status int
	wrapped := common.Idem{R: client, TTL: time.Minute}.Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/ledgers/abc/items", nil)
		req.Header.Set("Idempotency-Key", "retry-me")
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		return rec
	}

	// a downstream failure must not burn the key
	status = http.StatusServiceUnavailable
	require.Equal(t, http.StatusServiceUnavailable, send().Code)

	status = http.StatusOK
	require.Equal(t, http.StatusOK, send().Code)

	// the successful attempt consumed it
	require.Equal(t, http.StatusConflict, send().Code)
}
