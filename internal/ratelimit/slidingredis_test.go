package ratelimit_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/LukasGLars/construction-buddy/internal/ratelimit"
)

func newLimiter(t *testing.T) (ratelimit.Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return ratelimit.Limiter{Client: client, Prefix: "rl:search:"}, mr
}

func TestLimiterAllowWithinWindow(t *testing.T) {
	limiter, _ := newLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, _, err := limiter.Allow(ctx, "10.0.0.1", time.Minute, 3)
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, remaining, _, err := limiter.Allow(ctx, "10.0.0.1", time.Minute, 3)
	require.NoError(t, err)
	require.False(t, allowed)
	require.Zero(t, remaining)
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	limiter, _ := newLimiter(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, _, err := limiter.Allow(ctx, "10.0.0.1", time.Minute, 1)
		require.NoError(t, err)
	}
	allowed, _, _, err := limiter.Allow(ctx, "10.0.0.2", time.Minute, 1)
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestLimiterDisabledWithoutClient(t *testing.T) {
	allowed, _, _, err := ratelimit.Limiter{}.Allow(context.Background(), "x", time.Minute, 1)
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestMiddlewareThrottles(t *testing.T) {
	limiter, _ := newLimiter(t)
	handler := ratelimit.Handler{
		Limiter: limiter,
		Config: ratelimit.Config{
			Key:    func(*http.Request) string { return "fixed" },
			Window: time.Minute,
			Max:    2,
		},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := handler.Middleware(next)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?q=ror", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?q=ror", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestMiddlewareFailsOpen(t *testing.T) {
	limiter, mr := newLimiter(t)
	mr.Close()

	var sawErr error
	handler := ratelimit.Handler{
		Limiter: limiter,
		Config: ratelimit.Config{
			Key:    func(*http.Request) string { return "fixed" },
			Window: time.Minute,
			Max:    1,
		},
		OnError: func(err error) { sawErr = err },
	}

	rec := httptest.NewRecorder()
	handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?q=ror", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Error(t, sawErr)
}
