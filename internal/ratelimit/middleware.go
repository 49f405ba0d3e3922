package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/LukasGLars/construction-buddy/internal/common"
)

// Config derives the throttle key and thresholds for a route.
type Config struct {
	Key    func(*http.Request) string
	Window time.Duration
	Max    int
}

// Handler wraps a route with the sliding window limiter. Limiter errors fail
// open: a broken Redis must not take catalog search down.
type Handler struct {
	Limiter Limiter
	Config  Config
	OnError func(error)
}

func (h Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Config.Key == nil {
			next.ServeHTTP(w, r)
			return
		}

		allowed, remaining, resetAt, err := h.Limiter.Allow(r.Context(), h.Config.Key(r), h.Config.Window, h.Config.Max)
		if err != nil {
			if h.OnError != nil {
				h.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}

		h.writeQuota(w, remaining, resetAt)
		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(secondsUntil(resetAt)))
			common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many search requests, slow down", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h Handler) writeQuota(w http.ResponseWriter, remaining int, resetAt time.Time) {
	limit := h.Config.Max
	if limit < 0 {
		limit = 0
	}
	headers := w.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	headers.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
}

func secondsUntil(t time.Time) int {
	if s := int(time.Until(t).Seconds()); s > 0 {
		return s
	}
	return 0
}
