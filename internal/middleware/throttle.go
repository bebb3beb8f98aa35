package middleware

import (
	"net/http"

	"creditd/internal/api/httpx"

	"golang.org/x/time/rate"
)

// Throttle is a process-global flood guard, independent of the per-caller
// admission window. rps <= 0 disables it.
func Throttle(rps int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	lim := rate.NewLimiter(rate.Limit(rps), rps)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lim.Allow() {
				httpx.WriteError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
