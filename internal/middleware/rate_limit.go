package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"creditd/internal/api/httpx"
	"creditd/internal/metrics"
	"creditd/internal/ratelimit"
)

// ClientKey derives the caller key for the admission window: first
// X-Forwarded-For hop when present, otherwise the remote address without
// its port.
func ClientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// RateLimit applies the per-caller admission window ahead of any
// authorization or ledger work. stats may be nil; recording is best-effort.
func RateLimit(gov *ratelimit.Governor, stats ratelimit.Stats) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientKey(r)
			now := time.Now()
			allowed := gov.Admit(key, now)

			if stats != nil {
				if err := stats.Record(r.Context(), ratelimit.StatsEvent{
					Key:     key,
					Allowed: allowed,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      now,
				}); err != nil {
					slog.Debug("rate stats record", "err", err)
				}
			}

			if !allowed {
				metrics.RateLimitedTotal.Inc()
				w.Header().Set("Retry-After", "1")
				httpx.WriteError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
