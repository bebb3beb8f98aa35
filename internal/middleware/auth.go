package middleware

import (
	"net/http"

	"creditd/internal/api/httpx"
	"creditd/internal/auth"
)

// RequireKey guards mutating and admin routes with the shared secret. The
// credential travels in the Authorization header as-is; read paths stay
// open on purpose.
func RequireKey(keys *auth.Keyring) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !keys.Verify(r.Header.Get("Authorization")) {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
