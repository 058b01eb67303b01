package middleware

import (
	"crypto/subtle"
	"net/http"
)

// GatewayAuth returns middleware that guards the internal command endpoints.
// The gateway sidecar presents the shared key in the X-Internal-Token header.
// An empty configured key rejects everything; never deploy without one.
func GatewayAuth(sharedKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sharedKey == "" {
				writeJSONError(w, http.StatusServiceUnavailable, "internal endpoints are not configured")
				return
			}
			presented := r.Header.Get("X-Internal-Token")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(sharedKey)) != 1 {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
