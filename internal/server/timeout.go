package server

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware puts a deadline on every inbound request context.
// Relay handlers run their upstream calls on a detached context with their
// own bound, so this only limits the inbound side (reading the request,
// rendering responses). timeout <= 0 leaves requests unbounded.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bounded, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(bounded))
		})
	}
}
