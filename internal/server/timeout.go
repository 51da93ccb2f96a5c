package server

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware caps how long a roadmap generation request may run by
// putting a deadline on the request context. The pipeline stages watch that
// context; cancellation is cooperative, nothing kills the handler outright.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
