package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey keeps this package's context values from colliding with
// other packages' string keys.
type contextKey string

// RequestIDKey carries the per-request identifier through the context.
const RequestIDKey contextKey = "request_id"

// RequestIDMiddleware tags every request with a fresh UUID so a roadmap
// run can be correlated across logs and the X-Request-ID response header.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the identifier stored by RequestIDMiddleware, or
// "" when the request never passed through it.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
