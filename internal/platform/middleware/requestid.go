package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID on requests, responses and peer calls.
var RequestIDHeader = middleware.RequestIDHeader

const maxRequestIDLength = 128

// acceptRequestID admits caller IDs made of letters, digits and "-._:" only,
// so a forwarded ID can be logged and re-sent to peers unchanged.
func acceptRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := range len(id) {
		switch c := id[i]; {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case c == '-', c == '.', c == '_', c == ':':
		default:
			return false
		}
	}
	return true
}

// RequestID stores a request ID in the context under chi's key and echoes it
// in the response. The caller's ID is kept when acceptable, so a frontend
// request and the backend calls it makes share one ID; otherwise a UUIDv4 is
// generated.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if !acceptRequestID(id) {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, id)))
		})
	}
}

// Propagate copies the request ID held by ctx onto an outbound request.
func Propagate(ctx context.Context, req *http.Request) {
	if id := middleware.GetReqID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}
}
