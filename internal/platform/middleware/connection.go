package middleware

import "net/http"

// ConnectionClose marks every response with "Connection: close". net/http
// honours the header by closing the TCP connection after the response, so
// each client request dials again and can land on a different replica.
func ConnectionClose() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Connection", "close")
			next.ServeHTTP(w, r)
		})
	}
}
