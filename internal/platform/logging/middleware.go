package logging

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger puts a logger carrying the request ID and trace fields into
// the request context. Run it after tracing middleware so requests without a
// traceparent header still log the server span.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sc := spanContext(ctx, r.Header.Get(traceparentHeader))
			logger := loggerWithTrace(Logger(), sc, chimiddleware.GetReqID(ctx))
			next.ServeHTTP(w, r.WithContext(withLogger(ctx, logger)))
		})
	}
}

// AccessLogger writes one structured entry per request naming the replica
// that answered it. RemoteAddr reflects chi's RealIP when that runs first.
func AccessLogger(hostname string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			logger := LoggerFromContext(r.Context())
			logger.Info(
				"request completed",
				zap.String("remoteAddr", r.RemoteAddr),
				zap.String("method", r.Method),
				zap.String("path", r.URL.RequestURI()),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.String("host", hostname),
				zap.Float64("latencyMs", float64(elapsed.Microseconds())/1000),
			)
		})
	}
}
