package middleware

import (
	"net/http"
	"time"

	"geocapture/internal/logger"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger writes one debug line per request and a warning for every 5xx.
func RequestLogger(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			reqID := chimiddleware.GetReqID(r.Context())

			if status >= http.StatusInternalServerError {
				logger.Warning("[%s] %s %s -> %d (%s)", reqID, r.Method, r.URL.Path, status, time.Since(start))
				return
			}
			logger.Debug("[%s] %s %s -> %d %dB (%s)", reqID, r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start))
		})
	}
}
