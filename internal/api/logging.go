package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every request with the shared structured fields.
// Severity follows the response status: 5xx errors, 4xx warnings.
func RequestLogger(log *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			statusCode := ww.Status()
			entry := log.WithFields(logrus.Fields{
				"statusCode": statusCode,
				"latency":    time.Since(start).Milliseconds(),
				"clientIP":   r.RemoteAddr,
				"method":     r.Method,
				"path":       path,
				"referer":    r.Referer(),
				"dataLength": ww.BytesWritten(),
				"userAgent":  r.UserAgent(),
			})

			msg := "handled request"
			if statusCode > 499 {
				entry.Error(msg)
			} else if statusCode > 399 {
				entry.Warn(msg)
			} else {
				entry.Info(msg)
			}
		})
	}
}
