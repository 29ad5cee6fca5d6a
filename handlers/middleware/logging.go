package middleware

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/sirupsen/logrus"
)

// LoggingHandler emits one structured log line per served request.
func LoggingHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(h, rw, r)

		logrus.
			WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.RequestURI,
				"remote":     r.RemoteAddr,
				"user-agent": r.UserAgent(),
				"status":     m.Code,
				"bytes":      m.Written,
				"durationMs": float64(m.Duration.Microseconds()) / 1000,
			}).
			Info("Served request")
	})
}
