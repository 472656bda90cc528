package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pandeptwidyaop/linkprefs/pkg/logger"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// HTTPLoggerWithLevel logs HTTP requests based on configured level.
// logLevel: "silent", "error" (5xx), "warn" (4xx+5xx), "info" (all requests).
// Every response gets an X-Request-ID, reusing the caller's if present.
func HTTPLoggerWithLevel(next http.Handler, logLevel string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		logEvent := eventFor(logLevel, rw.statusCode)
		if logEvent == nil {
			return
		}

		duration := time.Since(start)
		logEvent = logEvent.
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", rw.statusCode).
			Int64("bytes", rw.written).
			Dur("duration", duration)

		if r.URL.RawQuery != "" {
			logEvent = logEvent.Str("query", r.URL.RawQuery)
		}

		logEvent.Msg("HTTP request")
	})
}

// eventFor picks the log event for a status, or nil when it is filtered out.
func eventFor(logLevel string, status int) *zerolog.Event {
	switch logLevel {
	case "silent":
		return nil
	case "error":
		if status >= 500 {
			return logger.ErrorEvent()
		}
		return nil
	case "warn":
		if status >= 500 {
			return logger.ErrorEvent()
		}
		if status >= 400 {
			return logger.WarnEvent()
		}
		return nil
	default:
		if status >= 500 {
			return logger.ErrorEvent()
		}
		if status >= 400 {
			return logger.WarnEvent()
		}
		return logger.InfoEvent()
	}
}
