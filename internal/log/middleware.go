package log

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger stores logger in the request context and logs one line per
// request with method, path, status and duration. 4xx responses log at
// warn and 5xx at error.
func RequestLogger(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			ctx := context.WithValue(r.Context(), LoggerContextKey, logger)
			next.ServeHTTP(rec, r.WithContext(ctx))

			level := slog.LevelInfo
			if rec.status >= 500 {
				level = slog.LevelError
			} else if rec.status >= 400 {
				level = slog.LevelWarn
			}

			fields := NewFields().
				WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery).
				WithHTTPResponse(rec.status, time.Since(start).Milliseconds())
			fields[FieldClientIP] = clientIP(r)

			logger.Logger.Log(ctx, level, "HTTP request completed",
				append([]any{FieldComponent, logger.component}, fields.ToSlice()...)...)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
