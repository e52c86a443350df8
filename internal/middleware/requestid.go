package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	requestIDKey     contextKey = "request_id"
	requestLoggerKey contextKey = "request_logger"
)

const maxRequestIDLen = 128

// RequestID tags each request with an id taken from X-Request-ID or
// X-Correlation-ID, or a fresh UUID when neither is usable. The id is echoed
// back and carried by a request-scoped child of base.
func RequestID(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := incomingRequestID(r)
			if rid == "" {
				rid = uuid.NewString()
			}
			logger := base.With().Str("request_id", rid).Logger()
			ctx := context.WithValue(r.Context(), requestIDKey, rid)
			ctx = context.WithValue(ctx, requestLoggerKey, logger)
			w.Header().Set("X-Request-ID", rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// LoggerFromContext returns the request-scoped logger, or fallback outside
// a request.
func LoggerFromContext(ctx context.Context, fallback zerolog.Logger) zerolog.Logger {
	if l, ok := ctx.Value(requestLoggerKey).(zerolog.Logger); ok {
		return l
	}
	return fallback
}

func incomingRequestID(r *http.Request) string {
	for _, h := range []string{"X-Request-ID", "X-Correlation-ID"} {
		if rid := r.Header.Get(h); validRequestID(rid) {
			return rid
		}
	}
	return ""
}

// validRequestID admits ids that are safe to echo into headers and logs.
func validRequestID(rid string) bool {
	if rid == "" || len(rid) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(rid); i++ {
		c := rid[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}
	return true
}
