package middleware

import (
	"context"
	"log/slog"
	"net/http"
)

const (
	// LoggerContextKey is the context key for storing the request-scoped logger
	LoggerContextKey contextKey = "logger"
)

// WithRequestLogger puts a logger carrying the request id, method, path,
// client IP and signed-in user into the request context. Place it after
// RequestID, WithClientIP and WithPrincipal.
func WithRequestLogger(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attrs := make([]any, 0, 6)
			attrs = append(attrs,
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			if id := GetRequestID(r.Context()); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}
			if ip := GetClientIPFromContext(r.Context()); ip != "" {
				attrs = append(attrs, slog.String("client_ip", ip))
			}
			if p := GetPrincipal(r.Context()); p != nil {
				attrs = append(attrs, slog.String("user_id", p.UserID.String()))
				if p.IsAdmin {
					attrs = append(attrs, slog.Bool("admin", true))
				}
			}

			ctx := WithLogger(r.Context(), baseLogger.With(attrs...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// GetLogger returns the request-scoped logger, else the first non-nil
// fallback, else slog.Default().
func GetLogger(ctx context.Context, fallback ...*slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*slog.Logger); ok {
		return logger
	}
	if len(fallback) > 0 && fallback[0] != nil {
		return fallback[0]
	}
	return slog.Default()
}
