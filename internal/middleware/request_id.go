package middleware

import (
	"context"
	"net/http"

	"sklink/internal/contextutils"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type loggerKeyType struct{}

var loggerKey loggerKeyType

// RequestID assigns each request a UUID (or honors an incoming
// X-Request-ID), echoes it in the response headers and attaches a
// request-scoped logger carrying it.
func RequestID(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				id, err := uuid.NewV4()
				if err != nil {
					logger.Error("failed to generate request id", zap.Error(err))
					requestID = "unknown"
				} else {
					requestID = id.String()
				}
			}

			w.Header().Set("X-Request-ID", requestID)

			ctx := contextutils.WithRequestID(r.Context(), requestID)
			requestLogger := logger.With(zap.String("request_id", requestID))
			ctx = context.WithValue(ctx, loggerKey, requestLogger)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestLogger returns the request-scoped logger, or a no-op logger when
// the middleware did not run.
func GetRequestLogger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// GetRequestID returns the request id from the context.
func GetRequestID(ctx context.Context) string {
	return contextutils.GetRequestID(ctx)
}
