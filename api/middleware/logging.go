package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alanhoffer/hf-dashboard/pkg/logger"
)

// Logging writes one request.complete entry per request. Server errors are
// logged at warn, probes at debug.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       rec.bytes,
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				fields["route"] = rctx.RoutePattern()
			}
			ctx := logg.WithFields(r.Context(), fields)
			switch {
			case status >= http.StatusInternalServerError:
				logg.Warn(ctx, "request.complete")
			case isProbe(r.URL.Path):
				logg.Debug(ctx, "request.complete")
			default:
				logg.Info(ctx, "request.complete")
			}
		})
	}
}

func isProbe(path string) bool {
	return path == "/health/live" || path == "/health/ready" || path == "/metrics"
}
