package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:5173", // vite dev server
	"http://localhost:3000",
}

// CORS returns middleware that applies the configured allowed origin policy.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			allowed = append(allowed, trimmed)
		}
	}
	if len(allowed) == 0 {
		allowed = defaultCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
