package middleware

import (
	"github.com/go-chi/cors"

	"github.com/fixora-ai/fixora/internal/api"
)

// Response headers the browser client reads from cross-origin responses.
var exposedHeaders = []string{
	"X-Request-ID",
	api.HeaderUsageRemaining,
	api.HeaderUsageLimitReached,
	api.HeaderResultDegraded,
	"Content-Disposition",
}

// CORS returns cors.Options for the given allowed origins.
// With "*" present, AllowCredentials is false (browsers reject
// Access-Control-Allow-Credentials: true with a wildcard origin).
func CORS(allowedOrigins []string) cors.Options {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173"}
	}

	allowCreds := true
	for _, o := range allowedOrigins {
		if o == "*" {
			allowCreds = false
			break
		}
	}

	return cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCreds,
		MaxAge:           300,
	}
}
