package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
}

// CORS returns middleware that applies the storefront's allowed origin policy.
// allowOrigin is a comma separated list; empty falls back to local dev.
// A wildcard origin disables credentials so the session cookie is never
// shared with arbitrary sites.
func CORS(allowOrigin string) func(http.Handler) http.Handler {
	return cors.New(corsOptions(allowOrigin)).Handler
}

func corsOptions(allowOrigin string) cors.Options {
	origins := parseOrigins(allowOrigin)
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", CartSessionHeader, "X-Requested-With"},
		ExposedHeaders:   []string{CartSessionHeader, requestIDHeader},
		AllowCredentials: !hasWildcard(origins),
		MaxAge:           300,
	}
}

func hasWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func parseOrigins(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			out = append(out, origin)
		}
	}
	if len(out) == 0 {
		return defaultCORSOrigins
	}
	return out
}

// OriginAllowed reports whether a websocket handshake comes from an allowed
// origin. Requests without an Origin header are accepted.
func OriginAllowed(allowOrigin string) func(r *http.Request) bool {
	origins := parseOrigins(allowOrigin)
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, allowed := range origins {
			if allowed == "*" || strings.EqualFold(allowed, origin) {
				return true
			}
		}
		return false
	}
}
