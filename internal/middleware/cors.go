// Package middleware provides reusable HTTP middleware for the expense tracker API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
// identityHeader is added to the allowed request headers so browser clients
// behind a trusting proxy can forward the caller id.
func NewCORSHandler(allowedOrigins []string, identityHeader string) func(http.Handler) http.Handler {
	headers := []string{"Content-Type", "Authorization"}
	if identityHeader != "" {
		headers = append(headers, identityHeader)
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: headers,
		ExposedHeaders: []string{"Content-Disposition"},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
