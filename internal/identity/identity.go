// Package identity establishes who is calling. Authentication itself happens
// upstream; this package trusts a single request header set by that layer
// and carries the resulting owner id through the request context.
package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkordes/expense-tracker/internal/config"
)

type contextKey int

const ownerKey contextKey = iota

// WithOwner returns a copy of ctx carrying owner as the verified identity.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey, owner)
}

// OwnerFromContext returns the verified owner id, or false when the request
// never passed through Middleware.
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ownerKey).(string)
	if !ok || owner == "" {
		return "", false
	}
	return owner, true
}

// Resolver turns a trusted request header into the owner identity.
type Resolver struct {
	header   string
	skipAuth bool
	mockUser string
}

// NewResolver builds a Resolver from the identity section of the config.
func NewResolver(cfg config.IdentityConfig) *Resolver {
	header := strings.TrimSpace(cfg.Header)
	if header == "" {
		header = "X-User-ID"
	}
	return &Resolver{
		header:   header,
		skipAuth: cfg.SkipAuth,
		mockUser: strings.TrimSpace(cfg.MockUserID),
	}
}

// Header is the request header the Resolver reads.
func (a *Resolver) Header() string { return a.header }

// Middleware rejects requests without an identity with 401 and stores the
// owner in the context of every request it lets through. With SkipAuth set,
// every request runs as the configured mock user.
func (a *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockUser == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), a.mockUser)))
			return
		}

		owner := strings.TrimSpace(r.Header.Get(a.header))
		if owner == "" {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "missing caller identity")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
