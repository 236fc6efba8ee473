package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/abelprasad/SathikaBoutique/internal/service"
)

type contextKey string

const (
	claimsContextKey    contextKey = "admin_claims"
	requestIDContextKey contextKey = "request_id"
)

// TokenValidator validates a bearer token and returns its claims.
// Consumers define this interface, not the auth service.
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.AdminClaims, error)
}

// RequireAdmin rejects requests without a valid Bearer token and stores
// the claims in the request context.
func RequireAdmin(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "invalid Authorization header format (expected 'Bearer <token>')")
				return
			}

			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func claimsFromContext(ctx context.Context) *service.AdminClaims {
	if claims, ok := ctx.Value(claimsContextKey).(*service.AdminClaims); ok {
		return claims
	}
	return nil
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
