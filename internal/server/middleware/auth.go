// Package middleware provides HTTP middleware for the admin API.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const adminEmailKey contextKey = "admin_email"

// TokenValidator validates a bearer token and returns the admin identity
// it carries.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// RequireAuth wraps a handler and rejects requests without a valid
// Bearer token. The authenticated admin email is placed on the request
// context.
func RequireAuth(validator TokenValidator, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(w, "invalid authorization header format")
			return
		}

		email, err := validator.ValidateToken(parts[1])
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), adminEmailKey, email)
		next(w, r.WithContext(ctx))
	}
}

// AdminEmail returns the authenticated admin email from the context.
func AdminEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(adminEmailKey).(string)
	return email, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
