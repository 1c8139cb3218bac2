package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	authproviders "github.com/bmarchant/imperium/pkg/auth/providers"
	"github.com/sirupsen/logrus"
)

type ContextKey int

const (
	// CallerContextKey is the key used to store the verified caller
	// name in the request context.
	CallerContextKey ContextKey = iota
)

// NewAuthMiddleware verifies the bearer token and stores the caller's
// identity in the request context.
func NewAuthMiddleware(authProvider authproviders.AuthProvider) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearerToken, err := parseBearerToken(r)
			if err != nil {
				logrus.Errorf("failed to parse bearer token: %v", err)
				http.Error(w, "failed to parse bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := authProvider.VerifyToken(r.Context(), bearerToken)
			if err != nil {
				logrus.Errorf("failed to verify token: %v", err)
				http.Error(w, "failed to verify token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), CallerContextKey, claims.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Caller returns the verified caller name from the request context.
func Caller(r *http.Request) (string, bool) {
	name, ok := r.Context().Value(CallerContextKey).(string)
	return name, ok && name != ""
}

// parseBearerToken parses the bearer token from the Authorization
// header.
func parseBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header is missing")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return parts[1], nil
}
