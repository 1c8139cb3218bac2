package providers

import (
	"context"
	"fmt"
	"strings"
)

var _ AuthProvider = &StaticAuthProvider{}

// StaticAuthProvider accepts tokens of the form "<secret>:<name>".
// It exists for local development and tests, where standing up
// Firebase is unwanted.
type StaticAuthProvider struct {
	secret string
}

// NewStaticAuthProvider creates a new StaticAuthProvider.
func NewStaticAuthProvider(secret string) *StaticAuthProvider {
	return &StaticAuthProvider{secret: secret}
}

func (p *StaticAuthProvider) VerifyToken(_ context.Context, token string) (*TokenClaims, error) {
	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 || parts[0] != p.secret || parts[1] == "" {
		return nil, fmt.Errorf("invalid static token")
	}
	return &TokenClaims{UID: parts[1]}, nil
}
