package providers

import "context"

// AuthProvider verifies a bearer token and yields the caller's
// identity. The UID is the player name handed to the rules engine.
type AuthProvider interface {
	VerifyToken(ctx context.Context, token string) (*TokenClaims, error)
}

// TokenClaims is the verified identity extracted from a token.
type TokenClaims struct {
	UID string `json:"uid"`
}
