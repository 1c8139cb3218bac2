package providers

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/auth"
	"google.golang.org/api/option"
)

var _ AuthProvider = &FirebaseAuthProvider{}

// FirebaseAuthProvider verifies Firebase ID tokens. Players sign in
// with the Firebase client SDK and attach the ID token to every
// submit call.
type FirebaseAuthProvider struct {
	app  *firebase.App
	auth *auth.Client
}

// NewFirebaseAuthProvider creates a new FirebaseAuthProvider.
func NewFirebaseAuthProvider(ctx context.Context, projectID string, apiKey string) (*FirebaseAuthProvider, error) {
	opt := option.WithAPIKey(apiKey)
	cfg := &firebase.Config{
		ProjectID: projectID,
	}
	app, err := firebase.NewApp(ctx, cfg, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing app: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Auth client: %w", err)
	}
	return &FirebaseAuthProvider{
		app:  app,
		auth: authClient,
	}, nil
}

// VerifyToken verifies a Firebase ID token.
func (p *FirebaseAuthProvider) VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error) {
	token, err := p.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("error verifying token: %w", err)
	}
	return &TokenClaims{UID: token.UID}, nil
}
