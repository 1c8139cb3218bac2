package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticAuthProvider(t *testing.T) {
	p := NewStaticAuthProvider("secret")
	ctx := context.Background()

	claims, err := p.VerifyToken(ctx, "secret:alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UID)

	// names may contain colons
	claims, err = p.VerifyToken(ctx, "secret:a:b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", claims.UID)

	for _, token := range []string{"", "secret", "secret:", "wrong:alice"} {
		_, err := p.VerifyToken(ctx, token)
		assert.Error(t, err, "token %q", token)
	}
}
