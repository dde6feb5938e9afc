package httputil

import (
	"context"
	"encoding/base64"

	"github.com/google/uuid"
)

type nonceKey struct{}

// GenerateNonce returns a fresh CSP nonce: 16 random bytes, base64url
// encoded without padding.
func GenerateNonce() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])
}

func ContextWithNonce(ctx context.Context, nonce string) context.Context {
	return context.WithValue(ctx, nonceKey{}, nonce)
}

func NonceFromContext(ctx context.Context) string {
	nonce, _ := ctx.Value(nonceKey{}).(string)
	return nonce
}
