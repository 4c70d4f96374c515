package driven

import (
	"context"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
)

// TokenRefresher performs a silent refresh-token grant for one service.
// Implementations are provider-specific and carry their own client
// credentials. The provider is assumed to rotate both tokens on every
// refresh, so the returned credentials fully replace the stored ones.
type TokenRefresher interface {
	// Refresh exchanges the refresh token for a new token pair, with
	// both expiries converted to absolute timestamps at receipt.
	Refresh(ctx context.Context, refreshToken string) (*domain.OAuthCredentials, error)
}

// IdentityVerifier confirms a freshly minted credential actually
// authenticates by fetching the caller's own identity.
type IdentityVerifier interface {
	// Verify returns the authenticated account identifier (login or
	// email), or an error if the credential is rejected.
	Verify(ctx context.Context, auth domain.ResolvedAuth) (string, error)
}
