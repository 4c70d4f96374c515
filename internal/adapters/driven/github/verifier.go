package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
	"github.com/devpulse-labs/devpulse-cli/internal/core/ports/driven"
)

// Ensure Verifier implements the interface.
var _ driven.IdentityVerifier = (*Verifier)(nil)

// Verifier confirms a freshly minted GitHub credential authenticates by
// fetching the caller's own login.
type Verifier struct {
	// baseURL overrides the API endpoint for tests.
	baseURL string
}

// NewVerifier creates a GitHub identity verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify returns the authenticated user's login.
func (v *Verifier) Verify(ctx context.Context, auth domain.ResolvedAuth) (string, error) {
	if auth.Token == "" {
		return "", fmt.Errorf("%w: no token to verify", domain.ErrInvalidInput)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: auth.Token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = 10 * time.Second

	client := gh.NewClient(tc)
	if v.baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(v.baseURL, v.baseURL)
		if err != nil {
			return "", err
		}
	}

	user, resp, err := client.Users.Get(ctx, "")
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return "", fmt.Errorf("github rejected the token: %w", err)
		}
		return "", fmt.Errorf("fetch authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}
