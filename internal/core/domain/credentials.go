package domain

import "time"

// CredentialRecord is the persisted credential for one service.
// Exactly one of OAuth or PAT is set; Method is the discriminator and
// determines which field set is recognised on read.
type CredentialRecord struct {
	// Method indicates which variant this record holds (pat or oauth).
	Method AuthMethod `json:"method"`

	// OAuth holds OAuth tokens. Nil for PAT records.
	OAuth *OAuthCredentials `json:"oauth,omitempty"`

	// PAT holds a long-lived token. Nil for OAuth records.
	PAT *PATCredentials `json:"pat,omitempty"`

	// UpdatedAt is when the record was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// OAuthCredentials stores OAuth tokens for a service.
// Expiries are always absolute timestamps, converted from the durations
// a provider returns at the moment the tokens were received.
type OAuthCredentials struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	// Providers rotate it on every refresh.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is always "bearer".
	TokenType string `json:"token_type"`
	// AccessTokenExpiresAt is when the access token expires.
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at"`
	// RefreshTokenExpiresAt is when the refresh token expires.
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	// Scopes are the granted OAuth scopes.
	Scopes []string `json:"scopes,omitempty"`

	// CloudID is the Atlassian tenant ID (Jira only).
	CloudID string `json:"cloud_id,omitempty"`
	// CloudURL is the Atlassian site URL for the tenant (Jira only).
	CloudURL string `json:"cloud_url,omitempty"`
}

// PATCredentials stores a long-lived token.
// GitHub uses Token alone; Jira uses the Host/Email/APIToken triple to
// build a Basic authorization header.
type PATCredentials struct {
	// Token is a GitHub personal access token.
	Token string `json:"token,omitempty"`
	// Host is the Jira site host (e.g. "acme.atlassian.net").
	Host string `json:"host,omitempty"`
	// Email is the Jira account email.
	Email string `json:"email,omitempty"`
	// APIToken is the Jira API token paired with Email.
	APIToken string `json:"api_token,omitempty"`
}

// AccessTokenFresh returns true if the access token is still usable at
// the given time, with buffer subtracted as a refresh lookahead.
func (c *OAuthCredentials) AccessTokenFresh(now time.Time, buffer time.Duration) bool {
	if c.AccessTokenExpiresAt.IsZero() {
		return c.AccessToken != ""
	}
	return now.Before(c.AccessTokenExpiresAt.Add(-buffer))
}

// Refreshable returns true if the refresh token can still be exchanged
// for new tokens at the given time.
func (c *OAuthCredentials) Refreshable(now time.Time) bool {
	if c.RefreshToken == "" {
		return false
	}
	if c.RefreshTokenExpiresAt.IsZero() {
		return true
	}
	return now.Before(c.RefreshTokenExpiresAt)
}

// IsOAuth returns true if this record holds OAuth tokens.
func (r *CredentialRecord) IsOAuth() bool {
	return r.Method == AuthMethodOAuth && r.OAuth != nil
}

// IsPAT returns true if this record holds a long-lived token.
func (r *CredentialRecord) IsPAT() bool {
	return r.Method == AuthMethodPAT && r.PAT != nil
}
