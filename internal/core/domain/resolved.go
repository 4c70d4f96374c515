package domain

import "time"

// ResolvedAuth is an ephemeral, ready-to-use credential produced by the
// resolver. It is never persisted.
type ResolvedAuth struct {
	// Method records which kind of credential was resolved (pat or oauth).
	Method AuthMethod
	// Token is the bearer token for bearer-style services (GitHub).
	Token string
	// BaseURL is the tenant API base for services that need one (Jira).
	BaseURL string
	// AuthHeader is a complete Authorization header value (Jira).
	AuthHeader string
}

// ServiceStatus is a read-only view of one service's credential state,
// produced by the status reporter for display.
type ServiceStatus struct {
	// Service is the service this status describes.
	Service Service
	// Method is how the service currently authenticates.
	Method AuthMethod
	// AccessTokenExpiresAt is set for OAuth credentials only.
	AccessTokenExpiresAt time.Time
	// RefreshTokenExpiresAt is set for OAuth credentials only.
	RefreshTokenExpiresAt time.Time
	// Valid reports whether the credential is usable without a new
	// login; for OAuth this means the refresh token has not expired.
	Valid bool
}
