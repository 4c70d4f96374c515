package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or missing input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownService indicates an unrecognised service name.
	ErrUnknownService = errors.New("unknown service")

	// Authentication Errors.

	// ErrAuthExpired indicates a previously-working credential can no
	// longer be used and the user must log in again. Never returned for
	// services that were simply never configured.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrAccessDenied indicates the user declined the authorization.
	ErrAccessDenied = errors.New("authorization denied by user")

	// ErrDeviceFlowExpired indicates the device code expired before the
	// user authorized; the flow must be restarted.
	ErrDeviceFlowExpired = errors.New("device code expired, restart the login flow")

	// Protocol Violations. These are never retried automatically.

	// ErrStateMismatch indicates the OAuth callback carried a state
	// value that does not match the one issued for this attempt.
	ErrStateMismatch = errors.New("state parameter mismatch, possible CSRF")

	// ErrNoAuthorizationCode indicates the callback carried no code.
	ErrNoAuthorizationCode = errors.New("no authorization code received")

	// ErrCallbackTimeout indicates no callback arrived in time.
	ErrCallbackTimeout = errors.New("timeout waiting for authorization callback")

	// ErrPortInUse indicates the redirect port is bound by another
	// process. The registered redirect URI pins the port, so no other
	// port is tried.
	ErrPortInUse = errors.New("callback port already in use")

	// ErrNoAccessibleSites indicates the token grants access to no
	// Atlassian site, which makes it useless to the rest of the system.
	ErrNoAccessibleSites = errors.New("no accessible sites for this account")
)

// ExpiredError reports that a service's stored OAuth credential has
// expired (or its silent refresh failed). It always names the affected
// service so callers can direct the user back to the login flow, and it
// unwraps to ErrAuthExpired.
type ExpiredError struct {
	Service Service
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("%s authentication expired: run 'devpulse auth login %s'", e.Service, e.Service)
}

// Unwrap lets errors.Is(err, ErrAuthExpired) match.
func (e *ExpiredError) Unwrap() error {
	return ErrAuthExpired
}

// NewExpiredError creates an ExpiredError for the given service.
func NewExpiredError(service Service) *ExpiredError {
	return &ExpiredError{Service: service}
}
