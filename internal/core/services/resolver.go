package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
	"github.com/devpulse-labs/devpulse-cli/internal/core/ports/driven"
	"github.com/devpulse-labs/devpulse-cli/internal/core/ports/driving"
	"github.com/devpulse-labs/devpulse-cli/internal/logger"
)

// Environment variable overrides. The env tier always wins and never
// triggers refresh logic: operators who set explicit variables expect
// no surprise network calls.
const (
	// EnvGitHubToken is a bearer-token override for GitHub.
	EnvGitHubToken = "GITHUB_TOKEN"
	// EnvJiraHost, EnvJiraEmail and EnvJiraAPIToken override Jira auth.
	// All three must be set together or the override tier is skipped.
	EnvJiraHost     = "JIRA_HOST"
	EnvJiraEmail    = "JIRA_EMAIL"
	EnvJiraAPIToken = "JIRA_API_TOKEN"
)

// RefreshBuffer is the lookahead before access-token expiry at which
// the resolver refreshes instead of returning the stored token.
const RefreshBuffer = 5 * time.Minute

// atlassianAPIBase is the gateway prefix for tenant-scoped Jira APIs.
const atlassianAPIBase = "https://api.atlassian.com/ex/jira/"

// Ensure ResolverService implements the interface.
var _ driving.Resolver = (*ResolverService)(nil)

// ResolverService resolves per-service credentials by applying a fixed
// precedence: environment override, stored OAuth (with silent refresh),
// stored PAT, then absent.
type ResolverService struct {
	store      driven.CredentialsStore
	env        driven.Environment
	refreshers map[domain.Service]driven.TokenRefresher

	// now is swappable for tests.
	now func() time.Time
}

// NewResolverService creates a resolver. refreshers maps each OAuth
// capable service to its provider client; services without an entry
// cannot silently refresh.
func NewResolverService(
	store driven.CredentialsStore,
	env driven.Environment,
	refreshers map[domain.Service]driven.TokenRefresher,
) *ResolverService {
	return &ResolverService{
		store:      store,
		env:        env,
		refreshers: refreshers,
		now:        time.Now,
	}
}

// Resolve returns a ready-to-use credential for the service, (nil, nil)
// when nothing is configured, or an *domain.ExpiredError when a stored
// OAuth credential can no longer be used without a new login.
func (s *ResolverService) Resolve(ctx context.Context, service domain.Service) (*domain.ResolvedAuth, error) {
	if !service.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownService, service)
	}

	if auth := s.fromEnvironment(service); auth != nil {
		logger.Debug("Resolved %s from environment", service)
		return auth, nil
	}

	record, err := s.store.Get(ctx, service)
	if err != nil {
		return nil, fmt.Errorf("read %s credentials: %w", service, err)
	}
	if record == nil {
		logger.Debug("No credentials configured for %s", service)
		return nil, nil
	}

	switch {
	case record.IsOAuth():
		return s.fromOAuth(ctx, service, record)
	case record.IsPAT():
		logger.Debug("Resolved %s from stored PAT", service)
		return s.fromPAT(service, record.PAT), nil
	default:
		return nil, nil
	}
}

// fromEnvironment returns the env-override credential, or nil when the
// designated variables are not (fully) set.
func (s *ResolverService) fromEnvironment(service domain.Service) *domain.ResolvedAuth {
	switch service {
	case domain.ServiceGitHub:
		token := s.env.Getenv(EnvGitHubToken)
		if token == "" {
			return nil
		}
		return &domain.ResolvedAuth{Method: domain.AuthMethodPAT, Token: token}

	case domain.ServiceJira:
		host := s.env.Getenv(EnvJiraHost)
		email := s.env.Getenv(EnvJiraEmail)
		token := s.env.Getenv(EnvJiraAPIToken)
		if host == "" || email == "" || token == "" {
			return nil
		}
		return &domain.ResolvedAuth{
			Method:     domain.AuthMethodPAT,
			BaseURL:    hostBaseURL(host),
			AuthHeader: basicAuthHeader(email, token),
		}
	}
	return nil
}

// fromOAuth returns the stored access token when fresh, refreshes it
// silently when only the access token is stale, and reports an
// ExpiredError when the refresh token itself is gone.
func (s *ResolverService) fromOAuth(ctx context.Context, service domain.Service, record *domain.CredentialRecord) (*domain.ResolvedAuth, error) {
	now := s.now()
	creds := record.OAuth

	if creds.AccessTokenFresh(now, RefreshBuffer) {
		logger.Debug("Resolved %s from stored OAuth token", service)
		return resolvedOAuth(service, creds), nil
	}

	if !creds.Refreshable(now) {
		// Refresh token expired: no network call, straight to expired.
		return nil, domain.NewExpiredError(service)
	}

	refresher, ok := s.refreshers[service]
	if !ok {
		logger.Warn("No refresher configured for %s, treating as expired", service)
		return nil, domain.NewExpiredError(service)
	}

	logger.Debug("Refreshing %s access token", service)
	fresh, err := refresher.Refresh(ctx, creds.RefreshToken)
	if err != nil {
		logger.Warn("Refresh for %s failed: %v", service, err)
		return nil, domain.NewExpiredError(service)
	}

	// Tenant binding survives refresh; the token endpoint does not
	// return it.
	if fresh.CloudID == "" {
		fresh.CloudID = creds.CloudID
		fresh.CloudURL = creds.CloudURL
	}

	record.OAuth = fresh
	record.Method = domain.AuthMethodOAuth
	record.UpdatedAt = now
	if err := s.store.Save(ctx, service, *record); err != nil {
		return nil, fmt.Errorf("persist refreshed %s credentials: %w", service, err)
	}

	return resolvedOAuth(service, fresh), nil
}

func (s *ResolverService) fromPAT(service domain.Service, pat *domain.PATCredentials) *domain.ResolvedAuth {
	if service == domain.ServiceJira {
		return &domain.ResolvedAuth{
			Method:     domain.AuthMethodPAT,
			BaseURL:    hostBaseURL(pat.Host),
			AuthHeader: basicAuthHeader(pat.Email, pat.APIToken),
		}
	}
	return &domain.ResolvedAuth{Method: domain.AuthMethodPAT, Token: pat.Token}
}

func resolvedOAuth(service domain.Service, creds *domain.OAuthCredentials) *domain.ResolvedAuth {
	auth := &domain.ResolvedAuth{
		Method: domain.AuthMethodOAuth,
		Token:  creds.AccessToken,
	}
	if service == domain.ServiceJira {
		auth.BaseURL = atlassianAPIBase + creds.CloudID
		auth.AuthHeader = "Bearer " + creds.AccessToken
	}
	return auth
}

// basicAuthHeader builds the Basic authorization value Jira expects for
// email + API-token authentication.
func basicAuthHeader(email, token string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+token))
}

func hostBaseURL(host string) string {
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return strings.TrimRight(host, "/")
	}
	return "https://" + strings.TrimRight(host, "/")
}
