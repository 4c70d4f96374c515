// Package jira implements the Atlassian OAuth 2.0 authorization-code
// grant (3LO) and tenant discovery used to authenticate DevPulse
// against Jira Cloud.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
	"github.com/devpulse-labs/devpulse-cli/internal/core/ports/driven"
	"github.com/devpulse-labs/devpulse-cli/internal/logger"
)

// Atlassian OAuth endpoints.
const (
	defaultAuthorizeURL = "https://auth.atlassian.com/authorize"
	//nolint:gosec // G101: Not credentials, OAuth endpoint URL
	defaultTokenURL     = "https://auth.atlassian.com/oauth/token"
	defaultResourcesURL = "https://api.atlassian.com/oauth/token/accessible-resources"

	// DefaultTimeout bounds each individual HTTP request.
	DefaultTimeout = 30 * time.Second

	// refreshTokenWindow is Atlassian's rotating-token inactivity
	// window. Each successful refresh restarts it.
	refreshTokenWindow = 90 * 24 * time.Hour
)

// DefaultScopes are the OAuth scopes requested for report generation.
// offline_access is required to receive a refresh token.
var DefaultScopes = []string{"read:jira-work", "read:jira-user", "offline_access"}

// Ensure Client can serve as the resolver's refresher.
var _ driven.TokenRefresher = (*Client)(nil)

// ClientConfig configures an Atlassian OAuth client.
type ClientConfig struct {
	// ClientID and ClientSecret identify the Atlassian OAuth app.
	// Both are required.
	ClientID     string
	ClientSecret string
	// RedirectURI must exactly match the URI registered with the app.
	RedirectURI string
	// Scopes defaults to DefaultScopes.
	Scopes []string
	// AuthorizeURL, TokenURL and ResourcesURL are endpoint overrides
	// for tests.
	AuthorizeURL string
	TokenURL     string
	ResourcesURL string
	// HTTPClient defaults to a client with DefaultTimeout.
	HTTPClient *http.Client
}

// Client implements the Atlassian authorization-code grant, token
// refresh, and accessible-resource discovery.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string
	scopes       []string
	authorizeURL string
	tokenURL     string
	resourcesURL string
	httpClient   *http.Client
}

// NewClient creates an Atlassian OAuth client.
func NewClient(cfg ClientConfig) *Client {
	client := &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		scopes:       cfg.Scopes,
		authorizeURL: cfg.AuthorizeURL,
		tokenURL:     cfg.TokenURL,
		resourcesURL: cfg.ResourcesURL,
		httpClient:   cfg.HTTPClient,
	}
	if len(client.scopes) == 0 {
		client.scopes = DefaultScopes
	}
	if client.authorizeURL == "" {
		client.authorizeURL = defaultAuthorizeURL
	}
	if client.tokenURL == "" {
		client.tokenURL = defaultTokenURL
	}
	if client.resourcesURL == "" {
		client.resourcesURL = defaultResourcesURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return client
}

// AccessibleResource is one Jira Cloud site the token can act on.
type AccessibleResource struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

// AuthorizationURL builds the consent URL to open in the user's
// browser. The state must be freshly generated for each attempt and
// verified on the callback.
func (c *Client) AuthorizationURL(state string) (string, error) {
	if c.clientID == "" {
		return "", fmt.Errorf("%w: Jira client ID required", domain.ErrInvalidInput)
	}
	if c.redirectURI == "" {
		return "", fmt.Errorf("%w: Jira redirect URI required", domain.ErrInvalidInput)
	}
	if state == "" {
		return "", fmt.Errorf("%w: state required", domain.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("audience", "api.atlassian.com")
	params.Set("client_id", c.clientID)
	params.Set("scope", strings.Join(c.scopes, " "))
	params.Set("redirect_uri", c.redirectURI)
	params.Set("state", state)
	params.Set("response_type", "code")
	params.Set("prompt", "consent")

	return c.authorizeURL + "?" + params.Encode(), nil
}

// exchangeCode swaps an authorization code for a token pair.
func (c *Client) exchangeCode(ctx context.Context, code string) (*tokenResponse, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code required", domain.ErrInvalidInput)
	}
	return c.postToken(ctx, map[string]string{
		"grant_type":    "authorization_code",
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"code":          code,
		"redirect_uri":  c.redirectURI,
	})
}

// AccessibleResources returns the Jira Cloud sites the access token can
// act on. An empty list is an error: a token with no usable tenant
// cannot serve any API call.
func (c *Client) AccessibleResources(ctx context.Context, accessToken string) ([]AccessibleResource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resourcesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create resources request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resources request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("resources request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var resources []AccessibleResource
	if err := json.NewDecoder(resp.Body).Decode(&resources); err != nil {
		return nil, fmt.Errorf("decode resources response: %w", err)
	}
	if len(resources) == 0 {
		return nil, domain.ErrNoAccessibleSites
	}
	return resources, nil
}

// CompleteFlow exchanges the code, discovers the tenant, and assembles
// the credential record. When the token grants access to multiple
// sites the first one is used.
func (c *Client) CompleteFlow(ctx context.Context, code string) (*domain.OAuthCredentials, error) {
	payload, err := c.exchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	creds := credentialsFromResponse(payload, time.Now())

	resources, err := c.AccessibleResources(ctx, creds.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("discover accessible sites: %w", err)
	}
	if len(resources) > 1 {
		logger.Debug("token grants access to %d Jira sites, using %s", len(resources), resources[0].URL)
	}
	creds.CloudID = resources[0].ID
	creds.CloudURL = resources[0].URL
	return creds, nil
}

// Refresh exchanges the refresh token for a new token pair. Atlassian
// rotates the refresh token and restarts its inactivity window on
// every successful refresh.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.OAuthCredentials, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, fmt.Errorf("%w: Jira client credentials required", domain.ErrInvalidInput)
	}

	payload, err := c.postToken(ctx, map[string]string{
		"grant_type":    "refresh_token",
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"refresh_token": refreshToken,
	})
	if err != nil {
		return nil, err
	}
	return credentialsFromResponse(payload, time.Now()), nil
}

// postToken sends a JSON token request, Atlassian's preferred encoding
// for the token endpoint.
func (c *Client) postToken(ctx context.Context, body map[string]string) (*tokenResponse, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &payload, nil
}

// credentialsFromResponse converts provider durations to absolute
// expiries anchored at local receipt time. The refresh-token expiry is
// the fixed inactivity window, not a value the provider reports.
func credentialsFromResponse(payload *tokenResponse, now time.Time) *domain.OAuthCredentials {
	var accessExpiry time.Time
	if payload.ExpiresIn > 0 {
		accessExpiry = now.Add(time.Duration(payload.ExpiresIn) * time.Second)
	}

	return &domain.OAuthCredentials{
		AccessToken:           payload.AccessToken,
		RefreshToken:          payload.RefreshToken,
		TokenType:             "bearer",
		AccessTokenExpiresAt:  accessExpiry,
		RefreshTokenExpiresAt: now.Add(refreshTokenWindow),
		Scopes:                splitScopes(payload.Scope),
	}
}

// splitScopes parses Atlassian's space-joined scope string.
func splitScopes(scope string) []string {
	fields := strings.Fields(scope)
	if len(fields) == 0 {
		return nil
	}
	return fields
}
