package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
	"github.com/devpulse-labs/devpulse-cli/internal/core/ports/driven"
	"github.com/devpulse-labs/devpulse-cli/internal/logger"
)

// GitHub OAuth device flow constants.
const (
	defaultDeviceCodeURL = "https://github.com/login/device/code"
	//nolint:gosec // G101: Not credentials, OAuth endpoint URL
	defaultTokenURL = "https://github.com/login/oauth/access_token"

	// DefaultTimeout bounds each individual HTTP request.
	DefaultTimeout = 30 * time.Second

	// Token lifetimes GitHub applies when the response omits them.
	defaultAccessTokenTTL  = 28800 * time.Second
	defaultRefreshTokenTTL = 183 * 24 * time.Hour

	// slowDownStep is the interval increase mandated by RFC 8628 on a
	// slow_down response.
	slowDownStep = 5 * time.Second

	defaultPollInterval = 5 * time.Second
)

// DefaultScopes are the OAuth scopes requested for report generation.
var DefaultScopes = []string{"repo", "read:user"}

// Ensure DeviceFlow can serve as the resolver's refresher.
var _ driven.TokenRefresher = (*DeviceFlow)(nil)

// DeviceAuthorization is the result of a device-code request: what to
// show the user and what to poll with.
type DeviceAuthorization struct {
	DeviceCode      string
	UserCode        string
	VerificationURI string
	Interval        time.Duration
	ExpiresIn       time.Duration
}

// DeviceFlowConfig configures a DeviceFlow client.
type DeviceFlowConfig struct {
	// ClientID is the GitHub OAuth app client ID. Required.
	ClientID string
	// Scopes defaults to DefaultScopes.
	Scopes []string
	// DeviceCodeURL and TokenURL are endpoint overrides for tests.
	DeviceCodeURL string
	TokenURL      string
	// HTTPClient defaults to a client with DefaultTimeout.
	HTTPClient *http.Client
}

// DeviceFlow implements the RFC 8628 device authorization grant against
// GitHub, plus the refresh-token grant for minted tokens.
type DeviceFlow struct {
	clientID      string
	scopes        []string
	deviceCodeURL string
	tokenURL      string
	httpClient    *http.Client
	slowDownStep  time.Duration
}

// NewDeviceFlow creates a device flow client.
func NewDeviceFlow(cfg DeviceFlowConfig) *DeviceFlow {
	flow := &DeviceFlow{
		clientID:      cfg.ClientID,
		scopes:        cfg.Scopes,
		deviceCodeURL: cfg.DeviceCodeURL,
		tokenURL:      cfg.TokenURL,
		httpClient:    cfg.HTTPClient,
	}
	if len(flow.scopes) == 0 {
		flow.scopes = DefaultScopes
	}
	if flow.deviceCodeURL == "" {
		flow.deviceCodeURL = defaultDeviceCodeURL
	}
	if flow.tokenURL == "" {
		flow.tokenURL = defaultTokenURL
	}
	if flow.httpClient == nil {
		flow.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	flow.slowDownStep = slowDownStep
	return flow
}

type deviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

type tokenResponse struct {
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	TokenType             string `json:"token_type"`
	Scope                 string `json:"scope"`
	ExpiresIn             int    `json:"expires_in"`
	RefreshTokenExpiresIn int    `json:"refresh_token_expires_in"`
	Error                 string `json:"error"`
	ErrorDescription      string `json:"error_description"`
}

// RequestCode starts the device flow and returns the codes to display.
func (f *DeviceFlow) RequestCode(ctx context.Context) (*DeviceAuthorization, error) {
	if f.clientID == "" {
		return nil, fmt.Errorf("%w: GitHub client ID required", domain.ErrInvalidInput)
	}

	form := url.Values{}
	form.Set("client_id", f.clientID)
	form.Set("scope", strings.Join(f.scopes, " "))

	resp, err := f.postForm(ctx, f.deviceCodeURL, form)
	if err != nil {
		return nil, fmt.Errorf("device code request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("device code request failed with status %d", resp.StatusCode)
	}

	var payload deviceCodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode device code response: %w", err)
	}

	auth := &DeviceAuthorization{
		DeviceCode:      payload.DeviceCode,
		UserCode:        payload.UserCode,
		VerificationURI: payload.VerificationURI,
		Interval:        time.Duration(payload.Interval) * time.Second,
		ExpiresIn:       time.Duration(payload.ExpiresIn) * time.Second,
	}
	if auth.Interval <= 0 {
		auth.Interval = defaultPollInterval
	}
	return auth, nil
}

// PollToken polls the token endpoint until the user authorizes, the
// code expires, or the user declines. Pacing honours the provider's
// interval, including slow_down increases.
func (f *DeviceFlow) PollToken(ctx context.Context, auth *DeviceAuthorization) (*domain.OAuthCredentials, error) {
	form := url.Values{}
	form.Set("client_id", f.clientID)
	form.Set("device_code", auth.DeviceCode)
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:device_code")

	interval := auth.Interval
	deadline := time.Now().Add(auth.ExpiresIn)
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		// The device code's own lifetime bounds the loop even if the
		// provider never reports expired_token.
		if time.Now().After(deadline) {
			return nil, domain.ErrDeviceFlowExpired
		}

		payload, err := f.postToken(ctx, form)
		if err != nil {
			return nil, err
		}

		switch payload.Error {
		case "":
			return tokensFromResponse(payload, time.Now()), nil
		case "authorization_pending":
			continue
		case "slow_down":
			interval += f.slowDownStep
			limiter.SetLimit(rate.Every(interval))
			logger.Debug("GitHub asked to slow down, polling every %s", interval)
		case "expired_token":
			return nil, domain.ErrDeviceFlowExpired
		case "access_denied":
			return nil, domain.ErrAccessDenied
		default:
			return nil, fmt.Errorf("device token error: %s - %s", payload.Error, payload.ErrorDescription)
		}
	}
}

// Refresh exchanges the refresh token for a new token pair. GitHub
// rotates both tokens on every refresh.
func (f *DeviceFlow) Refresh(ctx context.Context, refreshToken string) (*domain.OAuthCredentials, error) {
	if f.clientID == "" {
		return nil, fmt.Errorf("%w: GitHub client ID required", domain.ErrInvalidInput)
	}

	form := url.Values{}
	form.Set("client_id", f.clientID)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	payload, err := f.postToken(ctx, form)
	if err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("token refresh error: %s - %s", payload.Error, payload.ErrorDescription)
	}
	return tokensFromResponse(payload, time.Now()), nil
}

func (f *DeviceFlow) postToken(ctx context.Context, form url.Values) (*tokenResponse, error) {
	resp, err := f.postForm(ctx, f.tokenURL, form)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	// GitHub reports poll states as JSON error fields, sometimes with a
	// non-200 status; decode before judging the status.
	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if payload.Error == "" && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token request failed with status %d", resp.StatusCode)
	}
	return &payload, nil
}

func (f *DeviceFlow) postForm(ctx context.Context, endpoint string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return f.httpClient.Do(req)
}

// tokensFromResponse converts provider durations to absolute expiries
// anchored at local receipt time, applying GitHub's defaults when the
// response omits them.
func tokensFromResponse(payload *tokenResponse, now time.Time) *domain.OAuthCredentials {
	accessTTL := defaultAccessTokenTTL
	if payload.ExpiresIn > 0 {
		accessTTL = time.Duration(payload.ExpiresIn) * time.Second
	}
	refreshTTL := defaultRefreshTokenTTL
	if payload.RefreshTokenExpiresIn > 0 {
		refreshTTL = time.Duration(payload.RefreshTokenExpiresIn) * time.Second
	}

	return &domain.OAuthCredentials{
		AccessToken:           payload.AccessToken,
		RefreshToken:          payload.RefreshToken,
		TokenType:             "bearer",
		AccessTokenExpiresAt:  now.Add(accessTTL),
		RefreshTokenExpiresAt: now.Add(refreshTTL),
		Scopes:                splitScopes(payload.Scope),
	}
}

// splitScopes parses GitHub's comma-joined scope string.
func splitScopes(scope string) []string {
	if scope == "" {
		return nil
	}
	parts := strings.Split(scope, ",")
	scopes := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			scopes = append(scopes, trimmed)
		}
	}
	return scopes
}
