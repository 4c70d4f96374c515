package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
	"github.com/devpulse-labs/devpulse-cli/internal/core/ports/driven"
)

var _ driven.IdentityVerifier = (*Verifier)(nil)

// Verifier checks that resolved Jira credentials can reach the API by
// fetching the authenticated user.
type Verifier struct {
	httpClient *http.Client
}

// NewVerifier creates a Jira identity verifier.
func NewVerifier() *Verifier {
	return &Verifier{httpClient: &http.Client{Timeout: 10 * time.Second}}
}

type myselfResponse struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// Verify calls the "myself" endpoint with the resolved auth and
// returns the account's display name.
func (v *Verifier) Verify(ctx context.Context, auth domain.ResolvedAuth) (string, error) {
	endpoint := strings.TrimSuffix(auth.BaseURL, "/") + "/rest/api/3/myself"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create myself request: %w", err)
	}
	req.Header.Set("Authorization", auth.AuthHeader)
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("myself request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", fmt.Errorf("jira rejected the credentials")
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("myself request failed with status %d", resp.StatusCode)
	}

	var payload myselfResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode myself response: %w", err)
	}
	if payload.DisplayName != "" {
		return payload.DisplayName, nil
	}
	return payload.EmailAddress, nil
}
