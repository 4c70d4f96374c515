package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOAuthCredentials_AccessTokenFresh(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	buffer := 5 * time.Minute

	tests := []struct {
		name  string
		creds OAuthCredentials
		want  bool
	}{
		{
			name: "well before expiry",
			creds: OAuthCredentials{
				AccessToken:          "token",
				AccessTokenExpiresAt: now.Add(2 * time.Hour),
			},
			want: true,
		},
		{
			name: "inside refresh buffer",
			creds: OAuthCredentials{
				AccessToken:          "token",
				AccessTokenExpiresAt: now.Add(2 * time.Minute),
			},
			want: false,
		},
		{
			name: "already expired",
			creds: OAuthCredentials{
				AccessToken:          "token",
				AccessTokenExpiresAt: now.Add(-time.Minute),
			},
			want: false,
		},
		{
			name: "exactly at buffer boundary",
			creds: OAuthCredentials{
				AccessToken:          "token",
				AccessTokenExpiresAt: now.Add(buffer),
			},
			want: false,
		},
		{
			name:  "zero expiry with token",
			creds: OAuthCredentials{AccessToken: "token"},
			want:  true,
		},
		{
			name:  "zero expiry without token",
			creds: OAuthCredentials{},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.creds.AccessTokenFresh(now, buffer))
		})
	}
}

func TestOAuthCredentials_Refreshable(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		creds OAuthCredentials
		want  bool
	}{
		{
			name: "refresh token valid",
			creds: OAuthCredentials{
				RefreshToken:          "refresh",
				RefreshTokenExpiresAt: now.Add(24 * time.Hour),
			},
			want: true,
		},
		{
			name: "refresh token expired",
			creds: OAuthCredentials{
				RefreshToken:          "refresh",
				RefreshTokenExpiresAt: now.Add(-time.Hour),
			},
			want: false,
		},
		{
			name:  "no refresh token",
			creds: OAuthCredentials{AccessToken: "token"},
			want:  false,
		},
		{
			name:  "refresh token without expiry",
			creds: OAuthCredentials{RefreshToken: "refresh"},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.creds.Refreshable(now))
		})
	}
}

func TestCredentialRecord_Discriminator(t *testing.T) {
	oauth := CredentialRecord{
		Method: AuthMethodOAuth,
		OAuth:  &OAuthCredentials{AccessToken: "token"},
	}
	assert.True(t, oauth.IsOAuth())
	assert.False(t, oauth.IsPAT())

	pat := CredentialRecord{
		Method: AuthMethodPAT,
		PAT:    &PATCredentials{Token: "ghp_x"},
	}
	assert.True(t, pat.IsPAT())
	assert.False(t, pat.IsOAuth())

	// Method without the matching payload is not recognised.
	mismatched := CredentialRecord{Method: AuthMethodOAuth}
	assert.False(t, mismatched.IsOAuth())
	assert.False(t, mismatched.IsPAT())
}

func TestService_Valid(t *testing.T) {
	assert.True(t, ServiceGitHub.Valid())
	assert.True(t, ServiceJira.Valid())
	assert.False(t, Service("gitlab").Valid())
	assert.False(t, Service("").Valid())
}

func TestServices_Order(t *testing.T) {
	assert.Equal(t, []Service{ServiceGitHub, ServiceJira}, Services())
}
