package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
)

func TestVerifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/user", r.URL.Path)
		assert.Equal(t, "Bearer gho_valid", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login": "octocat"}`))
	}))
	defer server.Close()

	verifier := &Verifier{baseURL: server.URL}

	login, err := verifier.Verify(context.Background(), domain.ResolvedAuth{
		Method: domain.AuthMethodOAuth,
		Token:  "gho_valid",
	})
	require.NoError(t, err)
	assert.Equal(t, "octocat", login)
}

func TestVerifier_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Bad credentials"}`))
	}))
	defer server.Close()

	verifier := &Verifier{baseURL: server.URL}

	_, err := verifier.Verify(context.Background(), domain.ResolvedAuth{
		Method: domain.AuthMethodOAuth,
		Token:  "gho_revoked",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected the token")
}

func TestVerifier_EmptyToken(t *testing.T) {
	_, err := NewVerifier().Verify(context.Background(), domain.ResolvedAuth{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
