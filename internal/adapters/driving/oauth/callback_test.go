//nolint:noctx // Test file uses http.Get for convenience; context not required in tests
package oauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
)

// startServer binds to an ephemeral port and registers cleanup.
func startServer(t *testing.T, state string) *CallbackServer {
	t.Helper()
	server := NewCallbackServer(0, state)
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Stop() })
	return server
}

func callbackURL(server *CallbackServer, params url.Values) string {
	return fmt.Sprintf("http://127.0.0.1:%d/callback?%s", server.Port(), params.Encode())
}

func TestCallbackServer_DeliversCode(t *testing.T) {
	server := startServer(t, "expected-state")

	resp, err := http.Get(callbackURL(server, url.Values{
		"code":  {"auth-code-123"},
		"state": {"expected-state"},
	}))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	code, err := server.WaitForCode(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "auth-code-123", code)
}

func TestCallbackServer_StateMismatch(t *testing.T) {
	server := startServer(t, "expected-state")

	resp, err := http.Get(callbackURL(server, url.Values{
		"code":  {"auth-code-123"},
		"state": {"forged-state"},
	}))
	require.NoError(t, err)
	resp.Body.Close()

	_, err = server.WaitForCode(context.Background(), time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStateMismatch)
}

func TestCallbackServer_ProviderError(t *testing.T) {
	server := startServer(t, "expected-state")

	resp, err := http.Get(callbackURL(server, url.Values{
		"error":             {"access_denied"},
		"error_description": {"User did not authorize the request"},
	}))
	require.NoError(t, err)
	resp.Body.Close()

	_, err = server.WaitForCode(context.Background(), time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
}

func TestCallbackServer_MissingCode(t *testing.T) {
	server := startServer(t, "expected-state")

	resp, err := http.Get(callbackURL(server, url.Values{
		"state": {"expected-state"},
	}))
	require.NoError(t, err)
	resp.Body.Close()

	_, err = server.WaitForCode(context.Background(), time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoAuthorizationCode)
}

func TestCallbackServer_Timeout(t *testing.T) {
	server := startServer(t, "expected-state")

	_, err := server.WaitForCode(context.Background(), 50*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCallbackTimeout)
}

func TestCallbackServer_ContextCancel(t *testing.T) {
	server := startServer(t, "expected-state")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := server.WaitForCode(ctx, time.Minute)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCallbackServer_PortInUse(t *testing.T) {
	first := startServer(t, "state-1")

	second := NewCallbackServer(first.Port(), "state-2")
	err := second.Start()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPortInUse)
}

func TestCallbackServer_RedirectURI(t *testing.T) {
	server := startServer(t, "state")

	assert.Equal(t, fmt.Sprintf("http://localhost:%d/callback", server.Port()), server.RedirectURI())
	assert.NotZero(t, server.Port())
}

func TestCallbackServer_StopWithoutStart(t *testing.T) {
	server := NewCallbackServer(0, "state")
	assert.NoError(t, server.Stop())
}
