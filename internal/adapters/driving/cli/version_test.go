package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Executes(t *testing.T) {
	installTestDeps(t, nil)

	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := runCommand(t, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "devpulse version test-version-1.0.0")
}

func TestLoginCmd_UnknownService(t *testing.T) {
	installTestDeps(t, nil)

	_, err := runCommand(t, "auth", "login", "gitlab")
	require.Error(t, err)
}

func TestLoginCmd_GitHubWithoutClientID(t *testing.T) {
	installTestDeps(t, nil)

	_, err := runCommand(t, "auth", "login", "github")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client ID not configured")
}

func TestLoginCmd_JiraWithoutClientSecret(t *testing.T) {
	installTestDeps(t, nil)
	require.NoError(t, configStore.Set("auth.jira.client_id", "jira-client"))

	_, err := runCommand(t, "auth", "login", "jira")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
