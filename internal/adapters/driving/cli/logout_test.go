package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
)

func TestLogoutCmd_RemovesCredentials(t *testing.T) {
	store := installTestDeps(t, nil)
	require.NoError(t, store.Save(context.Background(), domain.ServiceGitHub, domain.CredentialRecord{
		Method: domain.AuthMethodPAT,
		PAT:    &domain.PATCredentials{Token: "ghp_x"},
	}))

	out, err := runCommand(t, "auth", "logout", "github")
	require.NoError(t, err)

	assert.Contains(t, out, "Logged out of github")
	record, err := store.Get(context.Background(), domain.ServiceGitHub)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestLogoutCmd_NothingStored(t *testing.T) {
	installTestDeps(t, nil)

	_, err := runCommand(t, "auth", "logout", "jira")
	assert.NoError(t, err)
}

func TestLogoutCmd_UnknownService(t *testing.T) {
	installTestDeps(t, nil)

	_, err := runCommand(t, "auth", "logout", "bitbucket")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownService)
}
