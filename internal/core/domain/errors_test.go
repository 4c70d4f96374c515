package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiredError_NamesService(t *testing.T) {
	err := NewExpiredError(ServiceJira)

	assert.Contains(t, err.Error(), "jira")
	assert.Contains(t, err.Error(), "auth login")
	assert.Equal(t, ServiceJira, err.Service)
}

func TestExpiredError_UnwrapsToSentinel(t *testing.T) {
	err := NewExpiredError(ServiceGitHub)

	require.True(t, errors.Is(err, ErrAuthExpired))

	// Still matches after further wrapping.
	wrapped := fmt.Errorf("resolve github: %w", err)
	assert.True(t, errors.Is(wrapped, ErrAuthExpired))

	var expErr *ExpiredError
	require.True(t, errors.As(wrapped, &expErr))
	assert.Equal(t, ServiceGitHub, expErr.Service)
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrAuthExpired,
		ErrAccessDenied,
		ErrDeviceFlowExpired,
		ErrStateMismatch,
		ErrNoAuthorizationCode,
		ErrCallbackTimeout,
		ErrPortInUse,
		ErrNoAccessibleSites,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}
