package services

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateState(t *testing.T) {
	state, err := GenerateState()
	require.NoError(t, err)

	decoded, err := base64.RawURLEncoding.DecodeString(state)
	require.NoError(t, err)
	assert.Len(t, decoded, stateLength)
}

func TestGenerateState_FreshPerAttempt(t *testing.T) {
	seen := make(map[string]bool)
	for range 32 {
		state, err := GenerateState()
		require.NoError(t, err)
		assert.False(t, seen[state], "state repeated")
		seen[state] = true
	}
}
