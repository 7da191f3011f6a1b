package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSSLMode(t *testing.T) {
	for input, want := range map[string]SSLMode{
		"":        SSLDisable,
		"disable": SSLDisable,
		"require": SSLRequire,
	} {
		mode, err := ParseSSLMode(input)
		require.NoError(t, err)
		require.Equal(t, want, mode)
	}

	_, err := ParseSSLMode("verify-full")
	require.ErrorContains(t, err, "unsupported ssl mode")
}

func TestSSLModeString(t *testing.T) {
	require.Equal(t, "disable", SSLDisable.String())
	require.Equal(t, "require", SSLRequire.String())
}
