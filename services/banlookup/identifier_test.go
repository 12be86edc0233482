package banlookup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeIdentifier(t *testing.T) {
	variants := NormalizeIdentifier("abc123")

	require.Len(t, variants, 6)
	require.Equal(t, "abc123", variants[0])
	require.Contains(t, variants, "license:abc123")
	require.Contains(t, variants, "steam:abc123")
	require.Contains(t, variants, "discord:abc123")
	require.Contains(t, variants, "live:abc123")
	require.Contains(t, variants, "xbl:abc123")
}

func TestNormalizeIdentifierAlreadyPrefixed(t *testing.T) {
	variants := NormalizeIdentifier("steam:110000100000000")

	require.Len(t, variants, 6)
	for _, v := range variants {
		require.False(
			t, strings.Contains(v, "steam:steam:"),
			"prefix applied twice: %s", v,
		)
	}
	require.Contains(t, variants, "steam:110000100000000")
	require.Contains(t, variants, "license:steam:110000100000000")
}
