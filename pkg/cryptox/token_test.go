package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	for _, size := range []int{TokenSize128, TokenSize256, 24} {
		token, err := GenerateToken(size)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		require.Len(t, raw, size)

		token2, err := GenerateToken(size)
		require.NoError(t, err)
		require.NotEqual(t, token, token2, "tokens should be unique")
	}
}

func TestGenerateToken_BelowMinimumEntropy(t *testing.T) {
	for _, size := range []int{-1, 0, 8, TokenSize128 - 1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestFingerprintToken(t *testing.T) {
	fp1a := FingerprintToken("test-token-1")
	fp1b := FingerprintToken("test-token-1")
	fp2 := FingerprintToken("test-token-2")

	require.Equal(t, fp1a, fp1b, "fingerprint should be deterministic")
	require.NotEqual(t, fp1a, fp2)
	require.Len(t, fp1a, 43, "SHA-256 base64url should be 43 chars")
}

func TestNewOpaqueToken(t *testing.T) {
	raw, fp, err := NewOpaqueToken()
	require.NoError(t, err)
	require.Len(t, raw, 43)
	require.Equal(t, FingerprintToken(raw), fp)
	require.NotEqual(t, raw, fp)

	require.True(t, MatchFingerprint(raw, fp))
	require.False(t, MatchFingerprint(raw+"x", fp))
	require.False(t, MatchFingerprint(raw, ""))
}

func TestNewOpaqueToken_Unique(t *testing.T) {
	const count = 100
	seen := make(map[string]bool, count)

	for range count {
		raw, _, err := NewOpaqueToken()
		require.NoError(t, err)
		require.NotContains(t, seen, raw, "duplicate token generated")
		seen[raw] = true
	}
}
