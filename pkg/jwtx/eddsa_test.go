package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "clubhouse-test"

func newSigner(t *testing.T, kid string) *jwtx.EdDSASigner {
	t.Helper()
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())
	return signer
}

func newVerifier(t *testing.T, signers ...jwtx.Signer) *jwtx.EdDSAVerifier {
	t.Helper()
	keys := jwtx.NewKeySet()
	for _, s := range signers {
		require.NoError(t, keys.AddSigner(s))
	}
	return jwtx.NewVerifierEdDSA(keys, exampleIssuer, []string{"club"})
}

func TestEdDSASignAndVerify(t *testing.T) {
	signer := newSigner(t, "k1")
	require.Equal(t, "EdDSA", signer.Alg())
	require.Equal(t, "k1", signer.KID())

	now := time.Now().UTC()
	claims := jwtx.NewSessionClaims("acct-1", "alice", 5*time.Minute, exampleIssuer, []string{"club"}, now)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := newVerifier(t, signer).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "acct-1", parsed.Subject)
	require.Equal(t, "alice", parsed.Username)
	require.Equal(t, exampleIssuer, parsed.Issuer)
	require.NotEmpty(t, parsed.ID)
}

func TestEdDSAVerifyFailures(t *testing.T) {
	signer := newSigner(t, "k1")
	now := time.Now().UTC()

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewSessionClaims("a", "u", time.Minute, "someone-else", []string{"club"}, now))
		require.NoError(t, err)
		_, err = newVerifier(t, signer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("wrong audience", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewSessionClaims("a", "u", time.Minute, exampleIssuer, []string{"other"}, now))
		require.NoError(t, err)
		_, err = newVerifier(t, signer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewSessionClaims("a", "u", time.Minute, exampleIssuer, []string{"club"}, now.Add(-time.Hour)))
		require.NoError(t, err)
		_, err = newVerifier(t, signer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("unknown kid", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewSessionClaims("a", "u", time.Minute, exampleIssuer, []string{"club"}, now))
		require.NoError(t, err)
		_, err = newVerifier(t, newSigner(t, "k2")).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("forged signature", func(t *testing.T) {
		impostor := newSigner(t, "k1")
		token, err := impostor.Sign(jwtx.NewSessionClaims("a", "u", time.Minute, exampleIssuer, []string{"club"}, now))
		require.NoError(t, err)
		_, err = newVerifier(t, signer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := newVerifier(t, signer).Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestKeySet(t *testing.T) {
	keys := jwtx.NewKeySet()
	require.False(t, keys.IsReady())

	signer := newSigner(t, "k1")
	require.NoError(t, keys.AddSigner(signer))
	require.True(t, keys.IsReady())

	pub, err := keys.Get("k1")
	require.NoError(t, err)
	require.Equal(t, signer.PublicKey(), pub)

	_, err = keys.Get("missing")
	require.ErrorIs(t, err, jwtx.ErrNoKey)
	require.Error(t, keys.Add("", signer.PublicKey()))
}
