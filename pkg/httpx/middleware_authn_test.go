package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTokenPair(t *testing.T) (jwtx.Signer, jwtx.Verifier) {
	t.Helper()
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("k1", pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	return signer, jwtx.NewVerifierEdDSA(keys, "clubhouse-test", []string{"club"})
}

// echoUser writes the authenticated subject, or "anonymous".
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id := httpx.UserIDFromContext(r.Context())
	if id == "" {
		id = "anonymous"
	}
	_, _ = w.Write([]byte(id))
})

func TestAuthnMiddleware(t *testing.T) {
	signer, verifier := newTokenPair(t)
	token, err := signer.Sign(jwtx.NewSessionClaims("acct-1", "alice", time.Minute, "clubhouse-test", []string{"club"}, time.Now()))
	require.NoError(t, err)

	strict := httpx.Chain(echoUser, httpx.AuthnMiddleware(verifier))
	optional := httpx.Chain(echoUser, httpx.OptionalAuthnMiddleware(verifier))

	do := func(h http.Handler, authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid token", func(t *testing.T) {
		rec := do(strict, "Bearer "+token)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "acct-1", rec.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		rec := do(strict, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")

		rec = do(optional, "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("bad token is rejected even when optional", func(t *testing.T) {
		rec := do(optional, "Bearer not.a.jwt")
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		other, _ := newTokenPair(t)
		forged, err := other.Sign(jwtx.NewSessionClaims("acct-1", "alice", time.Minute, "clubhouse-test", []string{"club"}, time.Now()))
		require.NoError(t, err)
		rec = do(strict, "Bearer "+forged)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		old, err := signer.Sign(jwtx.NewSessionClaims("acct-1", "alice", time.Minute, "clubhouse-test", []string{"club"}, time.Now().Add(-time.Hour)))
		require.NoError(t, err)
		rec := do(optional, "Bearer "+old)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), tag("outer"), tag("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}
