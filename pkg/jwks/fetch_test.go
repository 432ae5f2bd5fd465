package jwks_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekit/pkg/jwks"
)

func rsaJWK(t *testing.T, kid string, pub *rsa.PublicKey) map[string]string {
	t.Helper()
	return map[string]string{
		"kty": "RSA",
		"kid": kid,
		"use": "sig",
		"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
}

func ecJWK(t *testing.T, kid string, pub *ecdsa.PublicKey) map[string]string {
	t.Helper()
	byteLen := (pub.Curve.Params().BitSize + 7) / 8
	return map[string]string{
		"kty": "EC",
		"kid": kid,
		"use": "sig",
		"crv": "P-256",
		"x":   base64.RawURLEncoding.EncodeToString(pub.X.FillBytes(make([]byte, byteLen))),
		"y":   base64.RawURLEncoding.EncodeToString(pub.Y.FillBytes(make([]byte, byteLen))),
	}
}

func jwksServer(t *testing.T, keys ...map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"keys": keys})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcherFetch(t *testing.T) {
	t.Parallel()

	t.Run("parses RSA and EC keys", func(t *testing.T) {
		t.Parallel()

		rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)

		srv := jwksServer(t,
			rsaJWK(t, "rsa-key", &rsaKey.PublicKey),
			ecJWK(t, "ec-key", &ecKey.PublicKey),
		)

		fetcher := jwks.NewHTTPFetcher(srv.Client())
		keys, err := fetcher.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		require.Len(t, keys, 2)

		gotRSA, ok := keys["rsa-key"].(*rsa.PublicKey)
		require.True(t, ok)
		assert.True(t, rsaKey.PublicKey.Equal(gotRSA))

		gotEC, ok := keys["ec-key"].(*ecdsa.PublicKey)
		require.True(t, ok)
		assert.True(t, ecKey.PublicKey.Equal(gotEC))
	})

	t.Run("skips keys without kid and non-signing keys", func(t *testing.T) {
		t.Parallel()

		rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		noKid := rsaJWK(t, "", &rsaKey.PublicKey)
		encKey := rsaJWK(t, "enc-key", &rsaKey.PublicKey)
		encKey["use"] = "enc"

		srv := jwksServer(t, noKid, encKey, rsaJWK(t, "good", &rsaKey.PublicKey))

		fetcher := jwks.NewHTTPFetcher(srv.Client())
		keys, err := fetcher.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		require.Len(t, keys, 1)
		assert.Contains(t, keys, "good")
	})

	t.Run("returns ErrNoKeysReturned for empty key list", func(t *testing.T) {
		t.Parallel()

		srv := jwksServer(t)

		fetcher := jwks.NewHTTPFetcher(srv.Client())
		_, err := fetcher.Fetch(context.Background(), srv.URL)
		require.ErrorIs(t, err, jwks.ErrNoKeysReturned)
	})

	t.Run("returns ErrMalformedResponse for invalid json", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "not json at all")
		}))
		t.Cleanup(srv.Close)

		fetcher := jwks.NewHTTPFetcher(srv.Client())
		_, err := fetcher.Fetch(context.Background(), srv.URL)
		require.ErrorIs(t, err, jwks.ErrMalformedResponse)
	})

	t.Run("returns ErrNetwork on non-200 status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		fetcher := jwks.NewHTTPFetcher(srv.Client())
		_, err := fetcher.Fetch(context.Background(), srv.URL)
		require.ErrorIs(t, err, jwks.ErrNetwork)
	})

	t.Run("returns ErrNetwork when the endpoint is unreachable", func(t *testing.T) {
		t.Parallel()

		fetcher := jwks.NewHTTPFetcher(&http.Client{})
		_, err := fetcher.Fetch(context.Background(), "http://127.0.0.1:1/jwks")
		require.ErrorIs(t, err, jwks.ErrNetwork)
	})
}
