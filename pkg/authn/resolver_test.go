package authn_test

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekit/pkg/authn"
	"github.com/dmitrymomot/gatekit/pkg/jwks"
)

// staticKeySource serves a fixed key map and counts lookups so tests can
// prove which failures are rejected before any key material is touched.
type staticKeySource struct {
	keys    map[string]crypto.PublicKey
	lookups atomic.Int64
}

func (s *staticKeySource) Key(ctx context.Context, provider, kid string) (crypto.PublicKey, error) {
	s.lookups.Add(1)
	key, ok := s.keys[kid]
	if !ok {
		return nil, jwks.ErrKeyNotFound
	}
	return key, nil
}

func testProvider() authn.Provider {
	return authn.Provider{
		Name:       "auth0",
		JWKSURL:    "https://auth0.test/.well-known/jwks.json",
		Issuer:     "https://auth0.test/",
		Audience:   "https://api.example.com",
		Algorithms: []string{"RS256", "ES256"},
	}
}

type tokenOverrides struct {
	issuer   string
	audience string
	exp      time.Time
	noExp    bool
	subject  string
	kid      string
}

func signToken(t *testing.T, key *rsa.PrivateKey, mod func(*tokenOverrides)) string {
	t.Helper()

	o := tokenOverrides{
		issuer:   "https://auth0.test/",
		audience: "https://api.example.com",
		exp:      time.Now().Add(time.Hour),
		subject:  "user-42",
		kid:      "rsa-key",
	}
	if mod != nil {
		mod(&o)
	}

	claims := jwt.MapClaims{
		"iss":   o.issuer,
		"aud":   o.audience,
		"sub":   o.subject,
		"email": "user@example.com",
	}
	if !o.noExp {
		claims["exp"] = o.exp.Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = o.kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestResolverResolve(t *testing.T) {
	t.Parallel()

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keys := &staticKeySource{keys: map[string]crypto.PublicKey{"rsa-key": &rsaKey.PublicKey}}

	resolver, err := authn.NewResolver(testProvider(), keys)
	require.NoError(t, err)

	t.Run("resolves a valid token to a principal", func(t *testing.T) {
		t.Parallel()

		principal, err := resolver.Resolve(context.Background(), signToken(t, rsaKey, nil))
		require.NoError(t, err)
		assert.Equal(t, "user-42", principal.SubjectID)
		assert.Equal(t, "user@example.com", principal.Email)
		assert.Equal(t, "auth0", principal.IssuedBy)
		assert.Equal(t, "https://auth0.test/", principal.Claims["iss"])
	})

	t.Run("rejects empty token", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.Resolve(context.Background(), "")
		require.ErrorIs(t, err, authn.ErrMalformedToken)
	})

	t.Run("rejects oversized token", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.Resolve(context.Background(), strings.Repeat("a", 9000))
		require.ErrorIs(t, err, authn.ErrMalformedToken)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.Resolve(context.Background(), "not.a.jwt")
		require.ErrorIs(t, err, authn.ErrMalformedToken)
	})

	t.Run("rejects disallowed algorithm before key lookup", func(t *testing.T) {
		t.Parallel()

		hsToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"iss": "https://auth0.test/",
			"sub": "user-42",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		hsToken.Header["kid"] = "rsa-key"
		signed, err := hsToken.SignedString([]byte("shared-secret"))
		require.NoError(t, err)

		src := &staticKeySource{keys: map[string]crypto.PublicKey{"rsa-key": &rsaKey.PublicKey}}
		res, err := authn.NewResolver(testProvider(), src)
		require.NoError(t, err)

		_, err = res.Resolve(context.Background(), signed)
		require.ErrorIs(t, err, authn.ErrAlgorithmNotAllowed)
		assert.Equal(t, int64(0), src.lookups.Load())
	})

	t.Run("rejects token without kid", func(t *testing.T) {
		t.Parallel()

		token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"iss": "https://auth0.test/",
			"sub": "user-42",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString(rsaKey)
		require.NoError(t, err)

		_, err = resolver.Resolve(context.Background(), signed)
		require.ErrorIs(t, err, authn.ErrUnknownKey)
	})

	t.Run("rejects unknown kid", func(t *testing.T) {
		t.Parallel()

		signed := signToken(t, rsaKey, func(o *tokenOverrides) { o.kid = "rotated-away" })

		_, err := resolver.Resolve(context.Background(), signed)
		require.ErrorIs(t, err, authn.ErrUnknownKey)
	})

	t.Run("rejects token signed with a different key", func(t *testing.T) {
		t.Parallel()

		otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		signed := signToken(t, otherKey, nil)

		_, err = resolver.Resolve(context.Background(), signed)
		require.ErrorIs(t, err, authn.ErrInvalidSignature)
	})

	t.Run("rejects issuer mismatch", func(t *testing.T) {
		t.Parallel()

		signed := signToken(t, rsaKey, func(o *tokenOverrides) { o.issuer = "https://evil.test/" })

		_, err := resolver.Resolve(context.Background(), signed)
		require.ErrorIs(t, err, authn.ErrIssuerMismatch)
	})

	t.Run("rejects audience mismatch", func(t *testing.T) {
		t.Parallel()

		signed := signToken(t, rsaKey, func(o *tokenOverrides) { o.audience = "https://other-api.example.com" })

		_, err := resolver.Resolve(context.Background(), signed)
		require.ErrorIs(t, err, authn.ErrAudienceMismatch)
	})

	t.Run("rejects token expired one second ago", func(t *testing.T) {
		t.Parallel()

		signed := signToken(t, rsaKey, func(o *tokenOverrides) { o.exp = time.Now().Add(-time.Second) })

		_, err := resolver.Resolve(context.Background(), signed)
		require.ErrorIs(t, err, authn.ErrTokenExpired)
	})

	t.Run("rejects token without exp", func(t *testing.T) {
		t.Parallel()

		signed := signToken(t, rsaKey, func(o *tokenOverrides) { o.noExp = true })

		_, err := resolver.Resolve(context.Background(), signed)
		require.ErrorIs(t, err, authn.ErrTokenExpired)
	})

	t.Run("accepts token expiring shortly from now", func(t *testing.T) {
		t.Parallel()

		signed := signToken(t, rsaKey, func(o *tokenOverrides) { o.exp = time.Now().Add(2 * time.Second) })

		_, err := resolver.Resolve(context.Background(), signed)
		require.NoError(t, err)
	})

	t.Run("rejects token without sub", func(t *testing.T) {
		t.Parallel()

		signed := signToken(t, rsaKey, func(o *tokenOverrides) { o.subject = "" })

		_, err := resolver.Resolve(context.Background(), signed)
		require.ErrorIs(t, err, authn.ErrMalformedToken)
	})

	t.Run("validates ES256 tokens", func(t *testing.T) {
		t.Parallel()

		ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)

		src := &staticKeySource{keys: map[string]crypto.PublicKey{"ec-key": &ecKey.PublicKey}}
		res, err := authn.NewResolver(testProvider(), src)
		require.NoError(t, err)

		token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
			"iss": "https://auth0.test/",
			"aud": "https://api.example.com",
			"sub": "user-7",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		token.Header["kid"] = "ec-key"
		signed, err := token.SignedString(ecKey)
		require.NoError(t, err)

		principal, err := res.Resolve(context.Background(), signed)
		require.NoError(t, err)
		assert.Equal(t, "user-7", principal.SubjectID)
	})
}

func TestNewResolver(t *testing.T) {
	t.Parallel()

	t.Run("rejects symmetric algorithms", func(t *testing.T) {
		t.Parallel()

		p := testProvider()
		p.Algorithms = []string{"HS256"}

		_, err := authn.NewResolver(p, &staticKeySource{})
		require.ErrorIs(t, err, authn.ErrInvalidProviderConfig)
	})

	t.Run("rejects nil key source", func(t *testing.T) {
		t.Parallel()

		_, err := authn.NewResolver(testProvider(), nil)
		require.ErrorIs(t, err, authn.ErrInvalidProviderConfig)
	})

	t.Run("rejects incomplete provider", func(t *testing.T) {
		t.Parallel()

		p := testProvider()
		p.Issuer = ""

		_, err := authn.NewResolver(p, &staticKeySource{})
		require.ErrorIs(t, err, authn.ErrInvalidProviderConfig)
	})
}

func TestIsAuthError(t *testing.T) {
	t.Parallel()

	assert.True(t, authn.IsAuthError(authn.ErrTokenExpired))
	assert.True(t, authn.IsAuthError(authn.ErrMissingCredential))
	assert.False(t, authn.IsAuthError(jwks.ErrNetwork))
	assert.False(t, authn.IsAuthError(nil))
}
