package authn_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekit/pkg/authn"
)

func TestBearerToken(t *testing.T) {
	t.Parallel()

	t.Run("extracts token from header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer abc.def.ghi")

		token, err := authn.BearerToken(req)
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("accepts lowercase scheme", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "bearer abc.def.ghi")

		token, err := authn.BearerToken(req)
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/", nil)

		_, err := authn.BearerToken(req)
		require.ErrorIs(t, err, authn.ErrMissingCredential)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		_, err := authn.BearerToken(req)
		require.ErrorIs(t, err, authn.ErrMalformedToken)
	})

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer ")

		_, err := authn.BearerToken(req)
		require.ErrorIs(t, err, authn.ErrMalformedToken)
	})
}
