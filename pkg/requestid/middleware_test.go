package requestid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekit/pkg/requestid"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	handler := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(requestid.FromContext(r.Context())))
	}))

	t.Run("reuses well-formed inbound id", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(requestid.Header, "req-abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "req-abc-123", rec.Body.String())
		assert.Equal(t, "req-abc-123", rec.Header().Get(requestid.Header))
	})

	t.Run("generates an id when absent", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		_, err := uuid.Parse(rec.Body.String())
		require.NoError(t, err)
		assert.Equal(t, rec.Body.String(), rec.Header().Get(requestid.Header))
	})

	t.Run("replaces malformed inbound id", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(requestid.Header, "bad id with spaces")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		_, err := uuid.Parse(rec.Body.String())
		require.NoError(t, err)
	})

	t.Run("replaces oversized inbound id", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(requestid.Header, strings.Repeat("a", 200))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		_, err := uuid.Parse(rec.Body.String())
		require.NoError(t, err)
	})
}
