package httpserver_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekit/pkg/httpserver"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func waitForServer(t *testing.T, url string) *http.Response {
	t.Helper()
	var resp *http.Response
	var err error
	for range 50 {
		resp, err = http.Get(url)
		if err == nil {
			return resp
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("server never came up: %v", err)
	return nil
}

func TestServerRun(t *testing.T) {
	t.Parallel()

	t.Run("serves requests and stops on context cancel", func(t *testing.T) {
		t.Parallel()

		addr := freeAddr(t)
		srv := httpserver.New(
			httpserver.WithAddr(addr),
			httpserver.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		)

		ctx, cancel := context.WithCancel(context.Background())
		runErr := make(chan error, 1)
		go func() {
			runErr <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "ok")
			}))
		}()

		resp := waitForServer(t, "http://"+addr+"/")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		assert.Equal(t, "ok", string(body))

		cancel()
		select {
		case err := <-runErr:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not shut down")
		}
	})

	t.Run("fails to bind an occupied address", func(t *testing.T) {
		t.Parallel()

		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		t.Cleanup(func() { _ = l.Close() })

		srv := httpserver.New(
			httpserver.WithAddr(l.Addr().String()),
			httpserver.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		)

		err = srv.Run(context.Background(), nil)
		require.ErrorIs(t, err, httpserver.ErrStart)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := httpserver.Config{
		Addr:            ":0",
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
	}

	srv := httpserver.NewFromConfig(cfg)
	require.NotNil(t, srv)
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("liveness returns ALIVE", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(log).ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ALIVE", rec.Body.String())
	})

	t.Run("readiness returns READY when checks pass", func(t *testing.T) {
		t.Parallel()

		ok := func(context.Context) error { return nil }
		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(log, ok, ok).ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "READY", rec.Body.String())
	})

	t.Run("readiness returns NOT_READY on failure", func(t *testing.T) {
		t.Parallel()

		failing := func(context.Context) error { return errors.New("db down") }
		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(log, failing).ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "NOT_READY", rec.Body.String())
	})
}
