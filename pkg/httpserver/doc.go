// Package httpserver provides a lightweight wrapper around net/http that
// adds graceful shutdown, configurable server timeouts, health-check
// handlers, and structured logging via slog.
//
// The core type is Server:
//
//   - Graceful shutdown: Run blocks until the context is cancelled or an
//     interrupt/TERM signal is received, then shuts the server down with a
//     configurable deadline.
//
//   - Functional options: construction goes through New or NewFromConfig
//     together with Option helpers such as WithAddr, WithReadTimeout and
//     WithLogger.
//
//   - Health checks: HealthCheckHandler returns an http.HandlerFunc usable
//     as both liveness and readiness probe, running the supplied dependency
//     checks for the latter.
//
// # Usage
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		// handle error
//	}
package httpserver
