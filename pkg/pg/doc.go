// Package pg provides utilities for interacting with PostgreSQL using the
// pgx/v5 driver. It offers a thin abstraction around connection pooling,
// health checks, and common error helpers so that services can bootstrap a
// resilient database layer with only a few lines of code.
//
// The package exposes three cooperating building blocks:
//
//   - Config, a declarative struct whose fields are populated from
//     environment variables via github.com/caarlos0/env. It controls
//     connection pool limits and health-check cadence.
//
//   - Connect, which opens a *pgxpool.Pool based on Config, retrying with
//     linear back-off until the database becomes available.
//
//   - Healthcheck, which returns a func(context.Context) error suitable for
//     liveness and readiness probes.
//
// Error helpers (IsNotFoundError, IsDuplicateKeyError,
// IsForeignKeyViolationError) let query code classify failures without
// importing driver internals at every call site.
//
// # Usage
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		// handle error
//	}
//	defer pool.Close()
package pg
