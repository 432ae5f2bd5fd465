// Package redis provides helpers for connecting to a Redis server.
//
// The package wraps the go-redis client and adds:
//
//   - A robust Connect which retries the connection using the supplied
//     configuration.
//   - A Healthcheck helper to integrate Redis into HTTP liveness and
//     readiness probes.
//
// Configuration is described by the Config struct whose fields are
// populated from environment variables via github.com/caarlos0/env.
package redis
