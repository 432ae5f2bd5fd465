// Package logger builds configured slog.Logger instances with automatic
// injection of request-scoped attributes from context.
//
// Packages in this module expose LoggerExtractor functions (request id,
// tenant id, principal) that plug into the logger via
// WithContextExtractors, so every log line emitted during a request carries
// its correlation attributes without explicit plumbing.
package logger
