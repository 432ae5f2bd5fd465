// Package requestid assigns every HTTP request a correlation id.
//
// Middleware reuses a well-formed inbound X-Request-ID header or generates
// a fresh UUID, echoes it on the response, and stores it in the request
// context. FromContext retrieves it for audit entries; LoggerExtractor
// injects it into log records through the logger package's context
// extractors.
package requestid
