// Package observability groups the logging, metrics and tracing support of the
// digest pipeline.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers
//   - metrics: Prometheus collectors for pipeline stages and documents
//   - tracing: OpenTelemetry provider setup and the HTTP tracing middleware
package observability
