// Package logging builds the slog loggers used by the server and the CLI.
//
// The server logs JSON to stdout; the CLI logs text to stderr so that stdout carries
// only the digest. Request-scoped loggers carry the request_id attribute:
//
//	logger := logging.WithRequestID(ctx, slog.Default())
//	logger.Info("digest completed", slog.Int("chunks", n))
package logging
