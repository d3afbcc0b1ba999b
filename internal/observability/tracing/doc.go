// Package tracing wires OpenTelemetry spans through the digest pipeline.
//
// The HTTP middleware opens a server span per request and exposes its trace ID in
// the X-Trace-Id response header. Pipeline stages (pdf.extract, digest.chunk,
// summarizer.summarize) open child spans through GetTracer or StartSpan.
//
//	shutdown := tracing.InitProvider(1.0)
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.StartSpan(ctx, "digest.chunk")
//	defer span.End()
package tracing
