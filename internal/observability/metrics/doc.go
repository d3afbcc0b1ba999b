// Package metrics holds the Prometheus collectors for the digest pipeline: documents
// processed per outcome, stage latency, page/chunk/text-size distributions and upload
// sizes. HTTP request metrics live with the HTTP middleware; model call metrics live
// with the summarizers.
//
//	start := time.Now()
//	doc, err := extractor.Extract(ctx, name, r, size)
//	metrics.RecordStage(metrics.StageExtract, time.Since(start))
package metrics
