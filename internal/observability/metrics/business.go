package metrics

import "time"

// RecordDocument counts one processed document. Mode is "digest" or "extract".
func RecordDocument(mode, outcome string) {
	DocumentsTotal.WithLabelValues(mode, outcome).Inc()
}

// RecordStage observes the duration of a pipeline stage.
func RecordStage(stage string, duration time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordExtraction records the shape of an extracted document.
func RecordExtraction(pages, runes int) {
	DocumentPages.Observe(float64(pages))
	ExtractedRunes.Observe(float64(runes))
}

// RecordChunks records how many chunks a document was split into.
func RecordChunks(count int) {
	ChunksPerDocument.Observe(float64(count))
}

// RecordUpload records the size of an accepted upload.
func RecordUpload(bytes int64) {
	UploadBytes.Observe(float64(bytes))
}
