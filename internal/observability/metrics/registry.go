package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline stages.
const (
	StageExtract   = "extract"
	StageChunk     = "chunk"
	StageSummarize = "summarize"
)

// Document outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeParseError = "parse_error"
	OutcomeEmptyText  = "empty_text"
	OutcomeModelError = "model_error"
	OutcomeError      = "error"
)

var (
	// DocumentsTotal counts processed uploads by pipeline mode (digest, extract) and outcome.
	DocumentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdf_digest_documents_total",
			Help: "Total number of documents processed by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	// StageDuration measures each pipeline stage.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pdf_digest_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: []float64{.001, .005, .025, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	// DocumentPages is the page count of parsed documents.
	DocumentPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pdf_digest_document_pages",
			Help:    "Number of pages per parsed document",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 250, 500},
		},
	)

	// ExtractedRunes is the size of the extracted text.
	ExtractedRunes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pdf_digest_extracted_text_runes",
			Help:    "Length of extracted text in characters",
			Buckets: prometheus.ExponentialBuckets(100, 4, 9),
		},
	)

	// ChunksPerDocument is the number of chunks produced per document.
	ChunksPerDocument = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pdf_digest_chunks_per_document",
			Help:    "Number of chunks produced per document",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000},
		},
	)

	// UploadBytes is the size of accepted uploads.
	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pdf_digest_upload_bytes",
			Help:    "Size of uploaded PDF files in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 9),
		},
	)
)
