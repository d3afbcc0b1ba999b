package digest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pdf-digest/internal/domain/entity"
	"pdf-digest/internal/infra/summarizer"
	"pdf-digest/internal/observability/logging"
	"pdf-digest/internal/observability/metrics"
	"pdf-digest/internal/observability/tracing"
	"pdf-digest/internal/utils/text"
)

// Pipeline modes, used as a metric label.
const (
	modeDigest  = "digest"
	modeExtract = "extract"
)

// Extractor reads the text layer of a PDF.
type Extractor interface {
	Extract(ctx context.Context, filename string, r io.ReaderAt, size int64) (*entity.Document, error)
}

// Summarizer produces a summary of text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Input is one uploaded document.
type Input struct {
	Filename string
	Data     []byte
}

// Service runs the extract → chunk → summarize pipeline. It holds no per-request state
// and is safe for concurrent use.
type Service struct {
	Extractor  Extractor
	Chunker    Chunker
	Summarizer Summarizer
	Logger     *slog.Logger
}

// NewService creates a Service. A non-positive maxChunkSize selects DefaultMaxChunkSize.
func NewService(extractor Extractor, summarizer Summarizer, maxChunkSize int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Extractor:  extractor,
		Chunker:    NewChunker(maxChunkSize),
		Summarizer: summarizer,
		Logger:     logger,
	}
}

// Digest extracts, chunks and summarizes in.
//
// Errors wrap entity.ErrParse when the file is not a readable PDF, entity.ErrEmptyText
// when it has no text layer (the model is never called), and entity.ErrModel when
// summarization fails.
func (s *Service) Digest(ctx context.Context, in Input) (*entity.Digest, error) {
	ctx, span := tracing.StartSpan(ctx, "digest.run", attribute.String("digest.mode", modeDigest))
	defer span.End()

	start := time.Now()
	d, err := s.prepare(ctx, in)
	if err != nil {
		s.fail(ctx, span, modeDigest, in.Filename, err)
		return nil, err
	}

	// Chunk boundaries are not kept for inference; the model sees the joined text.
	input := strings.Join(d.ChunkTexts(), " ")

	stageStart := time.Now()
	out, err := s.Summarizer.Summarize(ctx, input)
	elapsed := time.Since(stageStart)
	metrics.RecordStage(metrics.StageSummarize, elapsed)
	if err != nil {
		err = fmt.Errorf("%w: %w", entity.ErrModel, err)
		s.fail(ctx, span, modeDigest, in.Filename, err)
		return nil, err
	}

	info := summarizer.Describe(s.Summarizer)
	d.Summary = &entity.Summary{
		Text:     out,
		Words:    text.CountWords(out),
		Provider: info.Provider,
		Model:    info.Model,
		Duration: elapsed,
	}

	span.SetAttributes(attribute.Int("digest.summary_words", d.Summary.Words))
	metrics.RecordDocument(modeDigest, metrics.OutcomeSuccess)
	logging.WithRequestID(ctx, s.Logger).InfoContext(ctx, "digest completed",
		slog.String("document_id", d.Document.ID),
		slog.String("filename", in.Filename),
		slog.Int("pages", d.Document.PageCount()),
		slog.Int("chunks", len(d.Chunks)),
		slog.Int("summary_words", d.Summary.Words),
		slog.String("provider", info.Provider),
		slog.Duration("duration", time.Since(start)))

	return d, nil
}

// Extract runs extraction and chunking only. No model is called.
func (s *Service) Extract(ctx context.Context, in Input) (*entity.Digest, error) {
	ctx, span := tracing.StartSpan(ctx, "digest.run", attribute.String("digest.mode", modeExtract))
	defer span.End()

	d, err := s.prepare(ctx, in)
	if err != nil {
		s.fail(ctx, span, modeExtract, in.Filename, err)
		return nil, err
	}

	metrics.RecordDocument(modeExtract, metrics.OutcomeSuccess)
	logging.WithRequestID(ctx, s.Logger).InfoContext(ctx, "extraction completed",
		slog.String("document_id", d.Document.ID),
		slog.String("filename", in.Filename),
		slog.Int("pages", d.Document.PageCount()),
		slog.Int("chunks", len(d.Chunks)))
	return d, nil
}

// prepare extracts the text and splits it, failing with ErrEmptyText when there is
// nothing to summarize.
func (s *Service) prepare(ctx context.Context, in Input) (*entity.Digest, error) {
	stageStart := time.Now()
	doc, err := s.Extractor.Extract(ctx, in.Filename, bytes.NewReader(in.Data), int64(len(in.Data)))
	metrics.RecordStage(metrics.StageExtract, time.Since(stageStart))
	if err != nil {
		if errors.Is(err, entity.ErrParse) {
			return nil, err
		}
		return nil, fmt.Errorf("extract %q: %w", in.Filename, err)
	}

	raw := doc.RawText()
	metrics.RecordExtraction(doc.PageCount(), text.CountRunes(raw))
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: %d page(s) without a text layer", entity.ErrEmptyText, doc.PageCount())
	}

	_, span := tracing.StartSpan(ctx, "digest.chunk")
	stageStart = time.Now()
	chunks := s.Chunker.Split(raw)
	metrics.RecordStage(metrics.StageChunk, time.Since(stageStart))
	metrics.RecordChunks(len(chunks))
	span.SetAttributes(
		attribute.Int("digest.chunks", len(chunks)),
		attribute.Int("digest.max_chunk_size", s.Chunker.MaxChunkSize))
	span.End()

	return &entity.Digest{
		Document: doc,
		RawText:  raw,
		Chunks:   chunks,
	}, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, mode, filename string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, outcomeOf(err))
	metrics.RecordDocument(mode, outcomeOf(err))

	logger := logging.WithRequestID(ctx, s.Logger)
	attrs := []any{
		slog.String("mode", mode),
		slog.String("filename", filename),
		slog.Any("error", err),
	}
	if errors.Is(err, entity.ErrModel) || outcomeOf(err) == metrics.OutcomeError {
		logger.ErrorContext(ctx, "digest failed", attrs...)
		return
	}
	logger.WarnContext(ctx, "document rejected", attrs...)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, entity.ErrParse):
		return metrics.OutcomeParseError
	case errors.Is(err, entity.ErrEmptyText):
		return metrics.OutcomeEmptyText
	case errors.Is(err, entity.ErrModel):
		return metrics.OutcomeModelError
	default:
		return metrics.OutcomeError
	}
}
