// Package pdf extracts the text layer of PDF documents using github.com/ledongthuc/pdf.
package pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	lpdf "github.com/ledongthuc/pdf"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"pdf-digest/internal/domain/entity"
	"pdf-digest/internal/observability/tracing"
)

// textReplacer removes control characters that some producers leave in the text layer.
var textReplacer = strings.NewReplacer(
	"\u0000", "",
	"\uFFFD", "",
	"\u001b", "",
	"\r", "",
	"\f", "\n",
)

// Extractor reads every page of a PDF and returns it as an entity.Document.
// It is stateless and safe for concurrent use.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an Extractor. A nil logger uses slog.Default().
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract parses the document in r and returns its pages in order.
//
// A document that cannot be opened fails with an error wrapping entity.ErrParse.
// A document with no pages yields an empty Document. Pages without a text layer, or
// whose text cannot be decoded, contribute an empty string; that is not an error.
func (e *Extractor) Extract(ctx context.Context, filename string, r io.ReaderAt, size int64) (doc *entity.Document, err error) {
	ctx, span := tracing.GetTracer().Start(ctx, "pdf.extract")
	defer span.End()

	start := time.Now()

	// The parser panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", entity.ErrParse, rec)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	reader, err := lpdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrParse, err)
	}

	numPages := max(reader.NumPage(), 0)
	doc = &entity.Document{
		ID:       uuid.New().String(),
		Filename: filename,
		Pages:    make([]entity.Page, 0, numPages),
	}

	emptyPages := 0
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extract aborted at page %d: %w", i, err)
		}

		pageText := e.pageText(ctx, reader.Page(i), i)
		if pageText == "" {
			emptyPages++
		}
		doc.Pages = append(doc.Pages, entity.Page{Number: i, Text: pageText})
	}

	span.SetAttributes(
		attribute.Int("pdf.pages", numPages),
		attribute.Int("pdf.empty_pages", emptyPages),
	)
	e.logger.DebugContext(ctx, "pdf text extracted",
		slog.String("document_id", doc.ID),
		slog.Int("pages", numPages),
		slog.Int("empty_pages", emptyPages),
		slog.Duration("duration", time.Since(start)))

	return doc, nil
}

func (e *Extractor) pageText(ctx context.Context, page lpdf.Page, number int) string {
	if page.V.IsNull() || page.V.Key("Contents").IsNull() {
		return ""
	}
	raw, err := page.GetPlainText(nil)
	if err != nil {
		e.logger.WarnContext(ctx, "failed to extract page text, treating page as empty",
			slog.Int("page", number),
			slog.Any("error", err))
		return ""
	}
	return strings.TrimSpace(textReplacer.Replace(raw))
}
