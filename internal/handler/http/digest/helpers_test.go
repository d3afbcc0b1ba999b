package digest

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"pdf-digest/internal/domain/entity"
	"pdf-digest/internal/infra/pdf"
	"pdf-digest/internal/infra/summarizer"
	digestUC "pdf-digest/internal/usecase/digest"
)

// newUpload builds a multipart POST with one part named field.
func newUpload(t *testing.T, target, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// countingSummarizer wraps NoOp and counts calls.
type countingSummarizer struct {
	inner *summarizer.NoOp
	calls atomic.Int32
}

func newCountingSummarizer(maxWords int) *countingSummarizer {
	cfg := summarizer.Config{MinLength: 1, MaxLength: maxWords, RatePerSec: 0}
	return &countingSummarizer{inner: summarizer.NewNoOp(cfg, nil, nil)}
}

func (c *countingSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	c.calls.Add(1)
	return c.inner.Summarize(ctx, text)
}

func (c *countingSummarizer) Info() summarizer.Info { return c.inner.Info() }

// realPipeline wires the real extractor and chunker around a counting NoOp model.
func realPipeline(maxWords int) (*digestUC.Service, *countingSummarizer) {
	sum := newCountingSummarizer(maxWords)
	return digestUC.NewService(pdf.NewExtractor(nil), sum, 512, nil), sum
}

// stubPipeline returns a fixed result or error and records what it saw.
type stubPipeline struct {
	digest   *entity.Digest
	err      error
	calls    atomic.Int32
	lastFile atomic.Value
}

func (s *stubPipeline) Digest(_ context.Context, in digestUC.Input) (*entity.Digest, error) {
	return s.result(in)
}

func (s *stubPipeline) Extract(_ context.Context, in digestUC.Input) (*entity.Digest, error) {
	return s.result(in)
}

func (s *stubPipeline) result(in digestUC.Input) (*entity.Digest, error) {
	s.calls.Add(1)
	s.lastFile.Store(in.Filename)
	if s.err != nil {
		return nil, s.err
	}
	return s.digest, nil
}

func sampleDigest() *entity.Digest {
	return &entity.Digest{
		Document: &entity.Document{ID: "doc-1", Filename: "report.pdf", Pages: []entity.Page{{Number: 1, Text: "A. B."}}},
		RawText:  "A. B.",
		Chunks:   []entity.Chunk{{Index: 0, Text: "A. B.."}},
		Summary:  &entity.Summary{Text: "A B", Words: 2, Provider: "stub", Model: "stub-1"},
	}
}
