// Package entity defines the core domain entities of the PDF digest pipeline.
// A Document is created per upload, reduced to its raw text, chunked and summarized,
// then discarded. Nothing here is persisted or mutated after construction.
package entity

import (
	"strings"
	"time"
)

// Page is a single page of an uploaded document.
// Text may be empty when the page has no text layer (e.g. a scanned image).
type Page struct {
	Number int
	Text   string
}

// Document is an uploaded PDF reduced to its pages, in document order.
type Document struct {
	ID       string
	Filename string
	Pages    []Page
}

// RawText joins the text of every page with a single space, in page order.
func (d *Document) RawText() string {
	if d == nil || len(d.Pages) == 0 {
		return ""
	}
	texts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		texts[i] = p.Text
	}
	return strings.Join(texts, " ")
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	if d == nil {
		return 0
	}
	return len(d.Pages)
}

// Chunk is a bounded, sentence-aligned slice of the raw text.
// Index reflects the order in which the chunk was produced.
type Chunk struct {
	Index int
	Text  string
}

// Summary is the model output for a document.
type Summary struct {
	Text     string
	Words    int
	Provider string
	Model    string
	Duration time.Duration
}

// Digest is the complete result of processing one upload.
// Summary is nil when only extraction and chunking were requested.
type Digest struct {
	Document *Document
	RawText  string
	Chunks   []Chunk
	Summary  *Summary
}

// ChunkTexts returns the text of every chunk, in order.
func (d *Digest) ChunkTexts() []string {
	out := make([]string, len(d.Chunks))
	for i, c := range d.Chunks {
		out[i] = c.Text
	}
	return out
}
