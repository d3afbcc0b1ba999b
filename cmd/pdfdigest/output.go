package main

import (
	"encoding/json"
	"fmt"
	"io"

	"pdf-digest/internal/domain/entity"
)

// result is the JSON output of both subcommands.
type result struct {
	ID            string   `json:"id"`
	Filename      string   `json:"filename"`
	Pages         int      `json:"pages"`
	ExtractedText string   `json:"extracted_text"`
	ChunkCount    int      `json:"chunk_count"`
	Chunks        []string `json:"chunks"`
	Summary       string   `json:"summary,omitempty"`
	SummaryWords  int      `json:"summary_words,omitempty"`
	Provider      string   `json:"provider,omitempty"`
	Model         string   `json:"model,omitempty"`
}

func newResult(d *entity.Digest) result {
	r := result{
		ID:            d.Document.ID,
		Filename:      d.Document.Filename,
		Pages:         d.Document.PageCount(),
		ExtractedText: d.RawText,
		ChunkCount:    len(d.Chunks),
		Chunks:        d.ChunkTexts(),
	}
	if s := d.Summary; s != nil {
		r.Summary = s.Text
		r.SummaryWords = s.Words
		r.Provider = s.Provider
		r.Model = s.Model
	}
	return r
}

func writeJSON(w io.Writer, d *entity.Digest) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(newResult(d)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeText prints the result in the layout of the web page.
func writeText(w io.Writer, d *entity.Digest) error {
	r := newResult(d)
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("Extracted PDF Text (%s, %d pages):\n%s\n\n", r.Filename, r.Pages, r.ExtractedText)
	printf("PDF content split into %d chunks for summarization.\n", r.ChunkCount)
	if d.Summary != nil {
		printf("\nSummary:\n%s\n", r.Summary)
		printf("(%d words, %s", r.SummaryWords, r.Provider)
		if r.Model != "" {
			printf(" / %s", r.Model)
		}
		printf(")\n")
	}
	return err
}
