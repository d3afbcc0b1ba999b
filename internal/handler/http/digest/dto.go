package digest

import (
	"time"

	"pdf-digest/internal/domain/entity"
)

// Response is the JSON body of /api/digest and /api/extract. Summary fields are omitted
// for extraction.
type Response struct {
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
	DurationMS    int64    `json:"duration_ms"`
}

func toResponse(d *entity.Digest, elapsed time.Duration) Response {
	resp := Response{
		ID:            d.Document.ID,
		Filename:      d.Document.Filename,
		Pages:         d.Document.PageCount(),
		ExtractedText: d.RawText,
		ChunkCount:    len(d.Chunks),
		Chunks:        d.ChunkTexts(),
		DurationMS:    elapsed.Milliseconds(),
	}
	if s := d.Summary; s != nil {
		resp.Summary = s.Text
		resp.SummaryWords = s.Words
		resp.Provider = s.Provider
		resp.Model = s.Model
	}
	return resp
}
